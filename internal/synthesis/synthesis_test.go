package synthesis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radarbr/internal/domain"
)

var runAt = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func topicFixture() domain.Topic {
	return domain.Topic{
		Raw:        "dólar sobe com juros americanos",
		Normalized: "dólar sobe com juros americanos",
		Region:     "BR",
		SourceTag:  "google-trends-rss",
	}
}

func TestSlug(t *testing.T) {
	t.Run("minute suffix", func(t *testing.T) {
		got := Slug("dólar sobe", runAt)
		assert.Equal(t, "dolar-sobe-202603141509", got)
	})

	t.Run("seconds do not change the slug", func(t *testing.T) {
		a := Slug("dólar sobe", runAt)
		b := Slug("dólar sobe", runAt.Add(20*time.Second))
		assert.Equal(t, a, b)
	})

	t.Run("long phrase stays within limit", func(t *testing.T) {
		got := Slug(strings.Repeat("palavra ", 60), runAt)
		assert.LessOrEqual(t, len(got), maxSlugLen)
		assert.True(t, strings.HasSuffix(got, "-202603141509"))
	})

	t.Run("empty phrase gets a fallback base", func(t *testing.T) {
		assert.Equal(t, "post-202603141509", Slug("???", runAt))
	})
}

func TestTemplateSynthesizer(t *testing.T) {
	s := NewTemplateSynthesizer(280, 850)

	article, err := s.Synthesize(context.Background(), topicFixture(), runAt)
	require.NoError(t, err)

	assert.Equal(t, "Dólar sobe com juros americanos", article.Title)
	assert.GreaterOrEqual(t, article.WordCount, 280)
	assert.GreaterOrEqual(t, strings.Count(article.BodyHTML, "<h2>"), 2)
	assert.Contains(t, article.BodyHTML, "<ul>")
	assert.Contains(t, article.BodyHTML, `<p class="dek">`)
	assert.Equal(t, "economy", article.Category)
	assert.Equal(t, "trend:BR:dólar sobe com juros americanos:20260314", article.SourceKey)
	assert.Equal(t, Slug(topicFixture().Normalized, runAt), article.Slug)
	assert.Equal(t, domain.StatusDraft, article.Status, "publication happens at insert, not here")
	assert.Equal(t, runAt.Truncate(time.Minute), article.PublishedAt)
}

func TestTemplateSynthesizer_Deterministic(t *testing.T) {
	s := NewTemplateSynthesizer(280, 850)

	a, err := s.Synthesize(context.Background(), topicFixture(), runAt)
	require.NoError(t, err)
	b, err := s.Synthesize(context.Background(), topicFixture(), runAt)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEnsureSections(t *testing.T) {
	t.Run("inserts canned block after dek", func(t *testing.T) {
		body := "<p>dek curto</p><p>corpo</p>"
		got := EnsureSections(body)

		assert.Equal(t, 2, strings.Count(got, "<h2>"))
		assert.Contains(t, got, "Contexto e Principais Pontos")
		assert.Contains(t, got, "Desdobramentos e Impactos")
		assert.Less(t, strings.Index(got, "dek curto"), strings.Index(got, "<h2>"),
			"canned sections go after the first paragraph")
	})

	t.Run("single h2 still gains the canned block", func(t *testing.T) {
		body := "<p>dek</p><h2>Só uma seção</h2><p>texto</p>"
		got := EnsureSections(body)
		assert.Equal(t, 3, strings.Count(got, "<h2>"))
	})

	t.Run("two sections left untouched", func(t *testing.T) {
		body := "<p>dek</p><h2>Uma</h2><p>a</p><h2>Duas</h2><p>b</p>"
		assert.Equal(t, body, EnsureSections(body))
	})

	t.Run("no paragraph inserts at front", func(t *testing.T) {
		got := EnsureSections("texto cru")
		assert.True(t, strings.HasPrefix(got, "\n<h2>"))
	})
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 4, WordCount("<p>um dois</p><h2>três quatro</h2>"))
	assert.Equal(t, 0, WordCount("<ul><li></li></ul>"))
}

func TestGenerativeWordFloorBoundary(t *testing.T) {
	s := NewGenerativeSynthesizer("test-key", "gpt-4o-mini", NewTemplateSynthesizer(280, 850), nil)

	// payloadOf builds a well-formed payload whose assembled body counts
	// exactly total words: 4 from the dek, 2 from the headings, the rest
	// from the filler paragraph.
	payloadOf := func(total int) generatedPayload {
		filler := strings.TrimSpace(strings.Repeat("palavra ", total-6))
		return generatedPayload{
			Title: "Título dentro do limite",
			Dek:   "Resumo objetivo do tema",
			HTML:  "<h2>Contexto</h2>\n<h2>Análise</h2>\n<p>" + filler + "</p>",
		}
	}

	t.Run("279 words falls back to template", func(t *testing.T) {
		_, reject := s.fromPayload(topicFixture(), runAt, payloadOf(279))
		assert.NotEmpty(t, reject)
	})

	t.Run("280 words accepted", func(t *testing.T) {
		article, reject := s.fromPayload(topicFixture(), runAt, payloadOf(280))
		require.Empty(t, reject)
		assert.Equal(t, 280, article.WordCount)
		assert.Equal(t, domain.StatusDraft, article.Status)
	})

	t.Run("body without sections rejected", func(t *testing.T) {
		payload := payloadOf(300)
		payload.HTML = strings.ReplaceAll(payload.HTML, "h2>", "p>")
		_, reject := s.fromPayload(topicFixture(), runAt, payload)
		assert.NotEmpty(t, reject)
	})
}

func TestFirstJSONBlob(t *testing.T) {
	t.Run("extracts from chatter", func(t *testing.T) {
		blob, ok := firstJSONBlob("Claro! Aqui está: {\"title\":\"T\"} espero que ajude")
		require.True(t, ok)
		assert.JSONEq(t, `{"title":"T"}`, blob)
	})

	t.Run("invalid json rejected", func(t *testing.T) {
		_, ok := firstJSONBlob("{quebrado}")
		assert.False(t, ok)
	})

	t.Run("no braces", func(t *testing.T) {
		_, ok := firstJSONBlob("sem json aqui")
		assert.False(t, ok)
	})
}
