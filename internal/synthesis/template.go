package synthesis

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"radarbr/internal/category"
	"radarbr/internal/domain"
	"radarbr/internal/ports"
)

const (
	maxTitleLen = 140
	maxDekLen   = 220
)

// paddingParagraphs extend the scaffold until the word floor is met. Each
// entry takes the topic phrase as its single format argument.
var paddingParagraphs = []string{
	"<p>O assunto <strong>%s</strong> ganhou destaque nas buscas recentes e concentra a atenção de leitores em todo o país. Acompanhar a evolução do tema ajuda a entender o cenário atual e a separar fatos confirmados de especulações que circulam nas redes.</p>",
	"<p>Especialistas recomendam cautela ao interpretar informações preliminares sobre %s. Fontes oficiais e veículos de imprensa consolidados continuam sendo o caminho mais seguro para confirmar números, datas e desdobramentos relevantes.</p>",
	"<p>O interesse por %s também reflete movimentos mais amplos no noticiário brasileiro. Temas que crescem rapidamente nas buscas costumam indicar discussões que seguirão presentes nos próximos dias, com novas informações sendo divulgadas gradualmente.</p>",
	"<p>Para quem deseja se aprofundar em %s, vale observar o histórico do tema, as posições dos principais envolvidos e o impacto esperado para diferentes públicos. O contexto completo evita conclusões precipitadas.</p>",
	"<p>A repercussão em torno de %s deve continuar enquanto novos fatos forem confirmados. Esta página será atualizada conforme informações adicionais se tornarem públicas e verificáveis.</p>",
	"<p>Vale lembrar que buscas relacionadas a %s costumam trazer resultados de qualidade variada. Priorizar fontes com responsabilidade editorial é a melhor forma de se manter bem informado sobre o tema.</p>",
}

// TemplateSynthesizer fills a deterministic PT-BR scaffold. It performs no
// external calls and never fails.
type TemplateSynthesizer struct {
	minWords    int
	targetWords int
}

var _ ports.Synthesizer = (*TemplateSynthesizer)(nil)

func NewTemplateSynthesizer(minWords, targetWords int) *TemplateSynthesizer {
	if minWords <= 0 {
		minWords = 280
	}
	if targetWords < minWords {
		targetWords = minWords
	}
	return &TemplateSynthesizer{minWords: minWords, targetWords: targetWords}
}

func (s *TemplateSynthesizer) Synthesize(_ context.Context, topic domain.Topic, runAt time.Time) (domain.Article, error) {
	phrase := strings.TrimSpace(topic.Raw)
	if phrase == "" {
		phrase = topic.Normalized
	}

	title := clampRunes(capitalizeFirst(phrase), maxTitleLen)
	dek := clampRunes(fmt.Sprintf("Entenda, de forma objetiva, os principais pontos sobre %s.", phrase), maxDekLen)
	body := s.scaffold(phrase, dek)

	return buildArticle(topic, runAt, title, dek, body), nil
}

func (s *TemplateSynthesizer) scaffold(phrase, dek string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p class=\"dek\">%s</p>\n", dek)
	b.WriteString("<h2>Resumo rápido</h2>\n")
	fmt.Fprintf(&b, "<p>Este conteúdo traz uma visão direta sobre <strong>%s</strong>: contexto, principais fatos e o que observar a seguir.</p>\n", phrase)
	b.WriteString("<h2>Principais pontos</h2>\n")
	b.WriteString("<ul>\n")
	b.WriteString("  <li>O que é: definição breve do tema.</li>\n")
	b.WriteString("  <li>Por que importa: impacto para o público.</li>\n")
	b.WriteString("  <li>Próximos passos: o que acompanhar.</li>\n")
	b.WriteString("</ul>\n")
	b.WriteString("<h2>Perguntas frequentes</h2>\n")
	fmt.Fprintf(&b, "<h3>O que é %s?</h3>\n<p>Resumo simples e claro do tema em evidência.</p>\n", phrase)
	b.WriteString("<h3>Qual o impacto?</h3>\n<p>Impactos práticos no dia a dia das pessoas.</p>\n")

	body := b.String()
	for i := 0; WordCount(body) < s.minWords; i++ {
		body += "\n" + fmt.Sprintf(paddingParagraphs[i%len(paddingParagraphs)], phrase)
	}
	return body
}

// buildArticle applies the shared post-synthesis pass: section guarantee,
// slug and idempotency key, category routing and word count. The result is
// a draft; the store flips it to published on successful insert.
func buildArticle(topic domain.Topic, runAt time.Time, title, dek, body string) domain.Article {
	body = EnsureSections(body)
	runAt = runAt.Truncate(time.Minute)

	return domain.Article{
		Title:       title,
		Slug:        Slug(topic.Normalized, runAt),
		Dek:         dek,
		BodyHTML:    body,
		WordCount:   WordCount(body),
		Category:    category.ForTopic(topic.Raw),
		SourceKey:   domain.SourceKey(topic.Region, topic.Normalized, runAt),
		SourceLabel: topic.SourceTag,
		PublishedAt: runAt,
		Status:      domain.StatusDraft,
	}
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func clampRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
