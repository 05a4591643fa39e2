package images

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitleForPrompt(t *testing.T) {
	t.Run("drops stop words and short tokens", func(t *testing.T) {
		got := cleanTitleForPrompt("Governo anuncia hoje um novo pacote!")
		assert.Equal(t, "governo novo pacote", got)
	})

	t.Run("caps at eight tokens", func(t *testing.T) {
		got := cleanTitleForPrompt("uma duas tres quatro cinco seis sete oito nove dez palavras longas")
		assert.Len(t, strings.Fields(got), 8)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("category base plus style suffix", func(t *testing.T) {
		got := BuildPrompt("Flamengo vence clássico", "sports")
		assert.Contains(t, got, "Dynamic sports scene")
		assert.Contains(t, got, promptStyleSuffix)
	})

	t.Run("unknown category falls back to general", func(t *testing.T) {
		got := BuildPrompt("assunto qualquer", "??")
		assert.Contains(t, got, "Professional news scene")
	})

	t.Run("figure phrase included", func(t *testing.T) {
		got := BuildPrompt("Neymar marca dois gols", "sports")
		assert.Contains(t, got, "Brazilian football player")
	})

	t.Run("domain props from keywords", func(t *testing.T) {
		got := BuildPrompt("Inflação acelera no trimestre", "economy")
		assert.Contains(t, got, "inflation charts")
	})

	t.Run("capped at limit", func(t *testing.T) {
		got := BuildPrompt(strings.Repeat("palavras compridas ", 100), "general")
		assert.LessOrEqual(t, len(got), maxPromptLen)
	})
}
