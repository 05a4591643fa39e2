package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"radarbr/internal/domain"
	"radarbr/internal/ports"
)

const systemPrompt = "Você é um redator sênior de portal de notícias brasileiro. " +
	"Escreva em PT-BR, direto ao ponto, tom informativo, com práticas de SEO. " +
	"Nunca invente dados específicos (datas, placares, preços). Quando necessário, use linguagem geral."

const userPromptFormat = `Gere um ARTIGO EM JSON sobre o tópico entre <topic>…</topic>. Regras:

<topic>%s</topic>

[OBJETIVO]
- Otimizar para SEO e intenção de busca (informacional).
- Tamanho alvo: >= %d palavras (conteúdo substancial, sem enrolação).
- Linguagem simples, parágrafos de 2-4 linhas.

[ESTRUTURA]
- Retorne apenas um JSON com campos: "title", "dek", "html".
- title: 55-70 caracteres, claro e sem clickbait.
- dek: 140-200 caracteres, resumo chamativo com a palavra-chave principal.
- html: conteúdo em HTML sem <html>/<body>, com seções <h2>, listas <ul> e FAQ em <h3>.

[REGRAS]
- Não use marcações Markdown; apenas HTML nos trechos de conteúdo.
- Não coloque tag <h1> no corpo.
- Não cite que foi gerado por IA.
- Sem links externos.
- NUNCA retorne nada além do JSON final.`

// GenerativeSynthesizer delegates body generation to the chat endpoint and
// falls back to the template scaffold on any failure.
type GenerativeSynthesizer struct {
	client   openai.Client
	model    string
	fallback *TemplateSynthesizer
	logger   *slog.Logger
}

var _ ports.Synthesizer = (*GenerativeSynthesizer)(nil)

func NewGenerativeSynthesizer(apiKey, model string, fallback *TemplateSynthesizer, logger *slog.Logger) *GenerativeSynthesizer {
	return &GenerativeSynthesizer{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		fallback: fallback,
		logger:   logger,
	}
}

type generatedPayload struct {
	Title string `json:"title"`
	Dek   string `json:"dek"`
	HTML  string `json:"html"`
}

func (s *GenerativeSynthesizer) Synthesize(ctx context.Context, topic domain.Topic, runAt time.Time) (domain.Article, error) {
	payload, err := s.generate(ctx, topic)
	if err != nil {
		s.warn("generation failed, using template", "topic", topic.Normalized, "err", err)
		return s.fallback.Synthesize(ctx, topic, runAt)
	}

	article, reject := s.fromPayload(topic, runAt, payload)
	if reject != "" {
		s.warn("generation rejected, using template", "topic", topic.Normalized, "reason", reject)
		return s.fallback.Synthesize(ctx, topic, runAt)
	}
	return article, nil
}

// fromPayload validates the generated payload and assembles the article.
// A non-empty reject reason sends the topic to the template fallback.
func (s *GenerativeSynthesizer) fromPayload(topic domain.Topic, runAt time.Time, payload generatedPayload) (domain.Article, string) {
	title := clampRunes(collapseSpaces(payload.Title), maxTitleLen)
	dek := clampRunes(collapseSpaces(payload.Dek), maxDekLen)
	body := strings.TrimSpace(payload.HTML)

	if title == "" || dek == "" || !strings.Contains(strings.ToLower(body), "<h2") {
		return domain.Article{}, "malformed payload"
	}

	article := buildArticle(topic, runAt, title, dek, "<p class=\"dek\">"+dek+"</p>\n"+body)
	if article.WordCount < s.fallback.minWords {
		return domain.Article{}, fmt.Sprintf("below word floor: %d", article.WordCount)
	}
	return article, ""
}

func (s *GenerativeSynthesizer) generate(ctx context.Context, topic domain.Topic) (generatedPayload, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf(userPromptFormat, strings.TrimSpace(topic.Raw), s.fallback.targetWords)),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return generatedPayload{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return generatedPayload{}, fmt.Errorf("empty completion response")
	}

	blob, ok := firstJSONBlob(resp.Choices[0].Message.Content)
	if !ok {
		return generatedPayload{}, fmt.Errorf("no json object in completion")
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return generatedPayload{}, fmt.Errorf("decode completion json: %w", err)
	}
	return payload, nil
}

// firstJSONBlob cuts the substring between the first '{' and the last '}'
// and accepts it only when it is valid JSON.
func firstJSONBlob(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	blob := text[start : end+1]
	if !json.Valid([]byte(blob)) {
		return "", false
	}
	return blob, true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (s *GenerativeSynthesizer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
