package images

import (
	"context"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"radarbr/internal/domain"
)

// AIStrategy asks the image generation endpoint for one 1024x1024 picture.
// It misses when no API key is configured or the request fails.
type AIStrategy struct {
	client  openai.Client
	enabled bool
	timeout time.Duration
}

var _ Strategy = (*AIStrategy)(nil)

func NewAIStrategy(apiKey string, timeout time.Duration) *AIStrategy {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &AIStrategy{timeout: timeout}
	if apiKey != "" {
		s.client = openai.NewClient(option.WithAPIKey(apiKey))
		s.enabled = true
	}
	return s
}

func (s *AIStrategy) Name() string { return "ai_generated" }

func (s *AIStrategy) Resolve(ctx context.Context, topic domain.Topic, category string) (domain.ImageAttachment, bool) {
	if !s.enabled {
		return domain.ImageAttachment{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := BuildPrompt(topic.Raw, category)

	resp, err := s.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModelDallE3,
		Size:   openai.ImageGenerateParamsSize1024x1024,
		N:      openai.Int(1),
	})
	if err != nil || len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return domain.ImageAttachment{}, false
	}

	return domain.ImageAttachment{
		URL:     resp.Data[0].URL,
		AltText: topic.Raw,
		Credit:  "Imagem: gerada por IA",
		License: "gerada",
		Origin:  domain.OriginAIGenerated,
	}, true
}
