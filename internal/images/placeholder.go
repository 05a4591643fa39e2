package images

import (
	"context"
	"fmt"

	"radarbr/internal/domain"
)

// PlaceholderStrategy is the terminal chain element. It maps the category
// to a local static asset and cannot miss.
type PlaceholderStrategy struct{}

var _ Strategy = (*PlaceholderStrategy)(nil)

func NewPlaceholderStrategy() *PlaceholderStrategy {
	return &PlaceholderStrategy{}
}

func (s *PlaceholderStrategy) Name() string { return "placeholder" }

func (s *PlaceholderStrategy) Resolve(_ context.Context, topic domain.Topic, category string) (domain.ImageAttachment, bool) {
	return placeholderAttachment(topic, category), true
}

func placeholderAttachment(topic domain.Topic, category string) domain.ImageAttachment {
	if category == "" {
		category = "general"
	}
	return domain.ImageAttachment{
		URL:     fmt.Sprintf("/static/img/placeholders/%s.jpg", category),
		AltText: "Imagem ilustrativa: " + topic.Raw,
		Credit:  "Imagem: RadarBR",
		License: "uso interno",
		Origin:  domain.OriginPlaceholder,
	}
}
