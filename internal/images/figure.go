package images

import (
	"context"
	"strings"

	"radarbr/internal/domain"
	"radarbr/internal/figures"
)

// profileImages maps a handle to a known public profile picture. Handles
// without an entry resolve to a figure placeholder asset.
var profileImages = map[string]string{
	"@lulaoficial": "https://radarbr.com/media/figures/lula.jpg",
	"@neymarjr":    "https://radarbr.com/media/figures/neymar.jpg",
	"@anitta":      "https://radarbr.com/media/figures/anitta.jpg",
	"@katyperry":   "https://radarbr.com/media/figures/katy-perry.jpg",
}

// FigureStrategy matches the topic against the public-figure directory and
// attaches a profile-derived image. The credit always names the profile.
type FigureStrategy struct{}

var _ Strategy = (*FigureStrategy)(nil)

func NewFigureStrategy() *FigureStrategy {
	return &FigureStrategy{}
}

func (s *FigureStrategy) Name() string { return "figure_profile" }

func (s *FigureStrategy) Resolve(_ context.Context, topic domain.Topic, _ string) (domain.ImageAttachment, bool) {
	figure, ok := figures.Detect(topic.Raw)
	if !ok {
		return domain.ImageAttachment{}, false
	}

	url, known := profileImages[figure.Handle]
	if !known {
		url = "/static/img/figures/" + slugifyKey(figure.Key) + ".jpg"
	}

	return domain.ImageAttachment{
		URL:     url,
		AltText: figure.Names[0],
		Credit:  "Foto: " + figure.Handle + " (perfil público)",
		License: "divulgação",
		Origin:  domain.OriginFigureProfile,
	}, true
}

func slugifyKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), " ", "-")
}
