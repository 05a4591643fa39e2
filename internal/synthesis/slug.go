// Package synthesis turns a topic into a publishable PT-BR article. Two
// variants exist: the deterministic template scaffold and the generative
// one backed by a text-generation endpoint.
package synthesis

import (
	"time"

	"github.com/gosimple/slug"
)

const (
	maxSlugLen = 180
	// slugTimeLayout is minute-precision so every worker in one run
	// derives the same slug for the same topic.
	slugTimeLayout = "200601021504"
)

// SlugBase is the deterministic slug prefix for a topic phrase, capped so
// the full slug with timestamp suffix stays within the column limit.
func SlugBase(normalized string) string {
	base := slug.Make(normalized)
	if base == "" {
		base = "post"
	}
	limit := maxSlugLen - len(slugTimeLayout) - 1
	if len(base) > limit {
		base = base[:limit]
	}
	return base
}

// Slug builds the final slug: base plus the run timestamp truncated to
// the minute.
func Slug(normalized string, runAt time.Time) string {
	return SlugBase(normalized) + "-" + runAt.Truncate(time.Minute).Format(slugTimeLayout)
}
