package ports

import (
	"context"
	"time"

	"radarbr/internal/domain"
)

// TrendSource supplies normalized trending topics for a region.
type TrendSource interface {
	FetchTopics(ctx context.Context, region string, limit int) ([]domain.Topic, error)
}

// ImageResolver produces exactly one attachment per topic. It never fails;
// the terminal placeholder strategy cannot error.
type ImageResolver interface {
	Resolve(ctx context.Context, topic domain.Topic, category string) domain.ImageAttachment
}

// Synthesizer produces a draft article for a topic. The run timestamp is
// truncated to the minute so the duplicate guard derives identical slugs.
type Synthesizer interface {
	Synthesize(ctx context.Context, topic domain.Topic, runAt time.Time) (domain.Article, error)
}

// ArticleStore is the narrow interface to the content store. Insert is
// the publication step: a successful insert stores the draft as published.
type ArticleStore interface {
	Exists(ctx context.Context, slug string) (bool, error)
	ExistsKey(ctx context.Context, sourceKey string) (bool, error)
	RecentSlugs(ctx context.Context, window time.Duration) (map[string]struct{}, error)
	Insert(ctx context.Context, article domain.Article) error
	TouchSitemap(ctx context.Context)
}

// StoreMaintenance covers the reset and report CLI surfaces.
type StoreMaintenance interface {
	DeleteByScope(ctx context.Context, scope string, withMedia bool) (int, error)
	Aggregate(ctx context.Context, since time.Time) (domain.PeriodSummary, error)
}
