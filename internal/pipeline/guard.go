// Package pipeline drives one ingestion run: fetch topics, drop recent
// duplicates, then resolve an image, synthesize and persist each survivor
// with bounded parallelism.
package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"radarbr/internal/apperr"
	"radarbr/internal/domain"
	"radarbr/internal/ports"
	"radarbr/internal/synthesis"
)

// slugTimestampRe cuts the minute suffix off persisted slugs so two runs
// within the window compare on the phrase alone.
var slugTimestampRe = regexp.MustCompile(`-\d{12}$`)

// Guard drops topics already covered by a recent article or by today's
// idempotency key. Read-only against the store.
type Guard struct {
	store  ports.ArticleStore
	window time.Duration
	logger *slog.Logger
}

func NewGuard(store ports.ArticleStore, window time.Duration, logger *slog.Logger) *Guard {
	if window <= 0 {
		window = 6 * time.Hour
	}
	return &Guard{store: store, window: window, logger: logger}
}

// Filter partitions topics into survivors and skipped outcomes. The scan
// stops once limit survivors are collected, and recorded skips are bounded
// so survivors plus skips never exceed limit; the overfetched tail must not
// inflate the run accounting.
func (g *Guard) Filter(ctx context.Context, topics []domain.Topic, runAt time.Time, limit int) ([]domain.Topic, []domain.TopicOutcome, error) {
	recent, err := g.store.RecentSlugs(ctx, g.window)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.StoreError, "load recent slugs", err)
	}

	recentBases := make(map[string]struct{}, len(recent))
	for s := range recent {
		recentBases[slugTimestampRe.ReplaceAllString(s, "")] = struct{}{}
	}

	var keep []domain.Topic
	var skipped []domain.TopicOutcome
	for _, topic := range topics {
		if limit > 0 && len(keep) == limit {
			break
		}
		dup, detail, err := g.isDuplicate(ctx, topic, runAt, recentBases)
		if err != nil {
			return nil, nil, err
		}
		if dup {
			g.debug("duplicate skipped", "topic", topic.Normalized, "detail", detail)
			skipped = append(skipped, domain.TopicOutcome{
				Topic:  topic,
				State:  domain.StateSkippedDuplicate,
				Kind:   string(apperr.DuplicateKey),
				Detail: detail,
			})
			continue
		}
		keep = append(keep, topic)
	}
	if limit > 0 && len(skipped) > limit-len(keep) {
		skipped = skipped[:limit-len(keep)]
	}
	return keep, skipped, nil
}

func (g *Guard) isDuplicate(ctx context.Context, topic domain.Topic, runAt time.Time, recentBases map[string]struct{}) (bool, string, error) {
	if _, ok := recentBases[synthesis.SlugBase(topic.Normalized)]; ok {
		return true, "slug seen within recent window", nil
	}

	key := domain.SourceKey(topic.Region, topic.Normalized, runAt)
	exists, err := g.store.ExistsKey(ctx, key)
	if err != nil {
		return false, "", apperr.Wrap(apperr.StoreError, "check source key", err)
	}
	if exists {
		return true, "source key already persisted", nil
	}

	exists, err = g.store.Exists(ctx, synthesis.Slug(topic.Normalized, runAt))
	if err != nil {
		return false, "", apperr.Wrap(apperr.StoreError, "check slug", err)
	}
	if exists {
		return true, "exact slug already persisted", nil
	}
	return false, "", nil
}

func (g *Guard) debug(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
