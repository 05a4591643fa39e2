package trends

import (
	"context"
	"log/slog"
	"time"

	"radarbr/internal/apperr"
	"radarbr/internal/domain"
	"radarbr/internal/ports"
	"radarbr/internal/retry"
)

// Provider is a single trend source. It returns raw topics; cleaning and
// filtering happen in the registry. A failed provider returns an error and
// never panics or blocks past its deadline.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, region string, limit int) ([]domain.Topic, error)
}

// Registry tries providers in priority order, concatenating results until
// enough normalized topics are available or the chain is exhausted.
// Provider failures are logged and never abort the chain.
type Registry struct {
	providers []Provider
	timeout   time.Duration
	retry     retry.Config
	logger    *slog.Logger
}

var _ ports.TrendSource = (*Registry)(nil)

// NewRegistry builds the chain with a per-provider timeout.
func NewRegistry(providers []Provider, timeout time.Duration, logger *slog.Logger) *Registry {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Registry{
		providers: providers,
		timeout:   timeout,
		retry:     retry.Config{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second},
		logger:    logger,
	}
}

// FetchTopics walks the chain and returns at most limit normalized topics.
func (r *Registry) FetchTopics(ctx context.Context, region string, limit int) ([]domain.Topic, error) {
	if limit <= 0 {
		return nil, nil
	}

	var raw []domain.Topic
	for _, p := range r.providers {
		if err := ctx.Err(); err != nil {
			return Normalize(raw, limit), err
		}

		batch, err := r.fetchOne(ctx, p, region, limit)
		if err != nil {
			r.warn("trend provider failed", "provider", p.Name(), "error", err)
			continue
		}
		if len(batch) == 0 {
			r.warn("trend provider returned nothing", "provider", p.Name())
			continue
		}

		for i := range batch {
			if batch[i].SourceTag == "" {
				batch[i].SourceTag = p.Name()
			}
			batch[i].Region = region
		}
		raw = append(raw, batch...)

		if len(Normalize(raw, limit)) >= limit {
			break
		}
	}

	normalized := Normalize(raw, limit)
	if len(normalized) == 0 && len(raw) == 0 {
		return nil, apperr.New(apperr.ProviderUnavailable, "all trend providers failed or returned nothing")
	}
	return normalized, nil
}

func (r *Registry) fetchOne(ctx context.Context, p Provider, region string, limit int) ([]domain.Topic, error) {
	var batch []domain.Topic
	err := retry.Do(ctx, r.retry, func(ctx context.Context) error {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		var err error
		batch, err = p.Fetch(cctx, region, limit)
		return err
	})
	return batch, err
}

func (r *Registry) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
