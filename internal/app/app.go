// Package app wires configuration into the pipeline, its adapters and the
// command surfaces exposed by the CLI.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"radarbr/internal/config"
	"radarbr/internal/domain"
	"radarbr/internal/images"
	"radarbr/internal/logging"
	"radarbr/internal/pipeline"
	"radarbr/internal/ports"
	"radarbr/internal/scheduler"
	"radarbr/internal/storage"
	"radarbr/internal/synthesis"
	"radarbr/internal/trends"
)

// Application owns the wired pipeline and the store lifecycle.
type Application struct {
	cfg          config.Config
	logger       *slog.Logger
	store        *storage.Store
	orchestrator *pipeline.Orchestrator
}

// New connects the store and assembles the full dependency graph. The
// profile overrides the configured text strategy when non-empty.
func New(ctx context.Context, cfg config.Config, profile string, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	pinger := storage.NewSitemapPinger(cfg.Sitemap.URL, nil, baseLogger.With("component", "sitemap"))
	store, err := storage.Open(ctx, cfg.Database.DSN, cfg.Images.MediaDir, pinger, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, err
	}

	source := buildTrendSource(cfg, baseLogger)
	resolver := buildResolver(cfg, baseLogger)
	synth := buildSynthesizer(cfg, profile, baseLogger)
	guard := pipeline.NewGuard(store, cfg.RecentWindow, baseLogger.With("component", "guard"))

	orchestrator := pipeline.NewOrchestrator(
		source, guard, resolver, synth, store,
		cfg.MaxParallel,
		baseLogger.With("component", "pipeline"),
	)

	return &Application{
		cfg:          cfg,
		logger:       baseLogger,
		store:        store,
		orchestrator: orchestrator,
	}, nil
}

func (a *Application) Close() error {
	return a.store.Close()
}

// buildTrendSource assembles the provider fallback chain in its fixed
// order: realtime, daily JSON, daily RSS, news headlines, news sections,
// annual top charts.
func buildTrendSource(cfg config.Config, logger *slog.Logger) ports.TrendSource {
	httpClient := &http.Client{Timeout: cfg.Trends.Timeout}
	google := trends.NewGoogleClient(cfg.Trends.BaseURL, httpClient)

	providers := []trends.Provider{
		trends.NewRealtimeProvider(google),
		trends.NewDailyProvider(google),
		trends.NewDailyRSSProvider(cfg.Trends.BaseURL),
		trends.NewHeadlinesRSSProvider(cfg.Trends.NewsRSSBase),
		trends.NewSectionsRSSProvider(cfg.Trends.NewsRSSBase),
		trends.NewTopChartsProvider(google),
	}
	return trends.NewRegistry(providers, cfg.Trends.Timeout, logger.With("component", "trends"))
}

func buildResolver(cfg config.Config, logger *slog.Logger) ports.ImageResolver {
	fetchClient := &http.Client{Timeout: cfg.Images.FetchTimeout}

	available := map[string]images.Strategy{
		"figure_profile": images.NewFigureStrategy(),
		"scraped_origin": images.NewScrapeStrategy(fetchClient, 10*time.Second),
		"stock":          images.NewStockStrategy(cfg.Images.WikimediaURL, cfg.Images.OpenverseURL, fetchClient, cfg.Images.FetchTimeout),
		"ai_generated":   images.NewAIStrategy(cfg.Synthesis.OpenAIKey, cfg.Images.AITimeout),
		"placeholder":    images.NewPlaceholderStrategy(),
	}
	chain := images.BuildChain(cfg.Images.StrategyOrder, available)
	return images.NewResolver(chain, logger.With("component", "images"))
}

func buildSynthesizer(cfg config.Config, profile string, logger *slog.Logger) ports.Synthesizer {
	strategy := cfg.Synthesis.TextStrategy
	if profile != "" {
		strategy = profile
	}

	template := synthesis.NewTemplateSynthesizer(cfg.Synthesis.MinWordCount, cfg.Synthesis.TargetWordCount)
	if strategy == "generative" && cfg.Synthesis.OpenAIKey != "" {
		return synthesis.NewGenerativeSynthesizer(
			cfg.Synthesis.OpenAIKey, cfg.Synthesis.OpenAIModel,
			template, logger.With("component", "synthesis"))
	}
	return template
}

// RunOnce executes a single pipeline run.
func (a *Application) RunOnce(ctx context.Context, count int, region string, force bool) (domain.RunReport, error) {
	if count <= 0 {
		count = a.cfg.Count
	}
	if region == "" {
		region = a.cfg.Region
	}
	return a.orchestrator.Run(ctx, pipeline.RunOptions{Count: count, Region: region, Force: force})
}

// Reset deletes generated articles and, unless noPublish is set, runs a
// fresh pipeline pass to repopulate the portal.
func (a *Application) Reset(ctx context.Context, scope string, withMedia, noPublish bool, count int, force bool) (int, *domain.RunReport, error) {
	deleted, err := a.store.DeleteByScope(ctx, scope, withMedia)
	if err != nil {
		return 0, nil, err
	}
	a.logger.Info("reset done", "scope", scope, "deleted", deleted, "with_media", withMedia)

	if noPublish {
		return deleted, nil, nil
	}

	report, err := a.RunOnce(ctx, count, "", force)
	if err != nil {
		return deleted, nil, err
	}
	return deleted, &report, nil
}

// Report aggregates production since the period cutoff.
func (a *Application) Report(ctx context.Context, period time.Duration) (domain.PeriodSummary, error) {
	return a.store.Aggregate(ctx, time.Now().Add(-period))
}

// Schedule blocks running the trigger loop until ctx is cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	sched := scheduler.New(
		a.orchestrator,
		a.cfg.Scheduler,
		a.cfg.Region,
		a.cfg.Count,
		a.logger.With("component", "scheduler"),
	)
	return sched.Run(ctx)
}
