package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"radarbr/internal/apperr"
	"radarbr/internal/category"
	"radarbr/internal/domain"
	"radarbr/internal/ports"
	"radarbr/internal/retry"
)

// ErrRunActive is returned when a trigger arrives while a run is in
// flight; runs are strictly serialized.
var ErrRunActive = errors.New("pipeline run already active")

const (
	// overfetchFactor pads the provider request so duplicates can be
	// dropped without starving the run.
	overfetchFactor = 3

	defaultTopicTimeout = 60 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

// RunOptions parameterize one orchestrator invocation.
type RunOptions struct {
	Count  int
	Region string
	Force  bool
}

// Orchestrator owns the run lifecycle: run-lock, topic acquisition,
// duplicate filtering and the bounded worker pool.
type Orchestrator struct {
	source   ports.TrendSource
	guard    *Guard
	resolver ports.ImageResolver
	synth    ports.Synthesizer
	store    ports.ArticleStore
	logger   *slog.Logger

	maxParallel  int
	topicTimeout time.Duration
	runTimeout   time.Duration
	retry        retry.Config

	running atomic.Bool
}

func NewOrchestrator(
	source ports.TrendSource,
	guard *Guard,
	resolver ports.ImageResolver,
	synth ports.Synthesizer,
	store ports.ArticleStore,
	maxParallel int,
	logger *slog.Logger,
) *Orchestrator {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	return &Orchestrator{
		source:       source,
		guard:        guard,
		resolver:     resolver,
		synth:        synth,
		store:        store,
		logger:       logger,
		maxParallel:  maxParallel,
		topicTimeout: defaultTopicTimeout,
		runTimeout:   defaultRunTimeout,
		retry:        retry.Default,
	}
}

// Run executes one full pipeline pass. Only one run may be active at a
// time; concurrent triggers get ErrRunActive.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (domain.RunReport, error) {
	if !o.running.CompareAndSwap(false, true) {
		return domain.RunReport{}, ErrRunActive
	}
	defer o.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, o.runTimeout)
	defer cancel()

	runAt := time.Now().Truncate(time.Minute)
	report := domain.RunReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Requested: opts.Count,
	}

	o.info("run started", "run_id", report.ID, "count", opts.Count, "region", opts.Region, "force", opts.Force)

	topics, err := o.source.FetchTopics(ctx, opts.Region, opts.Count*overfetchFactor)
	if err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}
	if len(topics) == 0 {
		report.FinishedAt = time.Now()
		return report, apperr.New(apperr.NormalizationEmpty, "no topics survived normalization")
	}

	keep := topics
	if !opts.Force {
		var skipped []domain.TopicOutcome
		keep, skipped, err = o.guard.Filter(ctx, topics, runAt, opts.Count)
		if err != nil {
			report.FinishedAt = time.Now()
			return report, err
		}
		report.Outcomes = append(report.Outcomes, skipped...)
		report.SkippedDuplicates = len(skipped)
	}
	if len(keep) > opts.Count {
		keep = keep[:opts.Count]
	}

	outcomes := o.processTopics(ctx, keep, runAt, opts.Force)
	report.Outcomes = append(report.Outcomes, outcomes...)

	for _, out := range outcomes {
		switch out.State {
		case domain.StatePersisted:
			report.Produced++
		case domain.StateSkippedDuplicate:
			report.SkippedDuplicates++
		}
	}

	if report.Produced > 0 {
		o.store.TouchSitemap(ctx)
	}

	report.FinishedAt = time.Now()
	o.info("run finished", "run_id", report.ID,
		"produced", report.Produced,
		"skipped", report.SkippedDuplicates,
		"failed", report.FailedCount())
	return report, nil
}

// processTopics fans the surviving topics out to at most maxParallel
// workers and waits for all of them.
func (o *Orchestrator) processTopics(ctx context.Context, topics []domain.Topic, runAt time.Time, force bool) []domain.TopicOutcome {
	outcomes := make([]domain.TopicOutcome, len(topics))
	sem := make(chan struct{}, o.maxParallel)
	var wg sync.WaitGroup

	for i, topic := range topics {
		wg.Add(1)
		go func(i int, topic domain.Topic) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = o.processOne(ctx, topic, runAt, force)
		}(i, topic)
	}
	wg.Wait()
	return outcomes
}

// processOne walks a single topic through image resolution, synthesis and
// the idempotent insert.
func (o *Orchestrator) processOne(ctx context.Context, topic domain.Topic, runAt time.Time, force bool) domain.TopicOutcome {
	ctx, cancel := context.WithTimeout(ctx, o.topicTimeout)
	defer cancel()

	outcome := domain.TopicOutcome{Topic: topic, State: domain.StatePending}

	// Same keyword routing the synthesizer applies, so placeholder assets
	// match the article bucket.
	image := o.resolver.Resolve(ctx, topic, category.ForTopic(topic.Raw))
	outcome.State = domain.StateImageResolved

	article, err := o.synth.Synthesize(ctx, topic, runAt)
	if err != nil {
		outcome.State = domain.StateFailed
		outcome.Kind = string(apperr.SynthesisFailed)
		outcome.Detail = err.Error()
		o.warn("synthesis failed", "topic", topic.Normalized, "err", err)
		return outcome
	}
	article.Image = image
	outcome.State = domain.StateSynthesized
	outcome.Slug = article.Slug

	// A forced republish must survive the daily unique key, so the
	// idempotency key is scoped down to the run minute.
	if force {
		article.SourceKey = domain.ForcedSourceKey(topic.Region, topic.Normalized, runAt)
	}

	duplicate := false
	err = retry.Do(ctx, o.retry, func(ctx context.Context) error {
		insertErr := o.store.Insert(ctx, article)
		if apperr.IsKind(insertErr, apperr.DuplicateKey) {
			duplicate = true
			return nil
		}
		return insertErr
	})
	switch {
	case duplicate:
		outcome.State = domain.StateSkippedDuplicate
		outcome.Kind = string(apperr.DuplicateKey)
		outcome.Detail = "store rejected duplicate key"
	case err != nil:
		outcome.State = domain.StateFailed
		outcome.Kind = string(apperr.StoreError)
		outcome.Detail = err.Error()
		o.warn("persist failed", "topic", topic.Normalized, "slug", article.Slug, "err", err)
	default:
		outcome.State = domain.StatePersisted
		o.info("article persisted", "slug", article.Slug, "category", article.Category, "words", article.WordCount)
	}
	return outcome
}

func (o *Orchestrator) info(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o *Orchestrator) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}
