// Package scheduler fires pipeline runs at fixed local hours, with a
// periodic fallback between them. Triggers landing on an active run are
// dropped, never queued.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"radarbr/internal/config"
	"radarbr/internal/domain"
	"radarbr/internal/pipeline"
)

// Runner is the pipeline surface the scheduler drives.
type Runner interface {
	Run(ctx context.Context, opts pipeline.RunOptions) (domain.RunReport, error)
}

type Scheduler struct {
	runner   Runner
	cfg      config.SchedulerConfig
	region   string
	count    int
	autoSize bool
	logger   *slog.Logger
}

// New builds the scheduler. A zero count enables the time-of-day profile.
func New(runner Runner, cfg config.SchedulerConfig, region string, count int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		cfg:      cfg,
		region:   region,
		count:    count,
		autoSize: count <= 0,
		logger:   logger,
	}
}

// Next returns the earliest upcoming trigger after now: the next fixed
// hour today or tomorrow, or the fallback interval when it comes sooner.
func (s *Scheduler) Next(now time.Time) time.Time {
	loc := s.cfg.Location()
	local := now.In(loc)

	hours := append([]int(nil), s.cfg.FixedHours...)
	sort.Ints(hours)

	var fixed time.Time
	for _, h := range hours {
		candidate := time.Date(local.Year(), local.Month(), local.Day(), h, 0, 0, 0, loc)
		if candidate.After(local) {
			fixed = candidate
			break
		}
	}
	if fixed.IsZero() && len(hours) > 0 {
		next := local.AddDate(0, 0, 1)
		fixed = time.Date(next.Year(), next.Month(), next.Day(), hours[0], 0, 0, 0, loc)
	}

	if s.cfg.FallbackInterval > 0 {
		fallback := local.Add(s.cfg.FallbackInterval)
		if fixed.IsZero() || fallback.Before(fixed) {
			return fallback
		}
	}
	return fixed
}

// CountForTime sizes a run by local time of day, one extra on weekends.
func CountForTime(t time.Time) int {
	var count int
	switch hour := t.Hour(); {
	case hour >= 6 && hour < 12:
		count = 3
	case hour >= 12 && hour < 18:
		count = 4
	case hour >= 18 && hour < 22:
		count = 6
	default:
		count = 2
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		count++
	}
	return count
}

// Run loops until ctx is cancelled, sleeping to each trigger and firing
// one pipeline run per trigger.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"fixed_hours", s.cfg.FixedHours,
		"fallback", s.cfg.FallbackInterval.String(),
		"timezone", s.cfg.Timezone)

	for {
		next := s.Next(time.Now())
		s.logger.Info("next trigger", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-time.After(time.Until(next)):
		}

		s.fire(ctx, next)
	}
}

func (s *Scheduler) fire(ctx context.Context, triggeredAt time.Time) {
	count := s.count
	if s.autoSize {
		count = CountForTime(triggeredAt.In(s.cfg.Location()))
	}

	report, err := s.runner.Run(ctx, pipeline.RunOptions{Count: count, Region: s.region})
	switch {
	case errors.Is(err, pipeline.ErrRunActive):
		s.logger.Warn("trigger dropped, run still active", "at", triggeredAt.Format(time.RFC3339))
	case err != nil:
		s.logger.Error("scheduled run failed", "err", err)
	default:
		s.logger.Info("scheduled run finished",
			"produced", report.Produced,
			"skipped", report.SkippedDuplicates,
			"failed", report.FailedCount())
	}
}
