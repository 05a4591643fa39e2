package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radarbr/internal/config"
	"radarbr/internal/domain"
	"radarbr/internal/pipeline"
)

type recordingRunner struct {
	counts []int
	err    error
}

func (r *recordingRunner) Run(_ context.Context, opts pipeline.RunOptions) (domain.RunReport, error) {
	r.counts = append(r.counts, opts.Count)
	return domain.RunReport{Produced: opts.Count}, r.err
}

func schedCfg(t *testing.T, hours []int, fallback time.Duration) config.SchedulerConfig {
	t.Helper()
	return config.SchedulerConfig{
		FixedHours:       hours,
		FallbackInterval: fallback,
		Timezone:         "America/Sao_Paulo",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func TestNext(t *testing.T) {
	loc := saoPaulo(t)
	s := New(nil, schedCfg(t, []int{8, 12, 15, 18, 20}, 0), "BR", 5, nil)

	t.Run("next fixed hour today", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 9, 30, 0, 0, loc)
		got := s.Next(now)
		assert.Equal(t, time.Date(2026, 3, 14, 12, 0, 0, 0, loc), got)
	})

	t.Run("wraps to tomorrow after last hour", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 21, 0, 0, 0, loc)
		got := s.Next(now)
		assert.Equal(t, time.Date(2026, 3, 15, 8, 0, 0, 0, loc), got)
	})

	t.Run("fallback wins when sooner", func(t *testing.T) {
		withFallback := New(nil, schedCfg(t, []int{8, 20}, 2*time.Hour), "BR", 5, nil)
		now := time.Date(2026, 3, 14, 9, 0, 0, 0, loc)
		got := withFallback.Next(now)
		assert.Equal(t, now.Add(2*time.Hour), got)
	})

	t.Run("fixed hour wins when sooner than fallback", func(t *testing.T) {
		withFallback := New(nil, schedCfg(t, []int{8, 12}, 6*time.Hour), "BR", 5, nil)
		now := time.Date(2026, 3, 14, 11, 0, 0, 0, loc)
		got := withFallback.Next(now)
		assert.Equal(t, time.Date(2026, 3, 14, 12, 0, 0, 0, loc), got)
	})
}

func TestCountForTime(t *testing.T) {
	loc := saoPaulo(t)

	cases := []struct {
		name string
		at   time.Time
		want int
	}{
		{"weekday morning", time.Date(2026, 3, 16, 9, 0, 0, 0, loc), 3},
		{"weekday afternoon", time.Date(2026, 3, 16, 14, 0, 0, 0, loc), 4},
		{"weekday evening peak", time.Date(2026, 3, 16, 19, 0, 0, 0, loc), 6},
		{"weekday overnight", time.Date(2026, 3, 16, 2, 0, 0, 0, loc), 2},
		{"saturday morning gets one extra", time.Date(2026, 3, 14, 9, 0, 0, 0, loc), 4},
		{"sunday evening gets one extra", time.Date(2026, 3, 15, 19, 0, 0, 0, loc), 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CountForTime(tc.at))
		})
	}
}

func TestFire(t *testing.T) {
	loc := saoPaulo(t)
	logger := discardLogger()

	t.Run("fixed count used as-is", func(t *testing.T) {
		runner := &recordingRunner{}
		s := New(runner, schedCfg(t, []int{8}, 0), "BR", 5, logger)
		s.fire(context.Background(), time.Date(2026, 3, 16, 9, 0, 0, 0, loc))
		assert.Equal(t, []int{5}, runner.counts)
	})

	t.Run("auto profile sizes by time of day", func(t *testing.T) {
		runner := &recordingRunner{}
		s := New(runner, schedCfg(t, []int{8}, 0), "BR", 0, logger)
		s.fire(context.Background(), time.Date(2026, 3, 16, 19, 0, 0, 0, loc))
		assert.Equal(t, []int{6}, runner.counts)
	})

	t.Run("active run is dropped quietly", func(t *testing.T) {
		runner := &recordingRunner{err: pipeline.ErrRunActive}
		s := New(runner, schedCfg(t, []int{8}, 0), "BR", 3, logger)
		s.fire(context.Background(), time.Now())
		assert.Len(t, runner.counts, 1, "trigger attempted exactly once, never queued")
	})
}
