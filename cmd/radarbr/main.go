package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"radarbr/internal/app"
	"radarbr/internal/apperr"
	"radarbr/internal/config"
	"radarbr/internal/domain"
	"radarbr/internal/logging"
)

const usage = `usage: radarbr <command> [flags]

commands:
  run       execute one ingestion run
  reset     delete generated articles, then republish unless --no-publish
  report    summarize recent production
  schedule  run the trigger loop until interrupted
`

// Exit codes: 0 success, 1 run produced nothing or failed, 2 bad
// configuration or usage.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return 2
	}
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "run":
		return cmdRun(ctx, cfg, logger, args[1:])
	case "reset":
		return cmdReset(ctx, cfg, logger, args[1:])
	case "report":
		return cmdReport(ctx, cfg, logger, args[1:])
	case "schedule":
		return cmdSchedule(ctx, cfg, logger, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}
}

func cmdRun(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	count := fs.Int("count", 0, "topics to publish this run (default from config)")
	region := fs.String("region", "", "trend region (default from config)")
	force := fs.Bool("force", false, "bypass the duplicate guard")
	profile := fs.String("profile", "", "text strategy override: template or generative")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	application, err := app.New(ctx, cfg, *profile, logger)
	if err != nil {
		return exitFor(err, logger)
	}
	defer application.Close()

	report, err := application.RunOnce(ctx, *count, *region, *force)
	if err != nil {
		return exitFor(err, logger)
	}

	fmt.Printf("run %s: produced %d, skipped %d, failed %d\n",
		report.ID, report.Produced, report.SkippedDuplicates, report.FailedCount())
	return publishExit(&report)
}

func cmdReset(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	scope := fs.String("scope", "trend", "what to delete: trend or all")
	withMedia := fs.Bool("with_media", false, "also delete stored media files")
	noPublish := fs.Bool("no-publish", false, "skip the follow-up publish run")
	count := fs.Int("count", 0, "topics to publish after the reset")
	force := fs.Bool("force", false, "bypass the duplicate guard on republish")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	application, err := app.New(ctx, cfg, "", logger)
	if err != nil {
		return exitFor(err, logger)
	}
	defer application.Close()

	deleted, report, err := application.Reset(ctx, *scope, *withMedia, *noPublish, *count, *force)
	if err != nil {
		return exitFor(err, logger)
	}

	fmt.Printf("deleted %d article(s)\n", deleted)
	if report != nil {
		fmt.Printf("republished %d article(s)\n", report.Produced)
	}
	return publishExit(report)
}

func cmdReport(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	period := fs.String("period", "24h", "window to summarize: 1h, 6h, 24h or 7d")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	window, err := parsePeriod(*period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	application, err := app.New(ctx, cfg, "", logger)
	if err != nil {
		return exitFor(err, logger)
	}
	defer application.Close()

	summary, err := application.Report(ctx, window)
	if err != nil {
		return exitFor(err, logger)
	}

	fmt.Printf("articles since %s: %d\n", summary.Since.Format(time.RFC3339), summary.Total)
	fmt.Println("by category:")
	for cat, n := range summary.ByCategory {
		fmt.Printf("  %-14s %d\n", cat, n)
	}
	fmt.Println("by source:")
	for src, n := range summary.BySource {
		fmt.Printf("  %-14s %d\n", src, n)
	}
	fmt.Println("by hour:")
	for hour := 0; hour < 24; hour++ {
		if n, ok := summary.ByHour[hour]; ok {
			fmt.Printf("  %02dh %d\n", hour, n)
		}
	}
	fmt.Println("by weekday:")
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if n, ok := summary.ByWeekday[wd]; ok {
			fmt.Printf("  %-14s %d\n", wd, n)
		}
	}
	return 0
}

func cmdSchedule(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("schedule", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	application, err := app.New(ctx, cfg, "", logger)
	if err != nil {
		return exitFor(err, logger)
	}
	defer application.Close()

	if err := application.Schedule(ctx); err != nil && ctx.Err() == nil {
		logger.Error("scheduler stopped", "err", err)
		return 1
	}
	return 0
}

// publishExit maps a publish run to the process exit code: a run that was
// requested but produced nothing exits 1. A nil report means no publish
// was requested.
func publishExit(report *domain.RunReport) int {
	if report != nil && !report.Succeeded() {
		return 1
	}
	return 0
}

func parsePeriod(s string) (time.Duration, error) {
	switch s {
	case "1h":
		return time.Hour, nil
	case "6h":
		return 6 * time.Hour, nil
	case "24h":
		return 24 * time.Hour, nil
	case "7d":
		return 7 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid period %q: use 1h, 6h, 24h or 7d", s)
}

func exitFor(err error, logger *slog.Logger) int {
	logger.Error("command failed", "err", err)
	if apperr.IsKind(err, apperr.ConfigurationError) {
		return 2
	}
	return 1
}
