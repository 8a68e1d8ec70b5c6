package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ReindexScheduler rebuilds the page index on a fixed interval, catching
// changes the filesystem watcher cannot see (network mounts, git pulls).
type ReindexScheduler struct {
	scheduler gocron.Scheduler
	target    Reindexer
	interval  time.Duration
	logger    *slog.Logger
}

// NewReindexScheduler creates a scheduler that reindexes every interval.
func NewReindexScheduler(interval time.Duration, target Reindexer, logger *slog.Logger) (*ReindexScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	rs := &ReindexScheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
		logger:    logger,
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(rs.run),
		gocron.WithName("periodic-reindex"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reindex job: %w", err)
	}

	return rs, nil
}

// Start begins the scheduler.
func (rs *ReindexScheduler) Start() {
	rs.logger.Info("Starting reindex scheduler", "interval", rs.interval)
	rs.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (rs *ReindexScheduler) Stop() error {
	rs.logger.Info("Stopping reindex scheduler")
	return rs.scheduler.Shutdown()
}

func (rs *ReindexScheduler) run() {
	if err := rs.target.Reindex(context.Background()); err != nil {
		rs.logger.Error("Scheduled reindex failed", "error", err)
	}
}
