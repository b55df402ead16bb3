package core

// scheduler.go runs background maintenance for stored imports.
//
// The retention job deletes imports older than the configured age. It runs once on
// start and then on every tick until the context ends. A failed run is logged and
// retried on the next tick.

import (
	"context"
	"time"
)

// RetentionConfig controls the retention job.
type RetentionConfig struct {
	MaxAge        time.Duration // imports older than this are deleted; 0 disables the job
	CheckInterval time.Duration // how often to run (default: 1h)
}

// DefaultRetentionInterval is used when CheckInterval is zero.
const DefaultRetentionInterval = time.Hour

// StartRetentionScheduler blocks, deleting expired imports until ctx is cancelled.
// It returns immediately when MaxAge is zero.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	if cfg.MaxAge <= 0 {
		return
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultRetentionInterval
	}

	s.log.Info("retention scheduler started",
		"max_age", cfg.MaxAge.String(),
		"check_interval", cfg.CheckInterval.String(),
	)

	s.runRetentionJob(ctx, cfg.MaxAge)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg.MaxAge)
		}
	}
}

// runRetentionJob performs one sweep and returns how many imports it removed.
func (s *Service) runRetentionJob(ctx context.Context, maxAge time.Duration) int64 {
	start := time.Now()
	cutoff := s.now().Add(-maxAge)

	deleted, err := s.store.DeleteImportsBefore(ctx, cutoff)
	if err != nil {
		s.log.Error("retention job failed", "cutoff", cutoff, "error", err)
		return 0
	}

	s.log.Info("retention job completed",
		"imports_deleted", deleted,
		"cutoff", cutoff,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return deleted
}
