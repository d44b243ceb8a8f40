// Package jobs runs background maintenance over the form store.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Repairer removes answers that point at questions no longer on their form.
type Repairer interface {
	RepairAll(ctx context.Context) (int64, error)
}

// Sweeper periodically calls Repairer.RepairAll. Edits prune answers in the
// same transaction as the form update, so a sweep normally finds nothing; it
// exists for rows written before that guarantee or by other tools.
type Sweeper struct {
	repairer Repairer
	interval time.Duration
	logger   *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSweeper(repairer Repairer, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{repairer: repairer, interval: interval, logger: logger, stop: make(chan struct{})}
}

// Start launches the sweep loop. The first sweep runs immediately.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop signals the loop to exit and waits for it. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// RunOnce performs a single sweep and returns the number of answers removed.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	removed, err := s.repairer.RepairAll(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "err", err, "removed", removed)
		return removed, err
	}
	s.logger.Debug("sweep finished", "removed", removed, "duration", time.Since(start))
	return removed, nil
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		_, _ = s.RunOnce(ctx)
		select {
		case <-s.stop:
			s.logger.Info("sweeper stopping")
			return
		case <-ctx.Done():
			s.logger.Info("context canceled, sweeper exiting")
			return
		case <-ticker.C:
		}
	}
}
