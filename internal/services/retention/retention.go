package retention

import (
	"context"
	"sync"
	"time"

	"github.com/killallgit/rgain-analyzer/pkg/logging"
)

// Pruner deletes history older than a cutoff
type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service periodically removes analysis records older than maxAge
type Service struct {
	pruner   Pruner
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new retention service
func NewService(pruner Pruner, maxAge, interval time.Duration) *Service {
	return &Service{
		pruner:   pruner,
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
	}
}

// Start prunes once and then on every interval until ctx ends or Stop is called
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.Prune(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Prune(ctx)
			case <-ctx.Done():
				logging.Infof("Retention service stopped")
				return
			}
		}
	}()

	logging.Infof("Retention service started (interval: %v, max age: %v)", s.interval, s.maxAge)
}

// Stop stops the retention service and waits for a running prune to finish
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Prune removes records older than maxAge and returns how many were removed
func (s *Service) Prune(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.maxAge)

	removed, err := s.pruner.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logging.Errorf("Failed to prune analysis history: %v", err)
		return 0
	}
	if removed > 0 {
		logging.Infof("Pruned %d analyses older than %s", removed, cutoff.Format(time.RFC3339))
	}
	return removed
}
