package accrual

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/towerline/towerline/internal/game/hero"
)

// HeroStore is the persistence surface the scheduler needs.
type HeroStore interface {
	// FindFarming returns all heroes currently in a farming status.
	FindFarming(ctx context.Context) ([]*hero.Hero, error)
	// Save persists all mutable hero columns.
	Save(ctx context.Context, h *hero.Hero) error
}

// Scheduler runs the recurring accrual tick over all farming heroes.
//
// Invariant: at most one tick is in flight at any time; a tick that fires
// while the previous one is still running is skipped, never queued, so no
// hero's elapsed-time window is accounted twice.
type Scheduler struct {
	store         HeroStore
	logger        *zap.Logger
	interval      time.Duration
	maxConcurrent int

	clock   func() time.Time
	ticking atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the wall-clock source. Tests use this to control
// elapsed time.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) { s.clock = clock }
}

// NewScheduler creates a Scheduler ticking every interval, updating at most
// maxConcurrent heroes in parallel per tick.
//
// Precondition: store and logger must be non-nil; interval must be > 0;
// maxConcurrent must be >= 1.
func NewScheduler(store HeroStore, logger *zap.Logger, interval time.Duration, maxConcurrent int, opts ...Option) *Scheduler {
	if interval <= 0 {
		panic("accrual.NewScheduler: interval must be > 0")
	}
	if maxConcurrent < 1 {
		panic("accrual.NewScheduler: maxConcurrent must be >= 1")
	}
	s := &Scheduler{
		store:         store,
		logger:        logger,
		interval:      interval,
		maxConcurrent: maxConcurrent,
		clock:         time.Now,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the tick loop until Stop is called. It blocks, satisfying the
// server.Service contract.
//
// Postcondition: returns nil after Stop; the final in-flight tick has
// completed by then.
func (s *Scheduler) Start() error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneCh)

	s.logger.Info("accrual scheduler started",
		zap.Duration("interval", s.interval),
		zap.Int("max_concurrent", s.maxConcurrent),
	)

	for {
		select {
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.Tick(context.Background())
		}
	}
}

// Stop signals the loop to exit and waits for the in-flight tick to finish.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.logger.Info("accrual scheduler stopped")
}

// Tick advances every farming hero once. A tick that arrives while another
// is still running is skipped. One hero's failure never aborts the batch:
// the error is logged and that hero's LastUpdate stays put, so the missed
// span folds into its next successful tick.
func (s *Scheduler) Tick(ctx context.Context) {
	if !s.ticking.CompareAndSwap(false, true) {
		s.logger.Warn("accrual tick still running, skipping overlapping tick")
		return
	}
	defer s.ticking.Store(false)

	start := s.clock()

	heroes, err := s.store.FindFarming(ctx)
	if err != nil {
		s.logger.Error("listing farming heroes", zap.Error(err))
		return
	}
	if len(heroes) == 0 {
		return
	}

	var updated, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for _, h := range heroes {
		h := h
		g.Go(func() error {
			res := Advance(h, start)
			if !res.Changed {
				return nil
			}
			if err := s.store.Save(gctx, h); err != nil {
				failed.Add(1)
				s.logger.Error("saving hero after accrual",
					zap.Int64("hero_id", h.ID),
					zap.Error(err),
				)
				return nil
			}
			updated.Add(1)
			if res.EnteredFountain {
				s.logger.Info("hero drained out, retreating to fountain",
					zap.Int64("hero_id", h.ID),
					zap.Float64("current_life", h.CurrentLife),
					zap.Float64("current_mana", h.CurrentMana),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Debug("accrual tick complete",
		zap.Int("heroes", len(heroes)),
		zap.Int64("updated", updated.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
