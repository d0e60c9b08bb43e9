package sweep

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fugrusha/booking/internal/clock"
)

// Expirer drives overdue PENDING bookings to EXPIRED.
type Expirer interface {
	SweepExpire(ctx context.Context, now time.Time) (int, error)
}

// Rebuilder recomputes the availability counter from the durable store.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

const (
	defaultInterval = 5 * time.Minute
	defaultBudget   = 4 * time.Minute
)

// Sweeper periodically expires overdue bookings and then rebuilds the
// availability counter. The rebuild runs even when nothing expired, and
// even when the expire step failed: it is the drift-correction backstop,
// not a reaction to the sweep finding work.
type Sweeper struct {
	expirer   Expirer
	rebuilder Rebuilder
	clock     clock.Clock
	log       *zap.Logger
	interval  time.Duration
	budget    time.Duration
	running   atomic.Bool
}

type Option func(*Sweeper)

func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithBudget caps how long one pass may run before its context expires.
func WithBudget(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.budget = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Sweeper) {
		if log != nil {
			s.log = log
		}
	}
}

func New(expirer Expirer, rebuilder Rebuilder, clk clock.Clock, opts ...Option) *Sweeper {
	s := &Sweeper{
		expirer:   expirer,
		rebuilder: rebuilder,
		clock:     clk,
		log:       zap.NewNop(),
		interval:  defaultInterval,
		budget:    defaultBudget,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps on the configured cadence until ctx is cancelled. The first
// pass runs immediately.
func (s *Sweeper) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep pass. At most one pass runs at a time:
// if a previous pass is still in flight the call is skipped and logged,
// never queued.
func (s *Sweeper) RunOnce(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("previous sweep still running, skipping this pass")
		return false
	}
	defer s.running.Store(false)

	runCtx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	started := time.Now()
	now := s.clock.Now()

	expired, err := s.expirer.SweepExpire(runCtx, now)
	if err != nil {
		s.log.Error("sweep expire failed", zap.Error(err))
	}

	if err := s.rebuilder.Rebuild(runCtx); err != nil {
		s.log.Error("counter rebuild failed", zap.Error(err))
	}

	s.log.Info("sweep pass finished",
		zap.Int("expired", expired),
		zap.Duration("took", time.Since(started)))
	return true
}
