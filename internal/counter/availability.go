package counter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fugrusha/booking/internal/clock"
)

// AvailabilityQuerier computes the ground-truth count of units with no
// active booking overlapping [from, to) from the durable store.
type AvailabilityQuerier interface {
	CountAvailableUnits(ctx context.Context, from, to time.Time) (int64, error)
}

const defaultFreshnessWindow = 24 * time.Hour

// AvailabilityCounter is a read-through cache over the counter store.
// Incremental adjustments are best effort; Rebuild overwrites the value
// with the durable-store aggregate and is the correctness backstop.
type AvailabilityCounter struct {
	store  Store
	truth  AvailabilityQuerier
	clock  clock.Clock
	window time.Duration
	log    *zap.Logger
}

type Option func(*AvailabilityCounter)

// WithWindow overrides the freshness window the aggregate answers for.
func WithWindow(d time.Duration) Option {
	return func(c *AvailabilityCounter) {
		if d > 0 {
			c.window = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *AvailabilityCounter) {
		if log != nil {
			c.log = log
		}
	}
}

func New(store Store, truth AvailabilityQuerier, clk clock.Clock, opts ...Option) *AvailabilityCounter {
	c := &AvailabilityCounter{
		store:  store,
		truth:  truth,
		clock:  clk,
		window: defaultFreshnessWindow,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached count, computing and storing it on a cold
// cache. Concurrent cold reads may each recompute; the write is an
// idempotent overwrite of the same ground truth, not an addition.
func (c *AvailabilityCounter) Get(ctx context.Context) (int64, error) {
	value, ok, err := c.store.Get(ctx)
	if err != nil {
		return 0, err
	}
	if ok {
		return value, nil
	}

	count, err := c.count(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.store.Set(ctx, count); err != nil {
		return 0, err
	}
	return count, nil
}

// Increment adjusts the counter by +1 after a unit is freed.
func (c *AvailabilityCounter) Increment(ctx context.Context) error {
	return c.adjust(ctx, 1)
}

// Decrement adjusts the counter by -1 after a unit is reserved.
func (c *AvailabilityCounter) Decrement(ctx context.Context) error {
	return c.adjust(ctx, -1)
}

func (c *AvailabilityCounter) adjust(ctx context.Context, delta int64) error {
	// Populate first so the adjustment lands on a real value rather
	// than turning a missing key into ±1.
	if _, err := c.Get(ctx); err != nil {
		return err
	}
	_, err := c.store.Add(ctx, delta)
	return err
}

// Rebuild recomputes the count from the durable store and overwrites the
// cached value unconditionally. Any drift accumulated by incremental
// adjustments is healed here.
func (c *AvailabilityCounter) Rebuild(ctx context.Context) error {
	count, err := c.count(ctx)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, count); err != nil {
		return err
	}
	c.log.Info("availability counter rebuilt", zap.Int64("available_units", count))
	return nil
}

func (c *AvailabilityCounter) count(ctx context.Context) (int64, error) {
	from := c.clock.Now()
	return c.truth.CountAvailableUnits(ctx, from, from.Add(c.window))
}
