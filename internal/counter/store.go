package counter

import "context"

// Store is the fast key-value store holding the available-units integer.
// It is a performance hint, never the source of truth.
//
// Add must be atomic for the key: implementations without a native
// atomic increment serialize read-modify-write themselves.
type Store interface {
	// Get returns the stored value and whether the key is present.
	Get(ctx context.Context) (int64, bool, error)
	// Set overwrites the stored value unconditionally.
	Set(ctx context.Context, value int64) error
	// Add adjusts the stored value by delta and returns the result.
	Add(ctx context.Context, delta int64) (int64, error)
}
