package lock

import (
	"context"
	"time"
)

// Unlocker releases a held lock. Release is idempotent.
type Unlocker interface {
	Release(ctx context.Context) error
}

// Store provides atomic create-if-absent locks with expiry. A plain
// read-then-write store cannot implement this contract; acquisition must be
// a single atomic operation.
type Store interface {
	// TryAcquire returns the held lock and true iff the key was newly
	// created; (nil, false) means it is already held elsewhere.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (Unlocker, bool, error)
}
