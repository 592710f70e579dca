package service

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/idrissabarry/vendgate/internal/domain/lock"
	"github.com/idrissabarry/vendgate/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// Guard wraps money-moving calls with a pair of short-lived mutual-exclusion
// locks: one on the transaction id and one on (resource, amount, operation).
// The gateway exposes no idempotency key, so these locks are the only
// defense against duplicate submission from retried requests or
// double-clicks. Both locks are released exactly once on every exit path;
// the TTL covers crash-without-release.
type Guard struct {
	store  lock.Store
	ttl    time.Duration
	metrics *observability.Metrics
	logger zerolog.Logger
}

// NewGuard creates a Guard with the given lock TTL.
func NewGuard(store lock.Store, ttl time.Duration, metrics *observability.Metrics, logger zerolog.Logger) *Guard {
	return &Guard{
		store:   store,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.With().Str("component", "transaction_guard").Logger(),
	}
}

// Run acquires the transaction lock, then the resource lock, runs fn, and
// releases both. Contention on the transaction id means the same transaction
// is already being processed (or very recently was); contention on the
// resource means the same meter or bill is mid-transaction at the same
// amount.
func (g *Guard) Run(ctx context.Context, transactionID, resourceID, amount, operation string, fn func(ctx context.Context) error) error {
	txnKey := "txn_" + transactionID
	txnLock, ok, err := g.store.TryAcquire(ctx, txnKey, g.ttl)
	if err != nil {
		return fmt.Errorf("acquire transaction lock: %w", err)
	}
	if !ok {
		g.metrics.LockContentionsTotal.WithLabelValues("transaction").Inc()
		return domainErrors.ErrDuplicateTransaction
	}
	g.metrics.LockAcquisitionsTotal.WithLabelValues("transaction").Inc()
	defer g.release(ctx, txnLock, txnKey)

	resourceKey := fmt.Sprintf("resource_%s_%s_%s", resourceID, amount, operation)
	resourceLock, ok, err := g.store.TryAcquire(ctx, resourceKey, g.ttl)
	if err != nil {
		return fmt.Errorf("acquire resource lock: %w", err)
	}
	if !ok {
		g.metrics.LockContentionsTotal.WithLabelValues("resource").Inc()
		return domainErrors.ErrConcurrentResource
	}
	g.metrics.LockAcquisitionsTotal.WithLabelValues("resource").Inc()
	defer g.release(ctx, resourceLock, resourceKey)

	return fn(ctx)
}

// release runs in defers, so it must work even when ctx is already
// cancelled; a failed release is logged and left to the TTL.
func (g *Guard) release(ctx context.Context, held lock.Unlocker, key string) {
	if err := held.Release(context.WithoutCancel(ctx)); err != nil {
		g.logger.Error().Err(err).Str("key", key).Msg("failed to release lock, TTL will reap it")
	}
}
