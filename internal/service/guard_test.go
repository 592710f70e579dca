package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/idrissabarry/vendgate/internal/infrastructure/observability"
	"github.com/idrissabarry/vendgate/internal/service"
	"github.com/idrissabarry/vendgate/internal/testutil"
)

func newTestGuard(store *testutil.MockLockStore) *service.Guard {
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	return service.NewGuard(store, 30*time.Second, m, zerolog.Nop())
}

func TestGuard_Run_AcquiresAndReleasesBothLocks(t *testing.T) {
	store := testutil.NewMockLockStore()
	g := newTestGuard(store)

	ran := false
	err := g.Run(context.Background(), "tx-1", "14100102030", "50.00", "sell_power", func(ctx context.Context) error {
		ran = true
		assert.True(t, store.IsHeld("txn_tx-1"))
		assert.True(t, store.IsHeld("resource_14100102030_50.00_sell_power"))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"txn_tx-1", "resource_14100102030_50.00_sell_power"}, store.Acquired)
	assert.False(t, store.IsHeld("txn_tx-1"))
	assert.False(t, store.IsHeld("resource_14100102030_50.00_sell_power"))
}

func TestGuard_Run_DuplicateTransaction(t *testing.T) {
	store := testutil.NewMockLockStore()
	store.Hold("txn_tx-1")
	g := newTestGuard(store)

	ran := false
	err := g.Run(context.Background(), "tx-1", "14100102030", "50.00", "sell_power", func(ctx context.Context) error {
		ran = true
		return nil
	})

	require.ErrorIs(t, err, domainErrors.ErrDuplicateTransaction)
	assert.False(t, ran, "fn must not run when the transaction lock is contended")
	assert.Empty(t, store.Released)
}

func TestGuard_Run_ConcurrentResourceReleasesTransactionLock(t *testing.T) {
	store := testutil.NewMockLockStore()
	store.Hold("resource_14100102030_50.00_sell_power")
	g := newTestGuard(store)

	ran := false
	err := g.Run(context.Background(), "tx-1", "14100102030", "50.00", "sell_power", func(ctx context.Context) error {
		ran = true
		return nil
	})

	require.ErrorIs(t, err, domainErrors.ErrConcurrentResource)
	assert.False(t, ran)
	// A duplicate-looking retry of the same transaction must not be blocked
	// forever by an orphaned transaction lock.
	assert.False(t, store.IsHeld("txn_tx-1"), "transaction lock must be released on resource contention")
}

func TestGuard_Run_ReleasesOnFnError(t *testing.T) {
	store := testutil.NewMockLockStore()
	g := newTestGuard(store)

	wantErr := errors.New("gateway exploded")
	err := g.Run(context.Background(), "tx-1", "bill-9", "12.50", "pay_bill", func(ctx context.Context) error {
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.False(t, store.IsHeld("txn_tx-1"))
	assert.False(t, store.IsHeld("resource_bill-9_12.50_pay_bill"))
}

func TestGuard_Run_ReleasesOnPanic(t *testing.T) {
	store := testutil.NewMockLockStore()
	g := newTestGuard(store)

	require.Panics(t, func() {
		_ = g.Run(context.Background(), "tx-1", "m-1", "5.00", "transfer", func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.False(t, store.IsHeld("txn_tx-1"))
	assert.False(t, store.IsHeld("resource_m-1_5.00_transfer"))
}

func TestGuard_Run_ReleasesOnCancelledContext(t *testing.T) {
	store := testutil.NewMockLockStore()
	g := newTestGuard(store)

	ctx, cancel := context.WithCancel(context.Background())
	err := g.Run(ctx, "tx-1", "m-1", "5.00", "sell_power", func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, store.IsHeld("txn_tx-1"), "release must survive context cancellation")
	assert.False(t, store.IsHeld("resource_m-1_5.00_sell_power"))
}

func TestGuard_Run_StoreError(t *testing.T) {
	store := testutil.NewMockLockStore()
	store.AcquireErr = errors.New("redis down")
	g := newTestGuard(store)

	err := g.Run(context.Background(), "tx-1", "m-1", "5.00", "sell_power", func(ctx context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainErrors.ErrDuplicateTransaction)
}
