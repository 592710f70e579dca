package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/idrissabarry/vendgate/internal/domain/audit"
	"github.com/idrissabarry/vendgate/internal/domain/lock"
	"github.com/idrissabarry/vendgate/internal/smartpay"
)

// --- Lock Store Mock ---

// MockLockStore is an in-memory implementation of lock.Store with the same
// create-if-absent semantics as the Redis-backed store.
type MockLockStore struct {
	mu         sync.Mutex
	held       map[string]bool
	AcquireErr error

	// Acquired and Released record key order for assertions.
	Acquired []string
	Released []string
}

func NewMockLockStore() *MockLockStore {
	return &MockLockStore{held: make(map[string]bool)}
}

func (m *MockLockStore) TryAcquire(ctx context.Context, key string, ttl time.Duration) (lock.Unlocker, bool, error) {
	if m.AcquireErr != nil {
		return nil, false, m.AcquireErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] {
		return nil, false, nil
	}
	m.held[key] = true
	m.Acquired = append(m.Acquired, key)
	return &mockLock{store: m, key: key}, true, nil
}

// Hold marks a key as already locked by someone else.
func (m *MockLockStore) Hold(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[key] = true
}

// IsHeld reports whether the key is currently locked.
func (m *MockLockStore) IsHeld(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[key]
}

type mockLock struct {
	store    *MockLockStore
	key      string
	released bool
}

func (l *mockLock) Release(ctx context.Context) error {
	if l.released {
		return nil
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	delete(l.store.held, l.key)
	l.store.Released = append(l.store.Released, l.key)
	l.released = true
	return nil
}

// --- Audit Sink Mock ---

// MockAuditSink collects audit records in memory.
type MockAuditSink struct {
	mu      sync.Mutex
	records []*audit.Record

	RecordFunc func(ctx context.Context, rec *audit.Record) error
}

func (m *MockAuditSink) Record(ctx context.Context, rec *audit.Record) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *MockAuditSink) Records() []*audit.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*audit.Record, len(m.records))
	copy(out, m.records)
	return out
}

// --- Gateway Mock ---

// MockGateway is a mock implementation of service.Gateway. Unset func
// fields answer with a plain success response.
type MockGateway struct {
	mu    sync.Mutex
	calls []string

	AccountDetailsFunc           func(ctx context.Context) (smartpay.Response, error)
	ChangePaymentPasswordFunc    func(ctx context.Context, newPassword string) (smartpay.Response, error)
	TransferAmountFunc           func(ctx context.Context, p smartpay.TransferParams) (smartpay.Response, error)
	CustomerDetailsFunc          func(ctx context.Context, meterNumber string) (smartpay.Response, error)
	SellPowerFunc                func(ctx context.Context, p smartpay.SellPowerParams) (smartpay.Response, error)
	SaleDetailsFunc              func(ctx context.Context, code string) (smartpay.Response, error)
	SearchSaleTransactionsFunc   func(ctx context.Context, meterNumber string, count int) (smartpay.Response, error)
	PayArrearFunc                func(ctx context.Context, p smartpay.PayArrearParams) (smartpay.Response, error)
	ArrearDetailsFunc            func(ctx context.Context, code string) (smartpay.Response, error)
	SearchArrearTransactionsFunc func(ctx context.Context, meterNumber string) (smartpay.Response, error)
	CustomerBillsFunc            func(ctx context.Context, ref string) (smartpay.Response, error)
	BillDetailsFunc              func(ctx context.Context, code string) (smartpay.Response, error)
	PayBillFunc                  func(ctx context.Context, p smartpay.PayBillParams) (smartpay.Response, error)
	BillTransactionDetailsFunc   func(ctx context.Context, code string) (smartpay.Response, error)
	SearchBillTransactionsFunc   func(ctx context.Context, ref string) (smartpay.Response, error)
}

func (m *MockGateway) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns the gateway operations invoked, in order.
func (m *MockGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func ok() (smartpay.Response, error) {
	return smartpay.Response{"state": float64(0)}, nil
}

func (m *MockGateway) AccountDetails(ctx context.Context) (smartpay.Response, error) {
	m.record("accountdetail")
	if m.AccountDetailsFunc != nil {
		return m.AccountDetailsFunc(ctx)
	}
	return ok()
}

func (m *MockGateway) ChangePaymentPassword(ctx context.Context, newPassword string) (smartpay.Response, error) {
	m.record("changepwd")
	if m.ChangePaymentPasswordFunc != nil {
		return m.ChangePaymentPasswordFunc(ctx, newPassword)
	}
	return ok()
}

func (m *MockGateway) TransferAmount(ctx context.Context, p smartpay.TransferParams) (smartpay.Response, error) {
	m.record("transfer_amt")
	if m.TransferAmountFunc != nil {
		return m.TransferAmountFunc(ctx, p)
	}
	return ok()
}

func (m *MockGateway) CustomerDetails(ctx context.Context, meterNumber string) (smartpay.Response, error) {
	m.record("get_cst_details")
	if m.CustomerDetailsFunc != nil {
		return m.CustomerDetailsFunc(ctx, meterNumber)
	}
	return ok()
}

func (m *MockGateway) SellPower(ctx context.Context, p smartpay.SellPowerParams) (smartpay.Response, error) {
	m.record("sale")
	if m.SellPowerFunc != nil {
		return m.SellPowerFunc(ctx, p)
	}
	return ok()
}

func (m *MockGateway) SaleDetails(ctx context.Context, code string) (smartpay.Response, error) {
	m.record("sales_trans_details")
	if m.SaleDetailsFunc != nil {
		return m.SaleDetailsFunc(ctx, code)
	}
	return ok()
}

func (m *MockGateway) SearchSaleTransactions(ctx context.Context, meterNumber string, count int) (smartpay.Response, error) {
	m.record("search_sale_trans")
	if m.SearchSaleTransactionsFunc != nil {
		return m.SearchSaleTransactionsFunc(ctx, meterNumber, count)
	}
	return ok()
}

func (m *MockGateway) PayArrear(ctx context.Context, p smartpay.PayArrearParams) (smartpay.Response, error) {
	m.record("payarrear")
	if m.PayArrearFunc != nil {
		return m.PayArrearFunc(ctx, p)
	}
	return ok()
}

func (m *MockGateway) ArrearDetails(ctx context.Context, code string) (smartpay.Response, error) {
	m.record("arrear_trans_details")
	if m.ArrearDetailsFunc != nil {
		return m.ArrearDetailsFunc(ctx, code)
	}
	return ok()
}

func (m *MockGateway) SearchArrearTransactions(ctx context.Context, meterNumber string) (smartpay.Response, error) {
	m.record("search_arear_trans")
	if m.SearchArrearTransactionsFunc != nil {
		return m.SearchArrearTransactionsFunc(ctx, meterNumber)
	}
	return ok()
}

func (m *MockGateway) CustomerBills(ctx context.Context, ref string) (smartpay.Response, error) {
	m.record("get_bills")
	if m.CustomerBillsFunc != nil {
		return m.CustomerBillsFunc(ctx, ref)
	}
	return ok()
}

func (m *MockGateway) BillDetails(ctx context.Context, code string) (smartpay.Response, error) {
	m.record("bill_details")
	if m.BillDetailsFunc != nil {
		return m.BillDetailsFunc(ctx, code)
	}
	return ok()
}

func (m *MockGateway) PayBill(ctx context.Context, p smartpay.PayBillParams) (smartpay.Response, error) {
	m.record("pay_bill")
	if m.PayBillFunc != nil {
		return m.PayBillFunc(ctx, p)
	}
	return ok()
}

func (m *MockGateway) BillTransactionDetails(ctx context.Context, code string) (smartpay.Response, error) {
	m.record("bill_trans_details")
	if m.BillTransactionDetailsFunc != nil {
		return m.BillTransactionDetailsFunc(ctx, code)
	}
	return ok()
}

func (m *MockGateway) SearchBillTransactions(ctx context.Context, ref string) (smartpay.Response, error) {
	m.record("search_bill_trans")
	if m.SearchBillTransactionsFunc != nil {
		return m.SearchBillTransactionsFunc(ctx, ref)
	}
	return ok()
}
