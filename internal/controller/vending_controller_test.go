package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idrissabarry/vendgate/internal/controller"
	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/idrissabarry/vendgate/internal/infrastructure/config"
	"github.com/idrissabarry/vendgate/internal/infrastructure/observability"
	"github.com/idrissabarry/vendgate/internal/service"
	"github.com/idrissabarry/vendgate/internal/smartpay"
	"github.com/idrissabarry/vendgate/internal/testutil"
)

type apiFixture struct {
	router  http.Handler
	gateway *testutil.MockGateway
	store   *testutil.MockLockStore
	sink    *testutil.MockAuditSink
}

func newAPIFixture() *apiFixture {
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	store := testutil.NewMockLockStore()
	guard := service.NewGuard(store, 30*time.Second, m, zerolog.Nop())
	gateway := &testutil.MockGateway{}
	sink := &testutil.MockAuditSink{}
	svc := service.NewVendingService(gateway, testutil.NewMockTokenProvider(), guard, sink, zerolog.Nop())

	router := controller.NewRouter(controller.RouterDeps{
		VendingService: svc,
		Metrics:        m,
		CORSConfig:     config.CORSConfig{AllowedOrigins: []string{"*"}},
	})
	return &apiFixture{router: router, gateway: gateway, store: store, sink: sink}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sellBody() map[string]any {
	return map[string]any{
		"transaction_id": "tx-1",
		"meter_number":   "14100102030",
		"amount":         50.0,
		"phone":          "620000001",
	}
}

func TestSellPower_Success(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, "POST", "/api/v1/sales", sellBody())

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["state"])
	assert.Equal(t, []string{"sale"}, f.gateway.Calls())
	assert.Len(t, f.sink.Records(), 1)
}

func TestSellPower_ValidationError(t *testing.T) {
	f := newAPIFixture()

	body := sellBody()
	delete(body, "meter_number")
	w := f.do(t, "POST", "/api/v1/sales", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decodeBody(t, w)["code"])
	assert.Empty(t, f.gateway.Calls())
}

func TestSellPower_NonPositiveAmountRejected(t *testing.T) {
	f := newAPIFixture()

	body := sellBody()
	body["amount"] = -5.0
	w := f.do(t, "POST", "/api/v1/sales", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.gateway.Calls())
}

func TestSellPower_DuplicateTransaction(t *testing.T) {
	f := newAPIFixture()
	f.store.Hold("txn_tx-1")

	w := f.do(t, "POST", "/api/v1/sales", sellBody())

	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "duplicate_transaction", body["code"])
	assert.Equal(t, "transaction locked, retry later", body["error"])
}

func TestSellPower_GatewayBusinessErrorReturnsRawPayload(t *testing.T) {
	f := newAPIFixture()
	payload := smartpay.Response{"state": float64(-10002), "err_msg": "insufficient balance"}
	f.gateway.SellPowerFunc = func(ctx context.Context, p smartpay.SellPowerParams) (smartpay.Response, error) {
		return payload, domainErrors.NewGatewayError("sale", -10002, payload)
	}

	w := f.do(t, "POST", "/api/v1/sales", sellBody())

	require.Equal(t, http.StatusOK, w.Code, "business rejections ride a 200; state in the payload is the verdict")
	body := decodeBody(t, w)
	assert.Equal(t, float64(-10002), body["state"])
	assert.Equal(t, "insufficient balance", body["err_msg"])
}

func TestSellPower_TransportError(t *testing.T) {
	f := newAPIFixture()
	f.gateway.SellPowerFunc = func(ctx context.Context, p smartpay.SellPowerParams) (smartpay.Response, error) {
		return nil, domainErrors.ErrGatewayTransport
	}

	w := f.do(t, "POST", "/api/v1/sales", sellBody())

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "gateway_unavailable", decodeBody(t, w)["code"])
}

func TestPayBill_Success(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, "POST", "/api/v1/bill-payments", map[string]any{
		"transaction_id": "tx-2",
		"bill_code":      "BILL-42",
		"amount":         100.5,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"pay_bill"}, f.gateway.Calls())
}

func TestTransfer_Success(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, "POST", "/api/v1/transfers", map[string]any{
		"transaction_id":  "tx-3",
		"recipient_value": "POS-7",
		"amount":          200.0,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"transfer_amt"}, f.gateway.Calls())
}

func TestChangePassword_TooShortRejected(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, "POST", "/api/v1/account/password", map[string]any{"new_password": "abc"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.gateway.Calls())
}

func TestTokenStatus_MasksToken(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, "GET", "/api/v1/token", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	tok, ok := body["token"].(string)
	require.True(t, ok)
	assert.Len(t, tok, 9, "six leading characters plus ellipsis")
	assert.Equal(t, "ABCDEF...", tok)
	assert.Equal(t, true, body["is_active"])
	assert.Equal(t, false, body["expired"])
}

func TestInquiryRoutes(t *testing.T) {
	for path, wantCall := range map[string]string{
		"/api/v1/account":                           "accountdetail",
		"/api/v1/customers/14100102030":             "get_cst_details",
		"/api/v1/sales/SC-1":                        "sales_trans_details",
		"/api/v1/customers/14100102030/sales":       "search_sale_trans",
		"/api/v1/arrears/SC-2":                      "arrear_trans_details",
		"/api/v1/customers/14100102030/arrears":     "search_arear_trans",
		"/api/v1/customers/CST-1/bills":             "get_bills",
		"/api/v1/bills/B-1":                         "bill_details",
		"/api/v1/bill-payments/SC-3":                "bill_trans_details",
		"/api/v1/customers/CST-1/bill-payments":     "search_bill_trans",
	} {
		g := newAPIFixture()
		w := g.do(t, "GET", path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, []string{wantCall}, g.gateway.Calls(), path)
	}
}

func TestHealth(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
