package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
)

func TestWriteError_Mappings(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domainErrors.NewValidationError("amount", "required"), http.StatusBadRequest, "validation_error"},
		{"invalid amount", domainErrors.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{"duplicate transaction", domainErrors.ErrDuplicateTransaction, http.StatusConflict, "duplicate_transaction"},
		{"concurrent resource", domainErrors.ErrConcurrentResource, http.StatusConflict, "resource_busy"},
		{"token issuance", domainErrors.ErrTokenIssuance, http.StatusBadGateway, "token_unavailable"},
		{"transport", domainErrors.ErrGatewayTransport, http.StatusBadGateway, "gateway_unavailable"},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestWriteError_UnknownErrorNotLeaked(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.New("pg: connection refused to 10.0.0.5"))

	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestWriteGatewayResult_BusinessErrorPayloadPassThrough(t *testing.T) {
	payload := map[string]any{"state": -10002, "err_msg": "insufficient balance"}
	w := httptest.NewRecorder()
	writeGatewayResult(w, nil, domainErrors.NewGatewayError("sale", -10002, payload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient balance")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "ABCDEF...", maskToken("ABCDEF0123456789"))
	assert.Equal(t, "...", maskToken("short"))
	assert.Equal(t, "...", maskToken(""))
}
