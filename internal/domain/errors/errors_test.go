package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Unwrap(t *testing.T) {
	err := NewValidationError("amount", "must be positive")

	assert.Contains(t, err.Error(), "amount")
	assert.True(t, errors.Is(err, ErrValidationFailed))

	var ve *ValidationError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &ve))
	assert.Equal(t, "amount", ve.Field)
}

func TestGatewayError_CarriesPayload(t *testing.T) {
	payload := map[string]any{"state": float64(-10021), "err_msg": "insufficient balance"}
	err := NewGatewayError("sale", -10021, payload)

	assert.Contains(t, err.Error(), "sale")
	assert.Contains(t, err.Error(), "-10021")

	var ge *GatewayError
	assert.True(t, errors.As(fmt.Errorf("sell power: %w", err), &ge))
	assert.Equal(t, payload, ge.Payload)
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrDuplicateTransaction, ErrConcurrentResource))
	assert.False(t, errors.Is(ErrTokenIssuance, ErrGatewayTransport))
}
