package errors

import (
	"errors"
	"fmt"
)

var (
	// Lock errors
	ErrDuplicateTransaction = errors.New("transaction already being processed")
	ErrConcurrentResource   = errors.New("resource transaction in progress")

	// Gateway errors
	ErrTokenIssuance      = errors.New("failed to obtain gateway token")
	ErrGatewayTransport   = errors.New("gateway request failed")
	ErrUnsupportedSignType = errors.New("unsupported sign type")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// GatewayError is returned when the gateway answered over HTTP but reported a
// non-success state for a reason other than token expiry. The raw decoded
// payload is carried through to the caller, never swallowed.
type GatewayError struct {
	Action  string
	State   int
	Payload map[string]any
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned state %d for action %s", e.State, e.Action)
}

// NewGatewayError creates a new GatewayError.
func NewGatewayError(action string, state int, payload map[string]any) *GatewayError {
	return &GatewayError{Action: action, State: state, Payload: payload}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
