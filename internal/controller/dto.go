package controller

import "time"

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (float64 for money, validation tags).
// Controllers convert these to service layer DTOs before calling business
// logic; amounts are reformatted to the gateway's two-decimal strings there.

// SellPowerRequest holds the input for vending prepayment power.
type SellPowerRequest struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	MeterNumber   string  `json:"meter_number" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Phone         string  `json:"phone,omitempty"`
	Channel       string  `json:"channel,omitempty"`
	VerifyCode    string  `json:"verify_code,omitempty"`
}

// PayArrearRequest holds the input for settling a prepayment arrear.
type PayArrearRequest struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	MeterNumber   string  `json:"meter_number" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Phone         string  `json:"phone,omitempty"`
	Channel       string  `json:"channel,omitempty"`
	VerifyCode    string  `json:"verify_code,omitempty"`
}

// PayBillRequest holds the input for settling a postpayment bill.
type PayBillRequest struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	BillCode      string  `json:"bill_code" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Phone         string  `json:"phone,omitempty"`
	Channel       string  `json:"channel,omitempty"`
	VerifyCode    string  `json:"verify_code,omitempty"`
}

// TransferRequest holds the input for moving balance to a sub-agency or
// point of sale.
type TransferRequest struct {
	TransactionID  string  `json:"transaction_id" validate:"required"`
	RecipientValue string  `json:"recipient_value" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
}

// ChangePasswordRequest holds the input for rotating the payment password.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// --- Response DTOs ---

// TokenStatusResponse reports the current gateway session token. The token
// value itself is credential material and is never returned whole.
type TokenStatusResponse struct {
	Token     string    `json:"token"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsActive  bool      `json:"is_active"`
	Expired   bool      `json:"expired"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// maskToken keeps just enough of the token to correlate with gateway-side
// support logs.
func maskToken(token string) string {
	if len(token) <= 6 {
		return "..."
	}
	return token[:6] + "..."
}
