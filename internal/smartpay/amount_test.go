package smartpay

import (
	"testing"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"integer", 13567, "13567.00"},
		{"int64", int64(250000), "250000.00"},
		{"float with one decimal", 2000.5, "2000.50"},
		{"float already two decimals", 15000.25, "15000.25"},
		{"float extra digits rounds", 3544.444, "3544.44"},
		{"whole float", 15000.0, "15000.00"},
		{"numeric string", "13567", "13567.00"},
		{"decimal string", "2000.5", "2000.50"},
		{"decimal string extra digits", "3544.444", "3544.44"},
		{"string with spaces", " 500 ", "500.00"},
		{"zero", 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatAmount(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"non-numeric string", "abc"},
		{"empty string", ""},
		{"blank string", "   "},
		{"unsupported type", []int{1}},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatAmount(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainErrors.ErrInvalidAmount)
		})
	}
}
