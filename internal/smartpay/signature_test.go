package smartpay

import (
	"regexp"
	"testing"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	upperMD5Hex  = regexp.MustCompile(`^[0-9A-F]{32}$`)
	upperSHA2Hex = regexp.MustCompile(`^[0-9A-F]{64}$`)
)

func testParams() map[string]any {
	return map[string]any{
		"trans_id": "7586689056677899",
		"rst_code": "46000587157",
		"amt":      "15000.00",
		"channel":  "04",
		"phone":    "623040031",
	}
}

func TestSigner_Sign_Deterministic(t *testing.T) {
	s := NewSigner("agent01", "secret", SignTypeMD5)
	seed := "0F6ABDE3C5D9E0B1A2C3D4E5F6A7B8C9"

	first, err := s.Sign(testParams(), seed, "tok123")
	require.NoError(t, err)
	second, err := s.Sign(testParams(), seed, "tok123")
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield identical signatures")
	assert.Regexp(t, upperMD5Hex, first)
}

func TestSigner_Sign_SensitiveToInputs(t *testing.T) {
	s := NewSigner("agent01", "secret", SignTypeMD5)
	seed := "0F6ABDE3C5D9E0B1A2C3D4E5F6A7B8C9"

	base, err := s.Sign(testParams(), seed, "tok123")
	require.NoError(t, err)

	differentSeed, err := s.Sign(testParams(), "AAAABDE3C5D9E0B1A2C3D4E5F6A7B8C9", "tok123")
	require.NoError(t, err)
	assert.NotEqual(t, base, differentSeed)

	differentToken, err := s.Sign(testParams(), seed, "tok456")
	require.NoError(t, err)
	assert.NotEqual(t, base, differentToken)

	params := testParams()
	params["amt"] = "15000.01"
	differentParams, err := s.Sign(params, seed, "tok123")
	require.NoError(t, err)
	assert.NotEqual(t, base, differentParams)
}

func TestSigner_Sign_DropsEmptyParams(t *testing.T) {
	s := NewSigner("agent01", "secret", SignTypeMD5)
	seed := "0F6ABDE3C5D9E0B1A2C3D4E5F6A7B8C9"

	base, err := s.Sign(testParams(), seed, "")
	require.NoError(t, err)

	withEmpties := testParams()
	withEmpties["verify_code"] = ""
	withEmpties["extra"] = nil
	got, err := s.Sign(withEmpties, seed, "")
	require.NoError(t, err)

	assert.Equal(t, base, got, "empty and nil params must not affect the signature")
}

func TestSigner_Sign_EmptyTokenDiffersFromToken(t *testing.T) {
	s := NewSigner("agent01", "secret", SignTypeMD5)
	seed := "0F6ABDE3C5D9E0B1A2C3D4E5F6A7B8C9"

	noToken, err := s.Sign(testParams(), seed, "")
	require.NoError(t, err)
	withToken, err := s.Sign(testParams(), seed, "tok123")
	require.NoError(t, err)

	assert.NotEqual(t, noToken, withToken)
}

func TestSigner_Sign_HMACMode(t *testing.T) {
	s := NewSigner("agent01", "secret", SignTypeHMACSHA256)
	seed := "0F6ABDE3C5D9E0B1A2C3D4E5F6A7B8C9"

	sig, err := s.Sign(testParams(), seed, "tok123")
	require.NoError(t, err)
	assert.Regexp(t, upperSHA2Hex, sig)

	again, err := s.Sign(testParams(), seed, "tok123")
	require.NoError(t, err)
	assert.Equal(t, sig, again)
}

func TestSigner_Sign_UnsupportedType(t *testing.T) {
	s := NewSigner("agent01", "secret", "SHA1")

	_, err := s.Sign(testParams(), "0F6ABDE3", "tok123")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainErrors.ErrUnsupportedSignType)
}

func TestGenerateSeed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seed := GenerateSeed()
		assert.Regexp(t, upperMD5Hex, seed)
		assert.False(t, seen[seed], "seeds must be unique under repeated calls")
		seen[seed] = true
	}
}

func TestStringifyParam(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "abc", "abc"},
		{"int", 0, "0"},
		{"int64", int64(5), "5"},
		{"whole float", 15000.0, "15000"},
		{"fractional float", 0.5, "0.5"},
		{"nil", nil, ""},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringifyParam(tt.input))
		})
	}
}
