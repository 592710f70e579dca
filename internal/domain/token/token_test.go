package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionToken_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endTime time.Time
		want    bool
	}{
		{"ends in the future", now.Add(time.Hour), false},
		{"ends exactly now", now, true},
		{"already ended", now.Add(-time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &SessionToken{EndTime: tt.endTime}
			assert.Equal(t, tt.want, tok.IsExpired(now))
		})
	}
}

func TestSessionToken_Usable(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Valid but inside the 5 minute buffer: expired for new requests.
	tok := &SessionToken{EndTime: now.Add(3 * time.Minute)}
	assert.False(t, tok.IsExpired(now))
	assert.False(t, tok.Usable(now))

	tok = &SessionToken{EndTime: now.Add(6 * time.Minute)}
	assert.True(t, tok.Usable(now))

	tok = &SessionToken{EndTime: now.Add(5 * time.Minute)}
	assert.False(t, tok.Usable(now), "exactly at the buffer boundary is not usable")
}
