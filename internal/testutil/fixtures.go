package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/idrissabarry/vendgate/internal/domain/token"
)

// ActiveSessionToken returns a token valid for another hour.
func ActiveSessionToken() *token.SessionToken {
	now := time.Now()
	return &token.SessionToken{
		ID:        1,
		Token:     "ABCDEF0123456789ABCDEF0123456789",
		Seed:      "0F6ABDE3C5D9E0B1A2C3D4E5F6A7B8C9",
		StartTime: now.Add(-time.Minute),
		EndTime:   now.Add(time.Hour),
		IsActive:  true,
		CreatedAt: now.Add(-time.Minute),
	}
}

// MockTokenProvider serves a fixed token and counts refreshes.
type MockTokenProvider struct {
	mu        sync.Mutex
	tok       *token.SessionToken
	refreshes int

	ActiveTokenFunc func(ctx context.Context) (*token.SessionToken, error)
	RefreshFunc     func(ctx context.Context) (*token.SessionToken, error)
}

func NewMockTokenProvider() *MockTokenProvider {
	return &MockTokenProvider{tok: ActiveSessionToken()}
}

func (m *MockTokenProvider) ActiveToken(ctx context.Context) (*token.SessionToken, error) {
	if m.ActiveTokenFunc != nil {
		return m.ActiveTokenFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok, nil
}

func (m *MockTokenProvider) Refresh(ctx context.Context) (*token.SessionToken, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	m.tok = ActiveSessionToken()
	return m.tok, nil
}

// Refreshes returns how many times Refresh ran.
func (m *MockTokenProvider) Refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}
