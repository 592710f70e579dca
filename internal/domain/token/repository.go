package token

import "context"

// Repository persists gateway session tokens.
type Repository interface {
	// ActiveTokens returns all tokens currently flagged active, newest first.
	ActiveTokens(ctx context.Context) ([]*SessionToken, error)

	// ReplaceActive deactivates every active token and stores tok as the new
	// active one, in a single transaction. Either both happen or neither.
	ReplaceActive(ctx context.Context, tok *SessionToken) error
}
