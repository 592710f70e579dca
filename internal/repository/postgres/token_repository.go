package postgres

import (
	"context"
	"fmt"

	"github.com/idrissabarry/vendgate/internal/domain/token"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository implements token.Repository using PostgreSQL.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// ActiveTokens returns all tokens currently flagged active, newest first.
func (r *TokenRepository) ActiveTokens(ctx context.Context) ([]*token.SessionToken, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, token, seed, start_time, end_time, is_active, created_at
		 FROM smartpay_tokens WHERE is_active ORDER BY end_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("query active tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*token.SessionToken
	for rows.Next() {
		t := &token.SessionToken{}
		if err := rows.Scan(&t.ID, &t.Token, &t.Seed, &t.StartTime, &t.EndTime, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return tokens, nil
}

// ReplaceActive deactivates all active tokens and inserts tok as the new
// active token inside one transaction, so "exactly one active" holds even
// when refreshes race: the last committed writer wins.
func (r *TokenRepository) ReplaceActive(ctx context.Context, tok *token.SessionToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE smartpay_tokens SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("deactivate tokens: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO smartpay_tokens (token, seed, start_time, end_time, is_active)
		 VALUES ($1, $2, $3, $4, TRUE)
		 RETURNING id, created_at`,
		tok.Token, tok.Seed, tok.StartTime, tok.EndTime,
	).Scan(&tok.ID, &tok.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	tok.IsActive = true

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
