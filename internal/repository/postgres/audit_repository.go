package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/idrissabarry/vendgate/internal/domain/audit"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository implements audit.Sink using PostgreSQL. Records are
// append-only; there is no update path.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Record inserts one audit entry. Payloads are serialized to JSONB so nested
// numeric and string structures survive round-tripping.
func (r *AuditRepository) Record(ctx context.Context, rec *audit.Record) error {
	reqData, err := json.Marshal(rec.RequestData)
	if err != nil {
		return fmt.Errorf("marshal request data: %w", err)
	}
	respData, err := json.Marshal(rec.ResponseData)
	if err != nil {
		return fmt.Errorf("marshal response data: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO api_logs (endpoint, request_data, response_data, status_code, duration)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		rec.Endpoint, reqData, respData, rec.StatusCode, rec.Duration,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}
