package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sync attempt outcomes.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// SyncRecord is one row of the append-only sync audit trail. Exactly one
// record exists per attempt, whatever the outcome.
type SyncRecord struct {
	ID           string    `json:"id"`
	LeadEmail    string    `json:"lead_email"`
	ExternalID   string    `json:"external_id,omitempty"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SyncStore appends sync attempt records. Rows are independent, so
// concurrent writers need no coordination.
type SyncStore struct {
	pool execer
}

func NewSyncStore(pool *pgxpool.Pool) *SyncStore {
	if pool == nil {
		panic("crm: pgx pool required")
	}
	return &SyncStore{pool: pool}
}

func newSyncStoreWithExec(exec execer) *SyncStore {
	if exec == nil {
		panic("crm: exec required")
	}
	return &SyncStore{pool: exec}
}

// Append writes one attempt record.
func (s *SyncStore) Append(ctx context.Context, rec SyncRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO crm_sync_records (id, lead_email, external_id, status, error_message)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.pool.Exec(ctx, query,
		rec.ID,
		rec.LeadEmail,
		nullIfEmpty(rec.ExternalID),
		rec.Status,
		nullIfEmpty(rec.ErrorMessage),
	); err != nil {
		return fmt.Errorf("crm: append sync record: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
