package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const serviceColumns = `id, title, heading, subheading, body, slug, display_order, is_active, images, created_at, updated_at`

// Repository stores services in the relational database.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns active services in display order. Display order is a
// strict total ordering among active rows; creation time breaks ties for
// rows that were never reordered.
func (r *Repository) ListActive(ctx context.Context) ([]Service, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE is_active = true
		ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list active: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// ListAll returns every service, active or not, for the admin panel.
func (r *Repository) ListAll(ctx context.Context) ([]Service, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list all: %w", err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// GetActive fetches one active service by id.
func (r *Repository) GetActive(ctx context.Context, id string) (*Service, error) {
	var s Service
	err := r.db.QueryRowContext(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1 AND is_active = true`, id).Scan(
		&s.ID, &s.Title, &s.Heading, &s.Subheading, &s.Body, &s.Slug,
		&s.DisplayOrder, &s.IsActive, pq.Array(&s.Images), &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get active: %w", err)
	}
	if s.Images == nil {
		s.Images = []string{}
	}
	return &s, nil
}

// Create inserts a new service at the end of the display order.
func (r *Repository) Create(ctx context.Context, s *Service) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (id, title, heading, subheading, body, slug, display_order, is_active, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6,
		        COALESCE((SELECT MAX(display_order) + 1 FROM services), 0),
		        $7, $8, $9, $9)`,
		s.ID, s.Title, s.Heading, s.Subheading, s.Body, s.Slug,
		s.IsActive, pq.Array(s.Images), now)
	if err != nil {
		return fmt.Errorf("catalog: insert: %w", err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

// Update rewrites an existing service.
func (r *Repository) Update(ctx context.Context, s *Service) error {
	if err := s.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE services
		SET title = $2, heading = $3, subheading = $4, body = $5, slug = $6,
		    is_active = $7, images = $8, updated_at = now()
		WHERE id = $1`,
		s.ID, s.Title, s.Heading, s.Subheading, s.Body, s.Slug,
		s.IsActive, pq.Array(s.Images))
	if err != nil {
		return fmt.Errorf("catalog: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog: update: %w", err)
	}
	if n == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// Reorder assigns display_order by the position of each id in the slice.
// Runs in one transaction so a partial reorder is never visible.
func (r *Repository) Reorder(ctx context.Context, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: reorder begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE services SET display_order = $2, updated_at = now() WHERE id = $1`,
			id, i); err != nil {
			return fmt.Errorf("catalog: reorder: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: reorder commit: %w", err)
	}
	return nil
}

// Deactivate hides a service from the public selector without deleting it.
func (r *Repository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE services SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: deactivate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog: deactivate: %w", err)
	}
	if n == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func scanServices(rows *sql.Rows) ([]Service, error) {
	out := []Service{}
	for rows.Next() {
		var s Service
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Heading, &s.Subheading, &s.Body, &s.Slug,
			&s.DisplayOrder, &s.IsActive, pq.Array(&s.Images), &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		if s.Images == nil {
			s.Images = []string{}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
