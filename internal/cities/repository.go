package cities

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Result set cap for autocomplete queries.
const suggestionLimit = 10

type rowsQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads the city reference set.
type Repository struct {
	pool rowsQuerier
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("cities: pgx pool required")
	}
	return &Repository{pool: pool}
}

func newRepositoryWithExec(exec rowsQuerier) *Repository {
	if exec == nil {
		panic("cities: exec required")
	}
	return &Repository{pool: exec}
}

// likeEscaper neutralizes LIKE metacharacters so the prefix only ever
// matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SuggestByPrefix returns up to ten active cities whose name starts with
// the prefix, case-insensitively, ordered by name.
func (r *Repository) SuggestByPrefix(ctx context.Context, prefix string) ([]Suggestion, error) {
	query := `
		SELECT name, COALESCE(region, '')
		FROM cities
		WHERE is_active = true AND name ILIKE $1 || '%'
		ORDER BY name
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, likeEscaper.Replace(prefix), suggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("cities: suggest query: %w", err)
	}
	defer rows.Close()

	out := []Suggestion{}
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.Name, &s.Region); err != nil {
			return nil, fmt.Errorf("cities: scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
