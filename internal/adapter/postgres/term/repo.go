// Package term implements the term calendar repository using PostgreSQL.
package term

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/clubops/boardroom-backend/internal/adapter/postgres"
	"github.com/clubops/boardroom-backend/internal/domain"
)

// Repo provides term persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new term repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO terms (name, starts_on, ends_on)
VALUES ($1, $2, $3)
RETURNING id, name, starts_on, ends_on`

const getByIDSQL = `
SELECT id, name, starts_on, ends_on
FROM terms
WHERE id = $1`

const listSQL = `
SELECT id, name, starts_on, ends_on
FROM terms
ORDER BY starts_on`

const upcomingStartSQL = `
SELECT id, name, starts_on, ends_on
FROM terms
WHERE starts_on > $1
ORDER BY starts_on
LIMIT 1`

// Create inserts a new term.
func (r *Repo) Create(ctx context.Context, t *domain.Term) (*domain.Term, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.Term
	err := q.QueryRow(ctx, createSQL, t.Name, t.StartsOn, t.EndsOn).Scan(
		&created.ID,
		&created.Name,
		&created.StartsOn,
		&created.EndsOn,
	)
	if err != nil {
		return nil, postgres.MapError(err, "term", uuid.Nil)
	}

	return &created, nil
}

// GetByID returns a term by primary key. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.Term
	err := q.QueryRow(ctx, getByIDSQL, id).Scan(&t.ID, &t.Name, &t.StartsOn, &t.EndsOn)
	if err != nil {
		return nil, postgres.MapError(err, "term", id)
	}

	return &t, nil
}

// List returns all terms in calendar order.
func (r *Repo) List(ctx context.Context) ([]domain.Term, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	result := []domain.Term{}
	for rows.Next() {
		var t domain.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.StartsOn, &t.EndsOn); err != nil {
			return nil, fmt.Errorf("list terms: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}

	return result, nil
}

// UpcomingStart returns the first term starting strictly after the given
// time, or (nil, nil) when the calendar has no future term. The widget
// counts down toward this boundary.
func (r *Repo) UpcomingStart(ctx context.Context, after time.Time) (*domain.Term, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.Term
	err := q.QueryRow(ctx, upcomingStartSQL, after).Scan(&t.ID, &t.Name, &t.StartsOn, &t.EndsOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("upcoming term: %w", err)
	}

	return &t, nil
}
