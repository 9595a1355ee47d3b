// Package member implements the member reference repository using
// PostgreSQL. Member lifecycle management lives in an external collaborator;
// this repository only resolves the references the transition workflow needs.
package member

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/clubops/boardroom-backend/internal/adapter/postgres"
	"github.com/clubops/boardroom-backend/internal/domain"
)

// Repo provides member persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new member repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO members (full_name, email)
VALUES ($1, $2)
RETURNING id, full_name, email`

const getByIDSQL = `
SELECT id, full_name, email
FROM members
WHERE id = $1`

// Create inserts a new member. Returns domain.ErrAlreadyExists when the
// email is taken.
func (r *Repo) Create(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.Member
	err := q.QueryRow(ctx, createSQL, m.FullName, m.Email).Scan(
		&created.ID,
		&created.FullName,
		&created.Email,
	)
	if err != nil {
		return nil, postgres.MapError(err, "member", uuid.Nil)
	}

	return &created, nil
}

// GetByID returns a member by primary key. Returns domain.ErrNotFound if
// absent.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var m domain.Member
	err := q.QueryRow(ctx, getByIDSQL, id).Scan(&m.ID, &m.FullName, &m.Email)
	if err != nil {
		return nil, postgres.MapError(err, "member", id)
	}

	return &m, nil
}

// Exists reports whether a member with the given id exists.
func (r *Repo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("member exists: %w", err)
	}

	return exists, nil
}
