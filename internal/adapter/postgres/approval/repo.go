// Package approval implements the plan approval repository using PostgreSQL.
// Approvals are immutable once recorded; the one-per-(plan, role) rule is
// backed by a unique constraint in addition to the service-level check.
package approval

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/clubops/boardroom-backend/internal/adapter/postgres"
	"github.com/clubops/boardroom-backend/internal/domain"
)

// Repo provides plan approval persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new approval repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO plan_approvals (plan_id, approver_role, member_id)
VALUES ($1, $2, $3)
RETURNING id, plan_id, approver_role, member_id, created_at`

const listByPlanSQL = `
SELECT id, plan_id, approver_role, member_id, created_at
FROM plan_approvals
WHERE plan_id = $1
ORDER BY created_at`

// Create records an approval. Returns domain.ErrAlreadyExists if the role
// has already approved this plan (unique violation).
func (r *Repo) Create(ctx context.Context, a *domain.Approval) (*domain.Approval, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.Approval
	err := q.QueryRow(ctx, createSQL, a.PlanID, a.Role, a.MemberID).Scan(
		&created.ID,
		&created.PlanID,
		&created.Role,
		&created.MemberID,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "plan_approval", a.PlanID)
	}

	return &created, nil
}

// ListByPlan returns all approvals recorded for a plan in recording order.
// Returns an empty slice (not nil) when the plan has none.
func (r *Repo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.Approval, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByPlanSQL, planID)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	result := []domain.Approval{}
	for rows.Next() {
		var a domain.Approval
		if err := rows.Scan(&a.ID, &a.PlanID, &a.Role, &a.MemberID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("list approvals: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}

	return result, nil
}
