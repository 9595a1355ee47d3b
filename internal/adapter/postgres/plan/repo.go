// Package plan implements the TransitionPlan repository using PostgreSQL.
// A plan owns its assignments by composition: the transition_assignments
// rows cascade on plan deletion, and assignment mutations are plan-scoped.
package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/clubops/boardroom-backend/internal/adapter/postgres"
	"github.com/clubops/boardroom-backend/internal/domain"
)

// Repo provides transition plan persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new plan repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const planColumns = `id, name, description, term_id, effective_at, status, created_by, created_at, updated_at`

const assignmentColumns = `id, plan_id, direction, member_id, role_title,
committee_id, committee_name, event_id, event_title, term_id, term_name,
service_record_id, created_at`

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const createPlanSQL = `
INSERT INTO transition_plans (name, description, term_id, effective_at, status, created_by)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + planColumns

const getPlanByIDSQL = `
SELECT ` + planColumns + `
FROM transition_plans
WHERE id = $1`

const getPlanForUpdateSQL = getPlanByIDSQL + `
FOR UPDATE`

const updatePlanSQL = `
UPDATE transition_plans
SET name = $2, description = $3, term_id = $4, effective_at = $5, updated_at = now()
WHERE id = $1
RETURNING ` + planColumns

const updateStatusSQL = `
UPDATE transition_plans
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2`

const deletePlanSQL = `DELETE FROM transition_plans WHERE id = $1`

const addAssignmentSQL = `
INSERT INTO transition_assignments (plan_id, direction, member_id, role_title,
    committee_id, committee_name, event_id, event_title, term_id, term_name,
    service_record_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + assignmentColumns

const listAssignmentsSQL = `
SELECT ` + assignmentColumns + `
FROM transition_assignments
WHERE plan_id = $1
ORDER BY created_at, id`

const removeAssignmentSQL = `
DELETE FROM transition_assignments WHERE id = $1 AND plan_id = $2`

const countAssignmentsSQL = `
SELECT count(*) FROM transition_assignments WHERE plan_id = $1`

// ---------------------------------------------------------------------------
// Plan operations
// ---------------------------------------------------------------------------

// Create inserts a new plan and returns the persisted domain.TransitionPlan.
func (r *Repo) Create(ctx context.Context, p *domain.TransitionPlan) (*domain.TransitionPlan, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createPlanSQL,
		p.Name,
		postgres.PtrToText(p.Description),
		p.TermID,
		p.EffectiveAt,
		p.Status,
		p.CreatedBy,
	)

	created, err := scanPlan(row)
	if err != nil {
		return nil, postgres.MapError(err, "transition_plan", uuid.Nil)
	}

	return created, nil
}

// GetByID returns a plan with its assignments and approvals loaded.
// Returns domain.ErrNotFound if the plan does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransitionPlan, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanPlan(q.QueryRow(ctx, getPlanByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "transition_plan", id)
	}

	if p.Assignments, err = r.ListAssignments(ctx, id); err != nil {
		return nil, err
	}
	if p.Approvals, err = r.listApprovals(ctx, id); err != nil {
		return nil, err
	}

	return p, nil
}

// GetForUpdate returns the plan row locked FOR UPDATE. Must be called inside
// a transaction; the lock serializes concurrent status-changing operations
// on the same plan. Assignments and approvals are not loaded.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.TransitionPlan, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanPlan(q.QueryRow(ctx, getPlanForUpdateSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "transition_plan", id)
	}

	return p, nil
}

// Update overwrites the mutable fields of a plan and returns the result.
// The caller is responsible for the DRAFT-only rule; this is a plain write.
func (r *Repo) Update(ctx context.Context, p *domain.TransitionPlan) (*domain.TransitionPlan, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, updatePlanSQL,
		p.ID,
		p.Name,
		postgres.PtrToText(p.Description),
		p.TermID,
		p.EffectiveAt,
	)

	updated, err := scanPlan(row)
	if err != nil {
		return nil, postgres.MapError(err, "transition_plan", p.ID)
	}

	return updated, nil
}

// UpdateStatus performs the guarded status transition: the write succeeds
// only if the row still holds the expected current status. Zero rows
// affected means a concurrent operation won the race; the caller receives
// domain.ErrInvalidState and must not retry blindly.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.PlanStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updateStatusSQL, id, from, to)
	if err != nil {
		return postgres.MapError(err, "transition_plan", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transition_plan %s: status is no longer %s: %w", id, from, domain.ErrInvalidState)
	}

	return nil
}

// Delete removes a plan; assignments and approvals cascade.
// Returns domain.ErrNotFound if the plan does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deletePlanSQL, id)
	if err != nil {
		return postgres.MapError(err, "transition_plan", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transition_plan %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Assignment operations
// ---------------------------------------------------------------------------

// AddAssignment inserts an assignment for a plan.
// The DRAFT-only rule is enforced by the service inside its transaction.
func (r *Repo) AddAssignment(ctx context.Context, a *domain.TransitionAssignment) (*domain.TransitionAssignment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, addAssignmentSQL,
		a.PlanID,
		a.Direction,
		a.MemberID,
		a.RoleTitle,
		postgres.PtrToUUID(a.Scope.CommitteeID),
		postgres.PtrToText(a.Scope.CommitteeName),
		postgres.PtrToUUID(a.Scope.EventID),
		postgres.PtrToText(a.Scope.EventTitle),
		postgres.PtrToUUID(a.Scope.TermID),
		postgres.PtrToText(a.Scope.TermName),
		postgres.PtrToUUID(a.ServiceRecordID),
	)

	created, err := scanAssignment(row)
	if err != nil {
		return nil, postgres.MapError(err, "transition_assignment", uuid.Nil)
	}

	return created, nil
}

// RemoveAssignment deletes one assignment scoped by plan ID.
// Returns domain.ErrNotFound if the assignment does not exist on that plan.
func (r *Repo) RemoveAssignment(ctx context.Context, planID, assignmentID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, removeAssignmentSQL, assignmentID, planID)
	if err != nil {
		return postgres.MapError(err, "transition_assignment", assignmentID)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transition_assignment %s: %w", assignmentID, domain.ErrNotFound)
	}

	return nil
}

// ListAssignments returns all assignments of a plan in insertion order.
// Returns an empty slice (not nil) when the plan has none.
func (r *Repo) ListAssignments(ctx context.Context, planID uuid.UUID) ([]domain.TransitionAssignment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listAssignmentsSQL, planID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	result := []domain.TransitionAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("list assignments: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	return result, nil
}

// CountAssignments returns the number of assignments on a plan.
func (r *Repo) CountAssignments(ctx context.Context, planID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countAssignmentsSQL, planID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}

	return count, nil
}

// listApprovals loads the approvals of a plan for GetByID. Writes go through
// the approval repository.
func (r *Repo) listApprovals(ctx context.Context, planID uuid.UUID) ([]domain.Approval, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT id, plan_id, approver_role, member_id, created_at
		 FROM plan_approvals WHERE plan_id = $1 ORDER BY created_at`, planID)
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

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanPlan(row pgx.Row) (*domain.TransitionPlan, error) {
	var (
		p           domain.TransitionPlan
		description pgtype.Text
		effectiveAt time.Time
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.TermID,
		&effectiveAt,
		&p.Status,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = postgres.TextToPtr(description)
	p.EffectiveAt = effectiveAt

	return &p, nil
}

func scanAssignment(row pgx.Row) (*domain.TransitionAssignment, error) {
	var (
		a             domain.TransitionAssignment
		committeeID   pgtype.UUID
		committeeName pgtype.Text
		eventID       pgtype.UUID
		eventTitle    pgtype.Text
		termID        pgtype.UUID
		termName      pgtype.Text
		recordID      pgtype.UUID
	)

	err := row.Scan(
		&a.ID,
		&a.PlanID,
		&a.Direction,
		&a.MemberID,
		&a.RoleTitle,
		&committeeID,
		&committeeName,
		&eventID,
		&eventTitle,
		&termID,
		&termName,
		&recordID,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Scope = domain.RoleScope{
		CommitteeID:   postgres.UUIDToPtr(committeeID),
		CommitteeName: postgres.TextToPtr(committeeName),
		EventID:       postgres.UUIDToPtr(eventID),
		EventTitle:    postgres.TextToPtr(eventTitle),
		TermID:        postgres.UUIDToPtr(termID),
		TermName:      postgres.TextToPtr(termName),
	}
	a.ServiceRecordID = postgres.UUIDToPtr(recordID)

	return &a, nil
}
