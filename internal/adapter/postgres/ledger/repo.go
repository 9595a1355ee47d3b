// Package ledger implements the service-record ledger repository using
// PostgreSQL. The ledger is append-mostly: records are created and closed
// (end_at set), never deleted by the transition workflow. It is the single
// source of truth for "who holds this role right now", used identically by
// the approval gate, the assignment detector, the apply engine, and the
// widget incumbency check.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/clubops/boardroom-backend/internal/adapter/postgres"
	"github.com/clubops/boardroom-backend/internal/domain"
)

// Repo provides service record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ledger repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const recordColumns = `id, member_id, service_type, role_title,
committee_id, committee_name, event_id, event_title, term_id, term_name,
start_at, end_at, transition_plan_id, created_at`

const createSQL = `
INSERT INTO service_records (member_id, service_type, role_title,
    committee_id, committee_name, event_id, event_title, term_id, term_name,
    start_at, end_at, transition_plan_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + recordColumns

const getByIDSQL = `
SELECT ` + recordColumns + `
FROM service_records
WHERE id = $1`

const closeSQL = `
UPDATE service_records
SET end_at = $2
WHERE id = $1 AND end_at IS NULL`

const hasActiveRoleSQL = `
SELECT EXISTS(
    SELECT 1 FROM service_records
    WHERE member_id = $1 AND role_title = ANY($2) AND end_at IS NULL
)`

// Create inserts a new service record.
func (r *Repo) Create(ctx context.Context, rec *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		rec.MemberID,
		rec.Type,
		rec.RoleTitle,
		postgres.PtrToUUID(rec.Scope.CommitteeID),
		postgres.PtrToText(rec.Scope.CommitteeName),
		postgres.PtrToUUID(rec.Scope.EventID),
		postgres.PtrToText(rec.Scope.EventTitle),
		postgres.PtrToUUID(rec.Scope.TermID),
		postgres.PtrToText(rec.Scope.TermName),
		rec.StartAt,
		postgres.PtrToTimestamptz(rec.EndAt),
		postgres.PtrToUUID(rec.TransitionPlanID),
	)

	created, err := scanRecord(row)
	if err != nil {
		return nil, postgres.MapError(err, "service_record", uuid.Nil)
	}

	return created, nil
}

// GetByID returns a service record by primary key.
// Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rec, err := scanRecord(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "service_record", id)
	}

	return rec, nil
}

// ActiveByRole returns the most recent active record for a role title,
// constrained by whichever scope axes are set. Returns (nil, nil) when the
// role is vacant; a vacant role is a normal outcome, not an error.
func (r *Repo) ActiveByRole(ctx context.Context, roleTitle string, scope domain.RoleScope) (*domain.ServiceRecord, error) {
	return r.activeRecord(ctx, sq.Eq{"role_title": roleTitle}, scope)
}

// ActiveByMemberRole returns the active record a specific member holds for
// a role title and scope. Returns (nil, nil) when no such record exists.
func (r *Repo) ActiveByMemberRole(ctx context.Context, memberID uuid.UUID, roleTitle string, scope domain.RoleScope) (*domain.ServiceRecord, error) {
	return r.activeRecord(ctx, sq.Eq{"role_title": roleTitle, "member_id": memberID}, scope)
}

func (r *Repo) activeRecord(ctx context.Context, base sq.Eq, scope domain.RoleScope) (*domain.ServiceRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(recordColumns).
		From("service_records").
		Where(base).
		Where("end_at IS NULL")

	if scope.CommitteeID != nil {
		query = query.Where(sq.Eq{"committee_id": *scope.CommitteeID})
	}
	if scope.EventID != nil {
		query = query.Where(sq.Eq{"event_id": *scope.EventID})
	}
	if scope.TermID != nil {
		query = query.Where(sq.Eq{"term_id": *scope.TermID})
	}

	sqlStr, args, err := query.
		OrderBy("start_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active record query: %w", err)
	}

	rec, err := scanRecord(q.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.MapError(err, "service_record", uuid.Nil)
	}

	return rec, nil
}

// Close sets end_at on an active record. Returns false when the record is
// missing or already closed, meaning the ledger has diverged from the plan
// and the caller must abort with a conflict.
func (r *Repo) Close(ctx context.Context, id uuid.UUID, endAt time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, closeSQL, id, endAt)
	if err != nil {
		return false, postgres.MapError(err, "service_record", id)
	}

	return tag.RowsAffected() == 1, nil
}

// HasActiveRole reports whether the member currently holds any of the given
// role titles. Always evaluated live against the ledger, since officers
// rotate independently of any transition plan.
func (r *Repo) HasActiveRole(ctx context.Context, memberID uuid.UUID, roleTitles []string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, hasActiveRoleSQL, memberID, roleTitles).Scan(&exists); err != nil {
		return false, fmt.Errorf("has active role: %w", err)
	}

	return exists, nil
}

// ListByMember returns a member's full service history, most recent first.
func (r *Repo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]domain.ServiceRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+recordColumns+`
		 FROM service_records
		 WHERE member_id = $1
		 ORDER BY start_at DESC, id`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list service records: %w", err)
	}
	defer rows.Close()

	result := []domain.ServiceRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list service records: %w", err)
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list service records: %w", err)
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanRecord(row pgx.Row) (*domain.ServiceRecord, error) {
	var (
		rec           domain.ServiceRecord
		committeeID   pgtype.UUID
		committeeName pgtype.Text
		eventID       pgtype.UUID
		eventTitle    pgtype.Text
		termID        pgtype.UUID
		termName      pgtype.Text
		endAt         pgtype.Timestamptz
		planID        pgtype.UUID
	)

	err := row.Scan(
		&rec.ID,
		&rec.MemberID,
		&rec.Type,
		&rec.RoleTitle,
		&committeeID,
		&committeeName,
		&eventID,
		&eventTitle,
		&termID,
		&termName,
		&rec.StartAt,
		&endAt,
		&planID,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Scope = domain.RoleScope{
		CommitteeID:   postgres.UUIDToPtr(committeeID),
		CommitteeName: postgres.TextToPtr(committeeName),
		EventID:       postgres.UUIDToPtr(eventID),
		EventTitle:    postgres.TextToPtr(eventTitle),
		TermID:        postgres.UUIDToPtr(termID),
		TermName:      postgres.TextToPtr(termName),
	}
	rec.EndAt = postgres.TimestamptzToPtr(endAt)
	rec.TransitionPlanID = postgres.UUIDToPtr(planID)

	return &rec, nil
}
