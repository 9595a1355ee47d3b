package plan

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/clubops/boardroom-backend/internal/adapter/postgres"
	"github.com/clubops/boardroom-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	sortByName        = "name"
	sortByCreatedAt   = "created_at"
	sortByEffectiveAt = "effective_at"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalize applies defaults and clamps values.
func normalize(f domain.PlanFilter) domain.PlanFilter {
	switch f.SortBy {
	case sortByName, sortByCreatedAt, sortByEffectiveAt:
		// valid
	default:
		f.SortBy = sortByCreatedAt
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
		// valid
	default:
		f.SortOrder = sortOrderDESC
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	return f
}

// List returns a page of plans matching the filter plus the total match
// count. Assignments and approvals are not loaded; use GetByID for detail.
func (r *Repo) List(ctx context.Context, f domain.PlanFilter) (*domain.PlanPage, error) {
	f = normalize(f)

	q := postgres.QuerierFromCtx(ctx, r.pool)
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	where := sq.And{}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": *f.Status})
	}
	if f.TermID != nil {
		where = append(where, sq.Eq{"term_id": *f.TermID})
	}
	if f.CreatedBy != nil {
		where = append(where, sq.Eq{"created_by": *f.CreatedBy})
	}

	countQuery := builder.Select("count(*)").From("transition_plans")
	listQuery := builder.Select(planColumns).From("transition_plans")
	if len(where) > 0 {
		countQuery = countQuery.Where(where)
		listQuery = listQuery.Where(where)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count plans: %w", err)
	}

	listSQL, listArgs, err := listQuery.
		OrderBy(fmt.Sprintf("%s %s, id %s", f.SortBy, f.SortOrder, f.SortOrder)).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.TransitionPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	return &domain.PlanPage{Plans: plans, Total: total}, nil
}
