package domain

import "github.com/google/uuid"

// PlanFilter defines parameters for searching and paginating transition
// plans.
type PlanFilter struct {
	// Status filters by plan status. nil means all statuses.
	Status *PlanStatus

	// TermID filters plans targeting the given term.
	TermID *uuid.UUID

	// CreatedBy filters plans by creator.
	CreatedBy *uuid.UUID

	// SortBy determines the sort column: "created_at", "effective_at",
	// "name". Default: "created_at".
	SortBy string

	// SortOrder: "ASC" or "DESC". Default: "DESC".
	SortOrder string

	// Limit is the maximum number of plans to return. Default: 50, max: 200.
	Limit int

	// Offset is the number of plans to skip.
	Offset int
}

// PlanPage is one page of a filtered plan listing.
type PlanPage struct {
	Plans []TransitionPlan
	Total int
}
