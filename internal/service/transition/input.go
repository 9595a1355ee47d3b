package transition

import (
	"time"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
)

// CreatePlanInput holds the parameters for creating a transition plan.
type CreatePlanInput struct {
	Name        string
	Description *string
	TermID      uuid.UUID
	EffectiveAt time.Time
}

// Validate checks all fields and collects all errors.
func (i *CreatePlanInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 200)"})
	}
	if i.Description != nil && len(*i.Description) > 5000 {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}
	if i.TermID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "term_id", Message: "required"})
	}
	if i.EffectiveAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "effective_at", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdatePlanInput holds partial updates for a DRAFT plan. nil fields are
// left unchanged.
type UpdatePlanInput struct {
	Name        *string
	Description *string
	TermID      *uuid.UUID
	EffectiveAt *time.Time
}

// Validate checks all fields and collects all errors.
func (i *UpdatePlanInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil {
		if *i.Name == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
		} else if len(*i.Name) > 200 {
			errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 200)"})
		}
	}
	if i.Description != nil && len(*i.Description) > 5000 {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}
	if i.TermID != nil && *i.TermID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "term_id", Message: "required"})
	}
	if i.EffectiveAt != nil && i.EffectiveAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "effective_at", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// IsEmpty reports whether no field is set.
func (i *UpdatePlanInput) IsEmpty() bool {
	return i.Name == nil && i.Description == nil && i.TermID == nil && i.EffectiveAt == nil
}

// AddAssignmentInput holds the parameters for adding an assignment slot to
// a DRAFT plan.
type AddAssignmentInput struct {
	Direction domain.AssignmentDirection
	MemberID  uuid.UUID
	RoleTitle string
	Scope     domain.RoleScope
}

// Validate checks all fields and collects all errors.
func (i *AddAssignmentInput) Validate() error {
	var errs []domain.FieldError

	if !i.Direction.IsValid() {
		errs = append(errs, domain.FieldError{Field: "direction", Message: "must be INCOMING or OUTGOING"})
	}
	if i.MemberID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "member_id", Message: "required"})
	}
	if i.RoleTitle == "" {
		errs = append(errs, domain.FieldError{Field: "role_title", Message: "required"})
	} else if len(i.RoleTitle) > 200 {
		errs = append(errs, domain.FieldError{Field: "role_title", Message: "too long (max 200)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
