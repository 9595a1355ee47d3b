package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransitionPlan is a proposed set of role handoffs for a term boundary.
// It owns its assignments and approvals by composition: deleting a plan
// removes both. Only DRAFT plans are mutable; approvals are immutable once
// recorded.
type TransitionPlan struct {
	ID          uuid.UUID
	Name        string
	Description *string
	TermID      uuid.UUID
	EffectiveAt time.Time
	Status      PlanStatus
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Assignments []TransitionAssignment
	Approvals   []Approval
}

// IsMutable reports whether name/description/assignments may still change.
func (p *TransitionPlan) IsMutable() bool {
	return p.Status == PlanStatusDraft
}

// IsDeletable reports whether the plan may be removed entirely.
func (p *TransitionPlan) IsDeletable() bool {
	return p.Status == PlanStatusDraft || p.Status == PlanStatusCancelled
}

// ApprovalFor returns the recorded approval for the given role, if any.
func (p *TransitionPlan) ApprovalFor(role ApproverRole) *Approval {
	for i := range p.Approvals {
		if p.Approvals[i].Role == role {
			return &p.Approvals[i]
		}
	}
	return nil
}

// FullyApproved reports whether every required approver role has a recorded
// approval. There is no partial or majority rule: strict two-of-two.
func (p *TransitionPlan) FullyApproved() bool {
	return ApprovalsComplete(p.Approvals)
}

// ApprovalsComplete reports whether the given approvals cover every required
// approver role.
func ApprovalsComplete(approvals []Approval) bool {
	seen := make(map[ApproverRole]bool, len(approvals))
	for _, a := range approvals {
		seen[a.Role] = true
	}
	for _, r := range RequiredApproverRoles() {
		if !seen[r] {
			return false
		}
	}
	return true
}

// RoleScope is the optional scope a role is held in: a committee, an event,
// a term, or any combination. A nil field means "unscoped" for that axis.
type RoleScope struct {
	CommitteeID   *uuid.UUID
	CommitteeName *string
	EventID       *uuid.UUID
	EventTitle    *string
	TermID        *uuid.UUID
	TermName      *string
}

// ServiceType returns the ledger record type a scope implies: committee
// scope opens a COMMITTEE record, event scope an EVENT record, an unscoped
// or term-scoped role an OFFICER seat.
func (s RoleScope) ServiceType() ServiceType {
	switch {
	case s.CommitteeID != nil || s.CommitteeName != nil:
		return ServiceTypeCommittee
	case s.EventID != nil || s.EventTitle != nil:
		return ServiceTypeEvent
	default:
		return ServiceTypeOfficer
	}
}

// IsZero reports whether no scope axis is set.
func (s RoleScope) IsZero() bool {
	return s.CommitteeID == nil && s.CommitteeName == nil &&
		s.EventID == nil && s.EventTitle == nil &&
		s.TermID == nil && s.TermName == nil
}

// TransitionAssignment is one slot in a plan: someone stepping into a role
// (incoming) or out of one (outgoing). Outgoing assignments reference the
// service record they intend to close.
type TransitionAssignment struct {
	ID        uuid.UUID
	PlanID    uuid.UUID
	Direction AssignmentDirection
	MemberID  uuid.UUID
	RoleTitle string
	Scope     RoleScope

	// ServiceRecordID is set on outgoing assignments created by detection:
	// the active record this assignment intends to close.
	ServiceRecordID *uuid.UUID

	CreatedAt time.Time
}

// Approval records one governance position's sign-off on a plan.
// At most one approval exists per (plan, role) pair.
type Approval struct {
	ID        uuid.UUID
	PlanID    uuid.UUID
	Role      ApproverRole
	MemberID  uuid.UUID
	CreatedAt time.Time
}

// StatusChange reports a plan status transition for audit logging.
type StatusChange struct {
	From PlanStatus
	To   PlanStatus
}

// PlanUpdateParams carries partial updates for a DRAFT plan.
// nil fields are left unchanged; for Description, a pointer to an empty
// string clears the value.
type PlanUpdateParams struct {
	Name        *string
	Description *string
	TermID      *uuid.UUID
	EffectiveAt *time.Time
}
