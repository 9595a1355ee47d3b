package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRecord is one entry in the append-mostly service-history ledger:
// who served what role, in which scope, and for what period. A record with
// a nil EndAt is active and its member is the current holder of the role.
//
// Records are never deleted by the transition workflow; corrections are
// additive.
type ServiceRecord struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	Type      ServiceType
	RoleTitle string
	Scope     RoleScope
	StartAt   time.Time
	EndAt     *time.Time

	// TransitionPlanID is set when the record was opened by applying a
	// transition plan.
	TransitionPlanID *uuid.UUID

	CreatedAt time.Time
}

// IsActive reports whether the record is currently held (no end date).
func (r *ServiceRecord) IsActive() bool {
	return r.EndAt == nil
}
