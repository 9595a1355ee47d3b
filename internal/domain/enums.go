package domain

// PlanStatus represents the lifecycle state of a transition plan.
//
// The status graph is monotone: DRAFT -> PENDING_APPROVAL -> APPROVED ->
// APPLIED, with CANCELLED reachable from DRAFT and PENDING_APPROVAL.
// No transition returns to an earlier state.
type PlanStatus string

const (
	PlanStatusDraft           PlanStatus = "DRAFT"
	PlanStatusPendingApproval PlanStatus = "PENDING_APPROVAL"
	PlanStatusApproved        PlanStatus = "APPROVED"
	PlanStatusApplied         PlanStatus = "APPLIED"
	PlanStatusCancelled       PlanStatus = "CANCELLED"
)

func (s PlanStatus) String() string { return string(s) }

func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusDraft, PlanStatusPendingApproval, PlanStatusApproved,
		PlanStatusApplied, PlanStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (s PlanStatus) IsTerminal() bool {
	return s == PlanStatusApplied || s == PlanStatusCancelled
}

// CanTransitionTo reports whether the status graph permits moving to next.
func (s PlanStatus) CanTransitionTo(next PlanStatus) bool {
	switch s {
	case PlanStatusDraft:
		return next == PlanStatusPendingApproval || next == PlanStatusCancelled
	case PlanStatusPendingApproval:
		return next == PlanStatusApproved || next == PlanStatusCancelled
	case PlanStatusApproved:
		return next == PlanStatusApplied
	}
	return false
}

// AssignmentDirection distinguishes someone entering a role from someone
// leaving it.
type AssignmentDirection string

const (
	DirectionIncoming AssignmentDirection = "INCOMING"
	DirectionOutgoing AssignmentDirection = "OUTGOING"
)

func (d AssignmentDirection) String() string { return string(d) }

func (d AssignmentDirection) IsValid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// ApproverRole names one of the two governance positions whose approval a
// transition plan requires. The set is fixed: approval is strict two-of-two
// by distinct role, not a quorum.
type ApproverRole string

const (
	ApproverRolePresident    ApproverRole = "president"
	ApproverRoleVPActivities ApproverRole = "vp-activities"
)

func (r ApproverRole) String() string { return string(r) }

func (r ApproverRole) IsValid() bool {
	return r == ApproverRolePresident || r == ApproverRoleVPActivities
}

// RoleTitle returns the service-record role title the approver role maps to.
func (r ApproverRole) RoleTitle() string {
	switch r {
	case ApproverRolePresident:
		return RoleTitlePresident
	case ApproverRoleVPActivities:
		return RoleTitleVPActivities
	}
	return ""
}

// RequiredApproverRoles returns the fixed set of roles that must approve a
// plan before it becomes APPROVED.
func RequiredApproverRoles() []ApproverRole {
	return []ApproverRole{ApproverRolePresident, ApproverRoleVPActivities}
}

// Role titles with governance meaning. Stored verbatim in service records.
const (
	RoleTitlePresident     = "President"
	RoleTitleVPActivities  = "VP Activities"
	RoleTitlePastPresident = "Past President"
)

// ServiceType categorizes a service record.
type ServiceType string

const (
	ServiceTypeOfficer   ServiceType = "OFFICER"
	ServiceTypeCommittee ServiceType = "COMMITTEE"
	ServiceTypeEvent     ServiceType = "EVENT"
)

func (t ServiceType) String() string { return string(t) }

func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeOfficer, ServiceTypeCommittee, ServiceTypeEvent:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity (used in audit logs).
type EntityType string

const (
	EntityTypePlan          EntityType = "TRANSITION_PLAN"
	EntityTypeAssignment    EntityType = "TRANSITION_ASSIGNMENT"
	EntityTypeApproval      EntityType = "PLAN_APPROVAL"
	EntityTypeServiceRecord EntityType = "SERVICE_RECORD"
	EntityTypeTerm          EntityType = "TERM"
	EntityTypeMember        EntityType = "MEMBER"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypePlan, EntityTypeAssignment, EntityTypeApproval,
		EntityTypeServiceRecord, EntityTypeTerm, EntityTypeMember:
		return true
	}
	return false
}

// AuditAction represents the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionDelete       AuditAction = "DELETE"
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
	AuditActionApply        AuditAction = "APPLY"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete,
		AuditActionStatusChange, AuditActionApply:
		return true
	}
	return false
}
