package domain

// Capability is a permission string required to invoke an operation.
// The mapping from a role to its granted capabilities is external policy
// data resolved through an injected lookup, never hardcoded in services.
type Capability string

const (
	CapTransitionsView Capability = "transitions:view"
	CapMembersView     Capability = "members:view"
	CapUsersManage     Capability = "users:manage"

	// CapAdminOverride is the broad administrative override; among other
	// things it bypasses the widget incumbency gate.
	CapAdminOverride Capability = "admin:override"
)

func (c Capability) String() string { return string(c) }

// CapabilityResolver maps an organizational role to its granted capabilities.
type CapabilityResolver interface {
	// HasCapability reports whether the role grants the capability.
	HasCapability(role string, cap Capability) bool
}
