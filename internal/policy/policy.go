// Package policy resolves organizational roles to capability strings.
// The role -> capabilities mapping is configuration data; services depend
// only on the domain.CapabilityResolver interface.
package policy

import (
	"github.com/clubops/boardroom-backend/internal/domain"
)

// Table is a static capability resolver backed by a role -> capabilities map.
type Table struct {
	grants map[string]map[domain.Capability]bool
}

// NewTable builds a Table from the raw config mapping. An empty or nil
// mapping falls back to the default table.
func NewTable(raw map[string][]string) *Table {
	if len(raw) == 0 {
		raw = defaultPolicy()
	}

	grants := make(map[string]map[domain.Capability]bool, len(raw))
	for role, caps := range raw {
		set := make(map[domain.Capability]bool, len(caps))
		for _, c := range caps {
			set[domain.Capability(c)] = true
		}
		grants[role] = set
	}

	return &Table{grants: grants}
}

// HasCapability reports whether the role grants the capability.
// Unknown roles grant nothing.
func (t *Table) HasCapability(role string, cap domain.Capability) bool {
	return t.grants[role][cap]
}

// defaultPolicy is the fallback grant table used when no policy is
// configured. Kept deliberately small: deployments are expected to ship
// their own table.
func defaultPolicy() map[string][]string {
	return map[string][]string{
		"admin": {
			string(domain.CapTransitionsView),
			string(domain.CapMembersView),
			string(domain.CapUsersManage),
			string(domain.CapAdminOverride),
		},
		"officer": {
			string(domain.CapTransitionsView),
			string(domain.CapMembersView),
		},
		"member": {
			string(domain.CapMembersView),
		},
	}
}

var _ domain.CapabilityResolver = (*Table)(nil)
