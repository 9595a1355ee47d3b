package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord logs a mutation event on a domain entity: who did it, under
// what capability, and a free-form changes blob (old/new status, counts).
type AuditRecord struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	EntityType EntityType
	EntityID   *uuid.UUID
	Action     AuditAction
	Capability Capability
	Changes    map[string]any
	CreatedAt  time.Time
}
