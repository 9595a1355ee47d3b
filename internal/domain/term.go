package domain

import (
	"time"

	"github.com/google/uuid"
)

// Term is one entry in the organization's term calendar. Term boundaries
// are the scheduled transition dates the countdown widget counts toward.
type Term struct {
	ID       uuid.UUID
	Name     string
	StartsOn time.Time
	EndsOn   time.Time
}

// Contains reports whether t falls inside the term (inclusive start,
// exclusive end).
func (tm *Term) Contains(t time.Time) bool {
	return !t.Before(tm.StartsOn) && t.Before(tm.EndsOn)
}

// Member is the minimal member reference the workflow needs. Member CRUD
// lives in an external collaborator; this service only resolves names for
// display and validates foreign keys.
type Member struct {
	ID       uuid.UUID
	FullName string
	Email    string
}
