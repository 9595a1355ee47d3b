package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Conversion helpers between domain pointer fields and pgtype nullables.
// Shared by the entity repositories.

// PtrToText converts a *string to pgtype.Text (nil -> NULL).
func PtrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// TextToPtr converts a pgtype.Text to *string (NULL -> nil).
func TextToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// PtrToUUID converts a *uuid.UUID to pgtype.UUID (nil -> NULL).
func PtrToUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// UUIDToPtr converts a pgtype.UUID to *uuid.UUID (NULL -> nil).
func UUIDToPtr(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

// PtrToTimestamptz converts a *time.Time to pgtype.Timestamptz (nil -> NULL).
func PtrToTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// TimestamptzToPtr converts a pgtype.Timestamptz to *time.Time (NULL -> nil).
func TimestamptzToPtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	tt := t.Time
	return &tt
}
