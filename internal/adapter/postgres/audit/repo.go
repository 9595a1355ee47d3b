// Package audit implements the audit log repository using PostgreSQL.
// Records are append-only; nothing in the service updates or deletes them.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/clubops/boardroom-backend/internal/adapter/postgres"
	"github.com/clubops/boardroom-backend/internal/domain"
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO audit_log (actor_id, entity_type, entity_id, action, capability, changes)
VALUES ($1, $2, $3, $4, $5, $6)`

const listByEntitySQL = `
SELECT id, actor_id, entity_type, entity_id, action, capability, changes, created_at
FROM audit_log
WHERE entity_type = $1 AND entity_id = $2
ORDER BY created_at`

// Create appends an audit record. Changes are stored as JSONB.
func (r *Repo) Create(ctx context.Context, rec *domain.AuditRecord) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	changes, err := json.Marshal(rec.Changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}

	_, err = q.Exec(ctx, createSQL,
		rec.ActorID,
		rec.EntityType,
		postgres.PtrToUUID(rec.EntityID),
		rec.Action,
		rec.Capability,
		changes,
	)
	if err != nil {
		return fmt.Errorf("create audit record: %w", err)
	}

	return nil
}

// ListByEntity returns the audit trail for one entity in recording order.
func (r *Repo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID) ([]domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByEntitySQL, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	result := []domain.AuditRecord{}
	for rows.Next() {
		var (
			rec      domain.AuditRecord
			entityID pgtype.UUID
			changes  []byte
		)
		err := rows.Scan(
			&rec.ID,
			&rec.ActorID,
			&rec.EntityType,
			&entityID,
			&rec.Action,
			&rec.Capability,
			&changes,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list audit records: %w", err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &rec.Changes); err != nil {
				return nil, fmt.Errorf("unmarshal audit changes: %w", err)
			}
		}
		rec.EntityID = postgres.UUIDToPtr(entityID)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}

	return result, nil
}
