package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// Apply commits an APPROVED plan into the service-record ledger as a single
// serializable transaction: every outgoing assignment's active record gets
// its end date set to the plan's effective timestamp, every incoming
// assignment opens a new active record, and the plan flips to APPLIED.
//
// Any failure rolls back the whole rewrite; partial application is never an
// observable state. The operation is not idempotent: the APPROVED status is
// the single-use guard, and a caller retrying after an unclear outcome must
// re-read plan status first. Under a concurrent apply race exactly one
// caller wins; the loser gets an invalid-state or conflict error and causes
// no ledger mutation.
func (s *Service) Apply(ctx context.Context, planID uuid.UUID) (*ApplyResult, error) {
	actorID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var result ApplyResult
	txErr := s.tx.RunSerializable(ctx, func(txCtx context.Context) error {
		result = ApplyResult{}

		plan, err := s.plans.GetForUpdate(txCtx, planID)
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if plan.Status != domain.PlanStatusApproved {
			return domain.NewInvalidStateError("apply plan", plan.Status)
		}

		assignments, err := s.plans.ListAssignments(txCtx, planID)
		if err != nil {
			return fmt.Errorf("list assignments: %w", err)
		}

		for _, a := range assignments {
			if a.Direction != domain.DirectionOutgoing {
				continue
			}
			if err := s.closeOutgoing(txCtx, plan, a); err != nil {
				return err
			}
			result.RecordsClosed++
		}

		for _, a := range assignments {
			if a.Direction != domain.DirectionIncoming {
				continue
			}
			_, err := s.ledger.Create(txCtx, &domain.ServiceRecord{
				MemberID:         a.MemberID,
				Type:             a.Scope.ServiceType(),
				RoleTitle:        a.RoleTitle,
				Scope:            a.Scope,
				StartAt:          plan.EffectiveAt,
				TransitionPlanID: &planID,
			})
			if err != nil {
				return fmt.Errorf("open incoming record: %w", err)
			}
			result.RecordsCreated++
		}

		if err := s.plans.UpdateStatus(txCtx, planID, domain.PlanStatusApproved, domain.PlanStatusApplied); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		auditErr := s.audit.Create(txCtx, &domain.AuditRecord{
			ActorID:    actorID,
			EntityType: domain.EntityTypePlan,
			EntityID:   &planID,
			Action:     domain.AuditActionApply,
			Capability: domain.CapUsersManage,
			Changes: map[string]any{
				"from":            domain.PlanStatusApproved,
				"to":              domain.PlanStatusApplied,
				"records_closed":  result.RecordsClosed,
				"records_created": result.RecordsCreated,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit apply: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "plan applied",
		slog.String("plan_id", planID.String()),
		slog.String("actor_id", actorID.String()),
		slog.Int("records_closed", result.RecordsClosed),
		slog.Int("records_created", result.RecordsCreated))

	return &result, nil
}

// closeOutgoing resolves and closes the active record an outgoing
// assignment points at. A missing or already closed record means the ledger
// and the plan have diverged since detection; the whole apply must abort.
func (s *Service) closeOutgoing(ctx context.Context, plan *domain.TransitionPlan, a domain.TransitionAssignment) error {
	var record *domain.ServiceRecord
	var err error

	if a.ServiceRecordID != nil {
		record, err = s.ledger.GetByID(ctx, *a.ServiceRecordID)
		if err != nil {
			return fmt.Errorf("get outgoing record: %w", err)
		}
		if !record.IsActive() {
			return fmt.Errorf("record %s already closed: %w", record.ID, domain.ErrConflict)
		}
	} else {
		record, err = s.ledger.ActiveByMemberRole(ctx, a.MemberID, a.RoleTitle, a.Scope)
		if err != nil {
			return fmt.Errorf("lookup outgoing record: %w", err)
		}
		if record == nil {
			return fmt.Errorf("no active record for member %s role %q: %w", a.MemberID, a.RoleTitle, domain.ErrConflict)
		}
	}

	closed, err := s.ledger.Close(ctx, record.ID, plan.EffectiveAt)
	if err != nil {
		return fmt.Errorf("close outgoing record: %w", err)
	}
	if !closed {
		return fmt.Errorf("record %s already closed: %w", record.ID, domain.ErrConflict)
	}

	return nil
}
