package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// Submit moves a DRAFT plan to PENDING_APPROVAL. A plan with zero
// assignments cannot be submitted.
func (s *Service) Submit(ctx context.Context, planID uuid.UUID) (*domain.TransitionPlan, error) {
	return s.changeStatus(ctx, planID, "submit plan", domain.PlanStatusDraft, domain.PlanStatusPendingApproval, true)
}

// changeStatus performs a guarded from->to transition inside a transaction.
func (s *Service) changeStatus(ctx context.Context, planID uuid.UUID, op string, from, to domain.PlanStatus, requireAssignments bool) (*domain.TransitionPlan, error) {
	actorID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var updated *domain.TransitionPlan
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.plans.GetForUpdate(txCtx, planID)
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if plan.Status != from {
			return domain.NewInvalidStateError(op, plan.Status)
		}

		if requireAssignments {
			count, err := s.plans.CountAssignments(txCtx, planID)
			if err != nil {
				return fmt.Errorf("count assignments: %w", err)
			}
			if count == 0 {
				return domain.NewValidationError("assignments", "plan has no assignments")
			}
		}

		if err := s.flipStatus(txCtx, plan, to, actorID); err != nil {
			return err
		}

		plan.Status = to
		updated = plan
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "plan status changed",
		slog.String("plan_id", planID.String()),
		slog.String("status", updated.Status.String()),
		slog.String("actor_id", actorID.String()))

	return updated, nil
}

// flipStatus writes the guarded status update plus its audit entry. Must be
// called with the plan row already locked.
func (s *Service) flipStatus(ctx context.Context, plan *domain.TransitionPlan, to domain.PlanStatus, actorID uuid.UUID) error {
	if err := s.plans.UpdateStatus(ctx, plan.ID, plan.Status, to); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	auditErr := s.audit.Create(ctx, &domain.AuditRecord{
		ActorID:    actorID,
		EntityType: domain.EntityTypePlan,
		EntityID:   &plan.ID,
		Action:     domain.AuditActionStatusChange,
		Capability: domain.CapUsersManage,
		Changes:    map[string]any{"from": plan.Status, "to": to},
	})
	if auditErr != nil {
		return fmt.Errorf("audit status change: %w", auditErr)
	}

	return nil
}
