package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// DeletePlan removes a DRAFT or CANCELLED plan together with its
// assignments and approvals.
func (s *Service) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	actorID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.plans.GetForUpdate(txCtx, planID)
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if !plan.IsDeletable() {
			return domain.NewInvalidStateError("delete plan", plan.Status)
		}

		if err := s.plans.Delete(txCtx, planID); err != nil {
			return fmt.Errorf("delete plan: %w", err)
		}

		auditErr := s.audit.Create(txCtx, &domain.AuditRecord{
			ActorID:    actorID,
			EntityType: domain.EntityTypePlan,
			EntityID:   &planID,
			Action:     domain.AuditActionDelete,
			Capability: domain.CapUsersManage,
			Changes:    map[string]any{"name": plan.Name, "status": plan.Status},
		})
		if auditErr != nil {
			return fmt.Errorf("audit delete: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.log.InfoContext(ctx, "plan deleted",
		slog.String("plan_id", planID.String()),
		slog.String("actor_id", actorID.String()))

	return nil
}
