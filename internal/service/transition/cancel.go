package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// Cancel moves a DRAFT or PENDING_APPROVAL plan to CANCELLED. An APPLIED
// plan can never be cancelled since the ledger has already been rewritten.
func (s *Service) Cancel(ctx context.Context, planID uuid.UUID) (*domain.TransitionPlan, error) {
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
		if !plan.Status.CanTransitionTo(domain.PlanStatusCancelled) {
			return domain.NewInvalidStateError("cancel plan", plan.Status)
		}

		if err := s.flipStatus(txCtx, plan, domain.PlanStatusCancelled, actorID); err != nil {
			return err
		}

		plan.Status = domain.PlanStatusCancelled
		updated = plan
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "plan cancelled",
		slog.String("plan_id", planID.String()),
		slog.String("actor_id", actorID.String()))

	return updated, nil
}
