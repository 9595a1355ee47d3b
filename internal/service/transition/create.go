package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// CreatePlan creates a new plan in DRAFT with no assignments and no
// approvals.
func (s *Service) CreatePlan(ctx context.Context, input CreatePlanInput) (*domain.TransitionPlan, error) {
	actorID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	// The target term must exist before a plan can point at it.
	if _, err := s.terms.GetByID(ctx, input.TermID); err != nil {
		return nil, fmt.Errorf("get term: %w", err)
	}

	var created *domain.TransitionPlan
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan := &domain.TransitionPlan{
			Name:        input.Name,
			Description: input.Description,
			TermID:      input.TermID,
			EffectiveAt: input.EffectiveAt,
			Status:      domain.PlanStatusDraft,
			CreatedBy:   actorID,
		}

		var createErr error
		created, createErr = s.plans.Create(txCtx, plan)
		if createErr != nil {
			return fmt.Errorf("create plan: %w", createErr)
		}

		auditErr := s.audit.Create(txCtx, &domain.AuditRecord{
			ActorID:    actorID,
			EntityType: domain.EntityTypePlan,
			EntityID:   &created.ID,
			Action:     domain.AuditActionCreate,
			Capability: domain.CapUsersManage,
			Changes:    map[string]any{"name": created.Name, "term_id": created.TermID},
		})
		if auditErr != nil {
			return fmt.Errorf("audit create: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "plan created",
		slog.String("plan_id", created.ID.String()),
		slog.String("actor_id", actorID.String()))

	return created, nil
}
