package transition

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// UpdatePlan applies a partial update to a DRAFT plan.
func (s *Service) UpdatePlan(ctx context.Context, planID uuid.UUID, input UpdatePlanInput) (*domain.TransitionPlan, error) {
	actorID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.IsEmpty() {
		return nil, domain.NewValidationError("body", "no fields to update")
	}

	if input.TermID != nil {
		if _, err := s.terms.GetByID(ctx, *input.TermID); err != nil {
			return nil, fmt.Errorf("get term: %w", err)
		}
	}

	var updated *domain.TransitionPlan
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.plans.GetForUpdate(txCtx, planID)
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if !plan.IsMutable() {
			return domain.NewInvalidStateError("update plan", plan.Status)
		}

		changes := map[string]any{}
		if input.Name != nil {
			changes["name"] = *input.Name
			plan.Name = *input.Name
		}
		if input.Description != nil {
			changes["description"] = *input.Description
			plan.Description = input.Description
		}
		if input.TermID != nil {
			changes["term_id"] = *input.TermID
			plan.TermID = *input.TermID
		}
		if input.EffectiveAt != nil {
			changes["effective_at"] = *input.EffectiveAt
			plan.EffectiveAt = *input.EffectiveAt
		}

		updated, err = s.plans.Update(txCtx, plan)
		if err != nil {
			return fmt.Errorf("update plan: %w", err)
		}

		auditErr := s.audit.Create(txCtx, &domain.AuditRecord{
			ActorID:    actorID,
			EntityType: domain.EntityTypePlan,
			EntityID:   &updated.ID,
			Action:     domain.AuditActionUpdate,
			Capability: domain.CapUsersManage,
			Changes:    changes,
		})
		if auditErr != nil {
			return fmt.Errorf("audit update: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return updated, nil
}
