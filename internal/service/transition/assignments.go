package transition

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// AddAssignment adds an assignment slot to a DRAFT plan.
func (s *Service) AddAssignment(ctx context.Context, planID uuid.UUID, input AddAssignmentInput) (*domain.TransitionAssignment, error) {
	actorID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.members.Exists(ctx, input.MemberID)
	if err != nil {
		return nil, fmt.Errorf("check member: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("member %s: %w", input.MemberID, domain.ErrNotFound)
	}

	var created *domain.TransitionAssignment
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.plans.GetForUpdate(txCtx, planID)
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if !plan.IsMutable() {
			return domain.NewInvalidStateError("add assignment", plan.Status)
		}

		assignment := &domain.TransitionAssignment{
			PlanID:    planID,
			Direction: input.Direction,
			MemberID:  input.MemberID,
			RoleTitle: input.RoleTitle,
			Scope:     input.Scope,
		}

		created, err = s.plans.AddAssignment(txCtx, assignment)
		if err != nil {
			return fmt.Errorf("add assignment: %w", err)
		}

		auditErr := s.audit.Create(txCtx, &domain.AuditRecord{
			ActorID:    actorID,
			EntityType: domain.EntityTypeAssignment,
			EntityID:   &created.ID,
			Action:     domain.AuditActionCreate,
			Capability: domain.CapUsersManage,
			Changes: map[string]any{
				"plan_id":    planID,
				"direction":  created.Direction,
				"member_id":  created.MemberID,
				"role_title": created.RoleTitle,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit add assignment: %w", auditErr)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return created, nil
}

// RemoveAssignment removes an assignment slot from a DRAFT plan.
func (s *Service) RemoveAssignment(ctx context.Context, planID, assignmentID uuid.UUID) error {
	actorID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.plans.GetForUpdate(txCtx, planID)
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if !plan.IsMutable() {
			return domain.NewInvalidStateError("remove assignment", plan.Status)
		}

		if err := s.plans.RemoveAssignment(txCtx, planID, assignmentID); err != nil {
			return fmt.Errorf("remove assignment: %w", err)
		}

		auditErr := s.audit.Create(txCtx, &domain.AuditRecord{
			ActorID:    actorID,
			EntityType: domain.EntityTypeAssignment,
			EntityID:   &assignmentID,
			Action:     domain.AuditActionDelete,
			Capability: domain.CapUsersManage,
			Changes:    map[string]any{"plan_id": planID},
		})
		if auditErr != nil {
			return fmt.Errorf("audit remove assignment: %w", auditErr)
		}

		return nil
	})
}
