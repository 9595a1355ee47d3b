package transition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// DetectOutgoing materializes outgoing assignments for a DRAFT plan: for
// each incoming assignment it looks up the active service record holding
// the same role and scope and, if a holder exists and no matching outgoing
// assignment is present yet, creates one referencing that holder's record.
//
// Detection is idempotent. Duplicate suppression is by (member, role,
// scope) within the plan, so a second run creates nothing new.
func (s *Service) DetectOutgoing(ctx context.Context, planID uuid.UUID) ([]domain.TransitionAssignment, error) {
	actorID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var created []domain.TransitionAssignment
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created = created[:0]

		plan, err := s.plans.GetForUpdate(txCtx, planID)
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if plan.Status != domain.PlanStatusDraft {
			return domain.NewInvalidStateError("detect outgoing", plan.Status)
		}

		assignments, err := s.plans.ListAssignments(txCtx, planID)
		if err != nil {
			return fmt.Errorf("list assignments: %w", err)
		}

		existing := make(map[string]bool)
		for _, a := range assignments {
			if a.Direction == domain.DirectionOutgoing {
				existing[slotKey(a.MemberID, a.RoleTitle, a.Scope)] = true
			}
		}

		for _, a := range assignments {
			if a.Direction != domain.DirectionIncoming {
				continue
			}

			holder, err := s.ledger.ActiveByRole(txCtx, a.RoleTitle, a.Scope)
			if err != nil {
				return fmt.Errorf("lookup active record: %w", err)
			}
			if holder == nil {
				// Vacant role: nothing to hand off.
				continue
			}

			key := slotKey(holder.MemberID, a.RoleTitle, a.Scope)
			if existing[key] {
				continue
			}

			outgoing, err := s.plans.AddAssignment(txCtx, &domain.TransitionAssignment{
				PlanID:          planID,
				Direction:       domain.DirectionOutgoing,
				MemberID:        holder.MemberID,
				RoleTitle:       a.RoleTitle,
				Scope:           a.Scope,
				ServiceRecordID: &holder.ID,
			})
			if err != nil {
				return fmt.Errorf("add outgoing assignment: %w", err)
			}

			existing[key] = true
			created = append(created, *outgoing)
		}

		if len(created) > 0 {
			auditErr := s.audit.Create(txCtx, &domain.AuditRecord{
				ActorID:    actorID,
				EntityType: domain.EntityTypePlan,
				EntityID:   &planID,
				Action:     domain.AuditActionUpdate,
				Capability: domain.CapUsersManage,
				Changes:    map[string]any{"detected_outgoing": len(created)},
			})
			if auditErr != nil {
				return fmt.Errorf("audit detect: %w", auditErr)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "outgoing assignments detected",
		slog.String("plan_id", planID.String()),
		slog.Int("created", len(created)))

	if created == nil {
		created = []domain.TransitionAssignment{}
	}
	return created, nil
}

// slotKey identifies a (member, role, scope) slot within one plan.
func slotKey(memberID uuid.UUID, roleTitle string, scope domain.RoleScope) string {
	k := memberID.String() + "|" + roleTitle
	if scope.CommitteeID != nil {
		k += "|c:" + scope.CommitteeID.String()
	}
	if scope.EventID != nil {
		k += "|e:" + scope.EventID.String()
	}
	if scope.TermID != nil {
		k += "|t:" + scope.TermID.String()
	}
	return k
}
