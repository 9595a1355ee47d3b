// Package approval implements the dual-control approval gate. A plan in
// PENDING_APPROVAL needs sign-off from both the sitting President and the
// sitting VP Activities, strict two-of-two by distinct role. Eligibility is
// always checked against the live service-record ledger, never cached,
// since officers rotate independently of any transition plan.
package approval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type planRepo interface {
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.TransitionPlan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.PlanStatus) error
}

type approvalRepo interface {
	Create(ctx context.Context, a *domain.Approval) (*domain.Approval, error)
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.Approval, error)
}

type ledgerRepo interface {
	ActiveByMemberRole(ctx context.Context, memberID uuid.UUID, roleTitle string, scope domain.RoleScope) (*domain.ServiceRecord, error)
}

type auditRepo interface {
	Create(ctx context.Context, rec *domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the approval gate business logic.
type Service struct {
	log       *slog.Logger
	plans     planRepo
	approvals approvalRepo
	ledger    ledgerRepo
	audit     auditRepo
	tx        txManager
}

// NewService creates a new Approval service.
func NewService(
	logger *slog.Logger,
	plans planRepo,
	approvals approvalRepo,
	ledger ledgerRepo,
	audit auditRepo,
	tx txManager,
) *Service {
	return &Service{
		log:       logger.With("service", "approval"),
		plans:     plans,
		approvals: approvals,
		ledger:    ledger,
		audit:     audit,
		tx:        tx,
	}
}

// CanApprove reports whether the member currently holds the governance
// position named by role, per an active service record in the ledger.
func (s *Service) CanApprove(ctx context.Context, memberID uuid.UUID, role domain.ApproverRole) (bool, error) {
	if !role.IsValid() {
		return false, domain.NewValidationError("role", "must be president or vp-activities")
	}

	record, err := s.ledger.ActiveByMemberRole(ctx, memberID, role.RoleTitle(), domain.RoleScope{})
	if err != nil {
		return false, fmt.Errorf("lookup active record: %w", err)
	}

	return record != nil, nil
}

// RecordApprovalResult is the outcome of recording one approval.
type RecordApprovalResult struct {
	Plan      *domain.TransitionPlan
	Approvals []domain.Approval
}

// RecordApproval records an approval for one governance role on a plan in
// PENDING_APPROVAL. When both required roles have approved, the plan flips
// to APPROVED in the same transaction, so the flip happens exactly once no
// matter how the two approvers' requests interleave.
//
// Eligibility is checked against the live ledger inside the transaction,
// after the plan row is locked; a holder removed between fetching the form
// and submitting it cannot approve.
func (s *Service) RecordApproval(ctx context.Context, planID uuid.UUID, role domain.ApproverRole) (*RecordApprovalResult, error) {
	memberID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var result RecordApprovalResult
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.plans.GetForUpdate(txCtx, planID)
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if plan.Status != domain.PlanStatusPendingApproval {
			return domain.NewInvalidStateError("approve plan", plan.Status)
		}

		eligible, err := s.CanApprove(txCtx, memberID, role)
		if err != nil {
			return err
		}
		if !eligible {
			return fmt.Errorf("member does not hold %s: %w", role.RoleTitle(), domain.ErrForbidden)
		}

		existing, err := s.approvals.ListByPlan(txCtx, planID)
		if err != nil {
			return fmt.Errorf("list approvals: %w", err)
		}
		for _, a := range existing {
			if a.Role == role {
				return fmt.Errorf("role %s already approved: %w", role, domain.ErrConflict)
			}
		}

		created, err := s.approvals.Create(txCtx, &domain.Approval{
			PlanID:   planID,
			Role:     role,
			MemberID: memberID,
		})
		if err != nil {
			return fmt.Errorf("record approval: %w", err)
		}

		approvals := append(existing, *created)
		if domain.ApprovalsComplete(approvals) {
			if err := s.plans.UpdateStatus(txCtx, planID, domain.PlanStatusPendingApproval, domain.PlanStatusApproved); err != nil {
				return fmt.Errorf("update status: %w", err)
			}
			plan.Status = domain.PlanStatusApproved
		}

		auditErr := s.audit.Create(txCtx, &domain.AuditRecord{
			ActorID:    memberID,
			EntityType: domain.EntityTypeApproval,
			EntityID:   &created.ID,
			Action:     domain.AuditActionCreate,
			Capability: domain.CapTransitionsView,
			Changes: map[string]any{
				"plan_id": planID,
				"role":    role,
				"status":  plan.Status,
			},
		})
		if auditErr != nil {
			return fmt.Errorf("audit approval: %w", auditErr)
		}

		plan.Approvals = approvals
		result = RecordApprovalResult{Plan: plan, Approvals: approvals}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "approval recorded",
		slog.String("plan_id", planID.String()),
		slog.String("role", role.String()),
		slog.String("status", result.Plan.Status.String()))

	return &result, nil
}
