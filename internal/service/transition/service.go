// Package transition implements the transition plan workflow: plan CRUD,
// the submit/cancel/apply state machine, outgoing-assignment detection, and
// the atomic apply that rewrites the service-record ledger.
package transition

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type planRepo interface {
	Create(ctx context.Context, p *domain.TransitionPlan) (*domain.TransitionPlan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TransitionPlan, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.TransitionPlan, error)
	List(ctx context.Context, f domain.PlanFilter) (*domain.PlanPage, error)
	Update(ctx context.Context, p *domain.TransitionPlan) (*domain.TransitionPlan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.PlanStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddAssignment(ctx context.Context, a *domain.TransitionAssignment) (*domain.TransitionAssignment, error)
	RemoveAssignment(ctx context.Context, planID, assignmentID uuid.UUID) error
	ListAssignments(ctx context.Context, planID uuid.UUID) ([]domain.TransitionAssignment, error)
	CountAssignments(ctx context.Context, planID uuid.UUID) (int, error)
}

type ledgerRepo interface {
	Create(ctx context.Context, rec *domain.ServiceRecord) (*domain.ServiceRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRecord, error)
	ActiveByRole(ctx context.Context, roleTitle string, scope domain.RoleScope) (*domain.ServiceRecord, error)
	ActiveByMemberRole(ctx context.Context, memberID uuid.UUID, roleTitle string, scope domain.RoleScope) (*domain.ServiceRecord, error)
	Close(ctx context.Context, id uuid.UUID, endAt time.Time) (bool, error)
}

type termRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)
}

type memberRepo interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type auditRepo interface {
	Create(ctx context.Context, rec *domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the transition plan business logic.
type Service struct {
	log     *slog.Logger
	plans   planRepo
	ledger  ledgerRepo
	terms   termRepo
	members memberRepo
	audit   auditRepo
	tx      txManager
}

// NewService creates a new Transition service.
func NewService(
	logger *slog.Logger,
	plans planRepo,
	ledger ledgerRepo,
	terms termRepo,
	members memberRepo,
	audit auditRepo,
	tx txManager,
) *Service {
	return &Service{
		log:     logger.With("service", "transition"),
		plans:   plans,
		ledger:  ledger,
		terms:   terms,
		members: members,
		audit:   audit,
		tx:      tx,
	}
}

// ListPlans returns a page of plans matching the filter.
func (s *Service) ListPlans(ctx context.Context, f domain.PlanFilter) (*domain.PlanPage, error) {
	return s.plans.List(ctx, f)
}

// GetPlan returns a plan with its assignments and approvals loaded.
func (s *Service) GetPlan(ctx context.Context, planID uuid.UUID) (*domain.TransitionPlan, error) {
	return s.plans.GetByID(ctx, planID)
}
