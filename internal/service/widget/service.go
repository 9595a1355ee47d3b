package widget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type termRepo interface {
	UpcomingStart(ctx context.Context, after time.Time) (*domain.Term, error)
}

type ledgerRepo interface {
	HasActiveRole(ctx context.Context, memberID uuid.UUID, roleTitles []string) (bool, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service gates and serves the countdown data. Reading the widget is
// restricted to the sitting President, the Past President, or a caller
// whose role carries the administrative override capability: operational
// visibility of an impending handoff belongs to current and adjacent
// incumbents, not all staff.
type Service struct {
	log    *slog.Logger
	calc   *Calculator
	terms  termRepo
	ledger ledgerRepo
	caps   domain.CapabilityResolver
	now    func() time.Time
}

// NewService creates a new Widget service.
func NewService(
	logger *slog.Logger,
	calc *Calculator,
	terms termRepo,
	ledger ledgerRepo,
	caps domain.CapabilityResolver,
) *Service {
	return &Service{
		log:    logger.With("service", "widget"),
		calc:   calc,
		terms:  terms,
		ledger: ledger,
		caps:   caps,
		now:    time.Now,
	}
}

// Countdown is the widget read result. When no future term exists on the
// calendar, NextTransition is nil and Visible is false.
type Countdown struct {
	NextTransition *domain.Term
	DaysRemaining  int
	Visible        bool
}

// Read returns the countdown for the authenticated caller. Fails Forbidden
// for callers who are neither incumbents nor override holders.
func (s *Service) Read(ctx context.Context) (*Countdown, error) {
	memberID, ok := ctxutil.MemberIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	allowed, err := s.callerMaySee(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("widget read: %w", domain.ErrForbidden)
	}

	now := s.now().UTC()
	next, err := s.terms.UpcomingStart(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("upcoming term: %w", err)
	}
	if next == nil {
		return &Countdown{}, nil
	}

	return &Countdown{
		NextTransition: next,
		DaysRemaining:  s.calc.DaysRemaining(now, next.StartsOn),
		Visible:        s.calc.IsVisible(now, next.StartsOn),
	}, nil
}

func (s *Service) callerMaySee(ctx context.Context, memberID uuid.UUID) (bool, error) {
	if role, ok := ctxutil.RoleFromCtx(ctx); ok {
		if s.caps.HasCapability(role, domain.CapAdminOverride) {
			return true, nil
		}
	}

	incumbent, err := s.ledger.HasActiveRole(ctx, memberID, []string{
		domain.RoleTitlePresident,
		domain.RoleTitlePastPresident,
	})
	if err != nil {
		return false, fmt.Errorf("incumbency check: %w", err)
	}

	return incumbent, nil
}
