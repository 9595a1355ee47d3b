package widget

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockTermRepo struct {
	UpcomingStartFunc func(ctx context.Context, after time.Time) (*domain.Term, error)
}

func (m *mockTermRepo) UpcomingStart(ctx context.Context, after time.Time) (*domain.Term, error) {
	if m.UpcomingStartFunc != nil {
		return m.UpcomingStartFunc(ctx, after)
	}
	return nil, nil
}

type mockLedgerRepo struct {
	HasActiveRoleFunc func(ctx context.Context, memberID uuid.UUID, roleTitles []string) (bool, error)
}

func (m *mockLedgerRepo) HasActiveRole(ctx context.Context, memberID uuid.UUID, roleTitles []string) (bool, error) {
	if m.HasActiveRoleFunc != nil {
		return m.HasActiveRoleFunc(ctx, memberID, roleTitles)
	}
	return false, nil
}

type mockCapResolver struct {
	grants map[string][]domain.Capability
}

func (m *mockCapResolver) HasCapability(role string, cap domain.Capability) bool {
	for _, c := range m.grants[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// ===========================================================================
// Helpers
// ===========================================================================

func newTestService(terms *mockTermRepo, ledger *mockLedgerRepo, caps *mockCapResolver, now time.Time) *Service {
	if caps == nil {
		caps = &mockCapResolver{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, NewCalculator(60), terms, ledger, caps)
	svc.now = func() time.Time { return now }
	return svc
}

func presidentLedger(president uuid.UUID) *mockLedgerRepo {
	return &mockLedgerRepo{
		HasActiveRoleFunc: func(ctx context.Context, memberID uuid.UUID, roleTitles []string) (bool, error) {
			return memberID == president, nil
		},
	}
}

// ===========================================================================
// Read
// ===========================================================================

func TestRead_Incumbent(t *testing.T) {
	president := uuid.New()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	termStart := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	terms := &mockTermRepo{
		UpcomingStartFunc: func(ctx context.Context, after time.Time) (*domain.Term, error) {
			return &domain.Term{ID: uuid.New(), Name: "2025-2026", StartsOn: termStart}, nil
		},
	}
	svc := newTestService(terms, presidentLedger(president), nil, now)

	ctx := ctxutil.WithMemberID(context.Background(), president)
	countdown, err := svc.Read(ctx)
	require.NoError(t, err)

	require.NotNil(t, countdown.NextTransition)
	assert.Equal(t, 30, countdown.DaysRemaining)
	assert.True(t, countdown.Visible)
}

func TestRead_OutsideLeadWindow(t *testing.T) {
	president := uuid.New()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	termStart := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	terms := &mockTermRepo{
		UpcomingStartFunc: func(ctx context.Context, after time.Time) (*domain.Term, error) {
			return &domain.Term{ID: uuid.New(), Name: "2025-2026", StartsOn: termStart}, nil
		},
	}
	svc := newTestService(terms, presidentLedger(president), nil, now)

	ctx := ctxutil.WithMemberID(context.Background(), president)
	countdown, err := svc.Read(ctx)
	require.NoError(t, err)

	assert.False(t, countdown.Visible)
	assert.Equal(t, 181, countdown.DaysRemaining)
}

func TestRead_NonIncumbentForbidden(t *testing.T) {
	svc := newTestService(&mockTermRepo{}, &mockLedgerRepo{}, nil, time.Now())

	ctx := ctxutil.WithMemberID(context.Background(), uuid.New())
	_, err := svc.Read(ctx)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRead_AdminOverride(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	terms := &mockTermRepo{
		UpcomingStartFunc: func(ctx context.Context, after time.Time) (*domain.Term, error) {
			return &domain.Term{ID: uuid.New(), StartsOn: now.Add(10 * 24 * time.Hour)}, nil
		},
	}
	caps := &mockCapResolver{grants: map[string][]domain.Capability{
		"admin": {domain.CapAdminOverride},
	}}
	svc := newTestService(terms, &mockLedgerRepo{}, caps, now)

	ctx := ctxutil.WithMemberID(context.Background(), uuid.New())
	ctx = ctxutil.WithRole(ctx, "admin")

	countdown, err := svc.Read(ctx)
	require.NoError(t, err)
	assert.True(t, countdown.Visible)
}

func TestRead_NoFutureTerm(t *testing.T) {
	president := uuid.New()
	svc := newTestService(&mockTermRepo{}, presidentLedger(president), nil, time.Now())

	ctx := ctxutil.WithMemberID(context.Background(), president)
	countdown, err := svc.Read(ctx)
	require.NoError(t, err)

	assert.Nil(t, countdown.NextTransition)
	assert.False(t, countdown.Visible)
	assert.Zero(t, countdown.DaysRemaining)
}

func TestRead_Unauthenticated(t *testing.T) {
	svc := newTestService(&mockTermRepo{}, &mockLedgerRepo{}, nil, time.Now())

	_, err := svc.Read(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
