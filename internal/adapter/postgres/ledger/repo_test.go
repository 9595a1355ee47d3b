package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubops/boardroom-backend/internal/adapter/postgres/ledger"
	memberrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/member"
	"github.com/clubops/boardroom-backend/internal/adapter/postgres/testhelper"
	"github.com/clubops/boardroom-backend/internal/domain"
)

func newRepo(t *testing.T) (*ledger.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return ledger.New(pool), pool
}

func seedMember(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	m, err := memberrepo.New(pool).Create(context.Background(), &domain.Member{
		ID:       uuid.New(),
		FullName: "Ledger Member",
		Email:    uuid.NewString() + "@example.org",
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m.ID
}

// uniqueTitle avoids cross-test interference on global role queries: the
// container DB is shared across the package's tests.
func uniqueTitle(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func TestRepo_CreateAndGet(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	memberID := seedMember(t, pool)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, &domain.ServiceRecord{
		ID:        uuid.New(),
		MemberID:  memberID,
		Type:      domain.ServiceTypeOfficer,
		RoleTitle: uniqueTitle("Treasurer"),
		StartAt:   start,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.IsActive() {
		t.Error("Create: new record should be active")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.MemberID != memberID {
		t.Errorf("GetByID: member = %s, want %s", got.MemberID, memberID)
	}
	if !got.StartAt.Equal(start) {
		t.Errorf("GetByID: start = %v, want %v", got.StartAt, start)
	}
}

func TestRepo_Close_OnlyOnce(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	memberID := seedMember(t, pool)

	created, err := repo.Create(ctx, &domain.ServiceRecord{
		ID:        uuid.New(),
		MemberID:  memberID,
		Type:      domain.ServiceTypeOfficer,
		RoleTitle: uniqueTitle("Secretary"),
		StartAt:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	endAt := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	closed, err := repo.Close(ctx, created.ID, endAt)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closed {
		t.Fatal("Close: expected the active record to close")
	}

	// A closed record cannot close again.
	closed, err = repo.Close(ctx, created.ID, endAt)
	if err != nil {
		t.Fatalf("Close twice: %v", err)
	}
	if closed {
		t.Fatal("Close twice: expected false")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.EndAt == nil || !got.EndAt.Equal(endAt) {
		t.Errorf("GetByID: end = %v, want %v", got.EndAt, endAt)
	}
}

func TestRepo_ActiveByRole(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	title := uniqueTitle("President")

	holder := seedMember(t, pool)
	rec, err := repo.Create(ctx, &domain.ServiceRecord{
		ID:        uuid.New(),
		MemberID:  holder,
		Type:      domain.ServiceTypeOfficer,
		RoleTitle: title,
		StartAt:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ActiveByRole(ctx, title, domain.RoleScope{})
	if err != nil {
		t.Fatalf("ActiveByRole: %v", err)
	}
	if got == nil || got.ID != rec.ID {
		t.Fatalf("ActiveByRole: got %+v, want record %s", got, rec.ID)
	}

	// A vacant role resolves to nil without error.
	got, err = repo.ActiveByRole(ctx, uniqueTitle("Vacant"), domain.RoleScope{})
	if err != nil {
		t.Fatalf("ActiveByRole vacant: %v", err)
	}
	if got != nil {
		t.Fatalf("ActiveByRole vacant: expected nil, got %+v", got)
	}

	// Once closed, the role is vacant again.
	if _, err := repo.Close(ctx, rec.ID, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, err = repo.ActiveByRole(ctx, title, domain.RoleScope{})
	if err != nil {
		t.Fatalf("ActiveByRole after close: %v", err)
	}
	if got != nil {
		t.Fatalf("ActiveByRole after close: expected nil, got %+v", got)
	}
}

func TestRepo_ActiveByRole_ScopeMatters(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	title := uniqueTitle("Chair")
	memberID := seedMember(t, pool)

	committee := uuid.New()
	_, err := repo.Create(ctx, &domain.ServiceRecord{
		ID:        uuid.New(),
		MemberID:  memberID,
		Type:      domain.ServiceTypeCommittee,
		RoleTitle: title,
		Scope:     domain.RoleScope{CommitteeID: &committee},
		StartAt:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ActiveByRole(ctx, title, domain.RoleScope{CommitteeID: &committee})
	if err != nil {
		t.Fatalf("ActiveByRole scoped: %v", err)
	}
	if got == nil {
		t.Fatal("ActiveByRole scoped: expected a record")
	}

	other := uuid.New()
	got, err = repo.ActiveByRole(ctx, title, domain.RoleScope{CommitteeID: &other})
	if err != nil {
		t.Fatalf("ActiveByRole other scope: %v", err)
	}
	if got != nil {
		t.Fatalf("ActiveByRole other scope: expected nil, got %+v", got)
	}
}

func TestRepo_HasActiveRole(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	title := uniqueTitle("Past President")
	memberID := seedMember(t, pool)

	_, err := repo.Create(ctx, &domain.ServiceRecord{
		ID:        uuid.New(),
		MemberID:  memberID,
		Type:      domain.ServiceTypeOfficer,
		RoleTitle: title,
		StartAt:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	has, err := repo.HasActiveRole(ctx, memberID, []string{title, "Never Held"})
	if err != nil {
		t.Fatalf("HasActiveRole: %v", err)
	}
	if !has {
		t.Error("HasActiveRole: expected true for active holder")
	}

	has, err = repo.HasActiveRole(ctx, memberID, []string{"Never Held"})
	if err != nil {
		t.Fatalf("HasActiveRole: %v", err)
	}
	if has {
		t.Error("HasActiveRole: expected false for roles not held")
	}
}
