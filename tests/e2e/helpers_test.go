//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/clubops/boardroom-backend/internal/adapter/postgres"
	approvalrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/approval"
	auditrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/audit"
	ledgerrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/ledger"
	memberrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/member"
	planrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/plan"
	termrepo "github.com/clubops/boardroom-backend/internal/adapter/postgres/term"
	"github.com/clubops/boardroom-backend/internal/adapter/postgres/testhelper"
	authpkg "github.com/clubops/boardroom-backend/internal/auth"
	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/internal/policy"
	approvalsvc "github.com/clubops/boardroom-backend/internal/service/approval"
	"github.com/clubops/boardroom-backend/internal/service/transition"
	"github.com/clubops/boardroom-backend/internal/service/widget"
	"github.com/clubops/boardroom-backend/internal/transport/middleware"
	"github.com/clubops/boardroom-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool

	Members *memberrepo.Repo
	Terms   *termrepo.Repo
	Ledger  *ledgerrepo.Repo

	jwt *authpkg.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	plans := planrepo.New(pool)
	approvals := approvalrepo.New(pool)
	ledger := ledgerrepo.New(pool)
	terms := termrepo.New(pool)
	members := memberrepo.New(pool)
	audit := auditrepo.New(pool)

	caps := policy.NewTable(nil) // default table: admin, officer, member

	transitionSvc := transition.NewService(logger, plans, ledger, terms, members, audit, txm)
	approvalSvc := approvalsvc.NewService(logger, plans, approvals, ledger, audit, txm)
	widgetSvc := widget.NewService(logger, widget.NewCalculator(60), terms, ledger, caps)

	jwtMgr := authpkg.NewJWTManager("test-secret-at-least-32-chars-long!!", "test-issuer")

	router := rest.NewRouter(rest.RouterDeps{
		Plans:  rest.NewPlanHandler(transitionSvc, approvalSvc, logger),
		Widget: rest.NewWidgetHandler(widgetSvc, logger),
		Health: rest.NewHealthHandler(pool, "test-version"),
		Caps:   caps,
		Base: middleware.Chain(
			middleware.RequestID,
			middleware.Recovery(logger),
			middleware.Auth(jwtMgr),
		),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:     srv.URL,
		Client:  srv.Client(),
		Pool:    pool,
		Members: members,
		Terms:   terms,
		Ledger:  ledger,
		jwt:     jwtMgr,
	}
}

// ---------------------------------------------------------------------------
// Seed helpers.
// ---------------------------------------------------------------------------

// seedMember creates a member and returns it with a bearer token for the
// given organizational role.
func (ts *testServer) seedMember(t *testing.T, name, role string) (*domain.Member, string) {
	t.Helper()

	m, err := ts.Members.Create(context.Background(), &domain.Member{
		ID:       uuid.New(),
		FullName: name,
		Email:    uuid.NewString() + "@example.org",
	})
	require.NoError(t, err)

	token, err := ts.jwt.GenerateAccessToken(m.ID, role, 15*time.Minute)
	require.NoError(t, err)

	return m, token
}

// seedTerm creates a term starting at startsOn and lasting one year.
func (ts *testServer) seedTerm(t *testing.T, name string, startsOn time.Time) *domain.Term {
	t.Helper()

	term, err := ts.Terms.Create(context.Background(), &domain.Term{
		ID:       uuid.New(),
		Name:     name,
		StartsOn: startsOn,
		EndsOn:   startsOn.AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	return term
}

// seedOfficer opens an active officer service record for the member.
func (ts *testServer) seedOfficer(t *testing.T, memberID uuid.UUID, roleTitle string, since time.Time) *domain.ServiceRecord {
	t.Helper()

	rec, err := ts.Ledger.Create(context.Background(), &domain.ServiceRecord{
		ID:        uuid.New(),
		MemberID:  memberID,
		Type:      domain.ServiceTypeOfficer,
		RoleTitle: roleTitle,
		StartAt:   since,
	})
	require.NoError(t, err)
	return rec
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

// apiRequest sends a JSON request with an optional bearer token and returns
// the status code and the decoded body (nil when the body is empty).
func (ts *testServer) apiRequest(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		result = nil
	}
	return resp.StatusCode, result
}
