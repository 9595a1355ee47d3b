//go:build e2e

package e2e_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/boardroom-backend/internal/domain"
)

// TestE2E_HealthEndpoints verifies the operational probes.
func TestE2E_HealthEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		status, body := ts.apiRequest(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, "ok", body["status"], path)
	}
}

// TestE2E_TransitionLifecycle drives a board handoff end to end: draft a
// plan, add incoming assignments, detect the sitting officers, submit,
// collect both approvals, and apply. Afterwards the ledger must show the
// incoming officers as active and the outgoing records as closed.
func TestE2E_TransitionLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	now := time.Now().UTC()
	term := ts.seedTerm(t, "2026-2027", now.AddDate(0, 0, 30))

	_, adminToken := ts.seedMember(t, "Admin", "admin")
	president, presToken := ts.seedMember(t, "Sitting President", "officer")
	vp, vpToken := ts.seedMember(t, "Sitting VP", "officer")
	newPresident, _ := ts.seedMember(t, "Incoming President", "member")
	newVP, _ := ts.seedMember(t, "Incoming VP", "member")

	presRecord := ts.seedOfficer(t, president.ID, "President", now.AddDate(-1, 0, 0))
	vpRecord := ts.seedOfficer(t, vp.ID, "VP Activities", now.AddDate(-1, 0, 0))

	// Draft.
	status, plan := ts.apiRequest(t, http.MethodPost, "/api/v1/transition-plans", map[string]any{
		"name":        "Annual handoff",
		"termId":      term.ID.String(),
		"effectiveAt": term.StartsOn.Format(time.RFC3339),
	}, adminToken)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "DRAFT", plan["status"])
	planID := plan["id"].(string)
	base := "/api/v1/transition-plans/" + planID

	// Incoming assignments.
	for _, a := range []struct {
		memberID string
		role     string
	}{
		{newPresident.ID.String(), "President"},
		{newVP.ID.String(), "VP Activities"},
	} {
		status, _ = ts.apiRequest(t, http.MethodPost, base+"/assignments", map[string]any{
			"direction": "INCOMING",
			"memberId":  a.memberID,
			"roleTitle": a.role,
			"scope":     map[string]any{},
		}, adminToken)
		require.Equal(t, http.StatusCreated, status)
	}

	// Detect sitting officers for the incoming roles.
	status, detected := ts.apiRequest(t, http.MethodPost, base+"/detect-outgoing", nil, adminToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, detected["assignments"], 2)

	// Detection is idempotent.
	status, detected = ts.apiRequest(t, http.MethodPost, base+"/detect-outgoing", nil, adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, detected["assignments"])

	// Submit for approval.
	status, plan = ts.apiRequest(t, http.MethodPost, base+"/submit", nil, adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PENDING_APPROVAL", plan["status"])

	// Applying before approval must fail.
	status, _ = ts.apiRequest(t, http.MethodPost, base+"/apply", nil, adminToken)
	assert.Equal(t, http.StatusConflict, status)

	// First approval keeps the plan pending.
	status, plan = ts.apiRequest(t, http.MethodPost, base+"/approve",
		map[string]string{"role": "president"}, presToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PENDING_APPROVAL", plan["status"])

	// The same role cannot approve twice, even via a different holder.
	status, _ = ts.apiRequest(t, http.MethodPost, base+"/approve",
		map[string]string{"role": "president"}, presToken)
	assert.Equal(t, http.StatusConflict, status)

	// A non-incumbent cannot approve for a role they do not hold.
	status, _ = ts.apiRequest(t, http.MethodPost, base+"/approve",
		map[string]string{"role": "vp-activities"}, presToken)
	assert.Equal(t, http.StatusForbidden, status)

	// Second approval completes the gate.
	status, plan = ts.apiRequest(t, http.MethodPost, base+"/approve",
		map[string]string{"role": "vp-activities"}, vpToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPROVED", plan["status"])

	// An approved plan is frozen.
	status, _ = ts.apiRequest(t, http.MethodPatch, base, map[string]any{"name": "late edit"}, adminToken)
	assert.Equal(t, http.StatusConflict, status)

	// Apply.
	status, applied := ts.apiRequest(t, http.MethodPost, base+"/apply", nil, adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPLIED", applied["status"])
	assert.EqualValues(t, 2, applied["recordsClosed"])
	assert.EqualValues(t, 2, applied["recordsCreated"])

	// Ledger: incoming officers are now the active holders.
	active, err := ts.Ledger.ActiveByRole(ctx, "President", domain.RoleScope{})
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, newPresident.ID, active.MemberID)
	require.NotNil(t, active.TransitionPlanID)
	assert.Equal(t, planID, active.TransitionPlanID.String())

	// Ledger: the previous records are closed at the effective date.
	closed, err := ts.Ledger.GetByID(ctx, presRecord.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndAt)
	assert.WithinDuration(t, term.StartsOn, *closed.EndAt, time.Second)

	closed, err = ts.Ledger.GetByID(ctx, vpRecord.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndAt)

	// Re-applying an applied plan fails.
	status, _ = ts.apiRequest(t, http.MethodPost, base+"/apply", nil, adminToken)
	assert.Equal(t, http.StatusConflict, status)
}

// TestE2E_Authorization verifies the capability gates on the REST surface.
func TestE2E_Authorization(t *testing.T) {
	ts := setupTestServer(t)

	_, memberToken := ts.seedMember(t, "Plain Member", "member")

	// No token: the list endpoint requires an authenticated role.
	status, _ := ts.apiRequest(t, http.MethodGet, "/api/v1/transition-plans", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	// A plain member may not manage plans.
	status, _ = ts.apiRequest(t, http.MethodPost, "/api/v1/transition-plans", map[string]any{
		"name": "not allowed",
	}, memberToken)
	assert.Equal(t, http.StatusForbidden, status)

	// A garbage token is rejected outright.
	status, _ = ts.apiRequest(t, http.MethodGet, "/api/v1/transition-plans", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
}

// TestE2E_Widget verifies the countdown gate: incumbents see it, others
// get Forbidden, admins override.
func TestE2E_Widget(t *testing.T) {
	ts := setupTestServer(t)

	now := time.Now().UTC()
	ts.seedTerm(t, "widget-term", now.AddDate(0, 0, 10))

	pastPresident, ppToken := ts.seedMember(t, "Past President", "officer")
	_, plainToken := ts.seedMember(t, "Regular Officer", "officer")
	_, adminToken := ts.seedMember(t, "Widget Admin", "admin")

	ts.seedOfficer(t, pastPresident.ID, "Past President", now.AddDate(-1, 0, 0))

	status, body := ts.apiRequest(t, http.MethodGet, "/api/v1/transition-widget", nil, ppToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["visible"])
	assert.NotNil(t, body["nextTransition"])

	status, _ = ts.apiRequest(t, http.MethodGet, "/api/v1/transition-widget", nil, plainToken)
	assert.Equal(t, http.StatusForbidden, status)

	// Admin override bypasses the incumbency check.
	status, _ = ts.apiRequest(t, http.MethodGet, "/api/v1/transition-widget", nil, adminToken)
	assert.Equal(t, http.StatusOK, status)
}
