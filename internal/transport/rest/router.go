package rest

import (
	"net/http"

	"github.com/clubops/boardroom-backend/internal/domain"
	"github.com/clubops/boardroom-backend/internal/transport/middleware"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Plans   *PlanHandler
	Widget  *WidgetHandler
	Health  *HealthHandler
	Metrics http.Handler

	Caps domain.CapabilityResolver
	Base middleware.Middleware
}

// NewRouter builds the HTTP mux. The base middleware chain (request id,
// logging, recovery, CORS, auth) wraps everything; capability requirements
// are applied per route group on top of it.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	view := middleware.RequireCapability(d.Caps, domain.CapTransitionsView)
	detail := middleware.RequireCapability(d.Caps, domain.CapMembersView)
	manage := middleware.RequireCapability(d.Caps, domain.CapUsersManage)

	// Plans.
	mux.Handle("GET /api/v1/transition-plans", view(http.HandlerFunc(d.Plans.List)))
	mux.Handle("POST /api/v1/transition-plans", manage(http.HandlerFunc(d.Plans.Create)))
	mux.Handle("GET /api/v1/transition-plans/{id}", detail(http.HandlerFunc(d.Plans.Get)))
	mux.Handle("PATCH /api/v1/transition-plans/{id}", manage(http.HandlerFunc(d.Plans.Update)))
	mux.Handle("DELETE /api/v1/transition-plans/{id}", manage(http.HandlerFunc(d.Plans.Delete)))

	// Assignments.
	mux.Handle("POST /api/v1/transition-plans/{id}/assignments", manage(http.HandlerFunc(d.Plans.AddAssignment)))
	mux.Handle("DELETE /api/v1/transition-plans/{id}/assignments/{assignmentId}", manage(http.HandlerFunc(d.Plans.RemoveAssignment)))
	mux.Handle("POST /api/v1/transition-plans/{id}/detect-outgoing", manage(http.HandlerFunc(d.Plans.Detect)))

	// Lifecycle. Approve needs only authentication; the approval service
	// checks incumbency against the live ledger.
	mux.Handle("POST /api/v1/transition-plans/{id}/submit", manage(http.HandlerFunc(d.Plans.Submit)))
	mux.Handle("POST /api/v1/transition-plans/{id}/cancel", manage(http.HandlerFunc(d.Plans.Cancel)))
	mux.Handle("POST /api/v1/transition-plans/{id}/approve", http.HandlerFunc(d.Plans.Approve))
	mux.Handle("POST /api/v1/transition-plans/{id}/apply", manage(http.HandlerFunc(d.Plans.Apply)))

	// Widget.
	mux.Handle("GET /api/v1/transition-widget", view(http.HandlerFunc(d.Widget.Read)))

	// Operational endpoints, outside the capability gates.
	mux.HandleFunc("GET /health", d.Health.Health)
	mux.HandleFunc("GET /health/live", d.Health.Live)
	mux.HandleFunc("GET /health/ready", d.Health.Ready)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	return d.Base(mux)
}
