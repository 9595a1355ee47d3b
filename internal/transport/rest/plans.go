package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	approvalsvc "github.com/clubops/boardroom-backend/internal/service/approval"
	"github.com/clubops/boardroom-backend/internal/service/transition"
)

// transitionService defines the minimal interface needed by PlanHandler.
type transitionService interface {
	ListPlans(ctx context.Context, f domain.PlanFilter) (*domain.PlanPage, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*domain.TransitionPlan, error)
	CreatePlan(ctx context.Context, input transition.CreatePlanInput) (*domain.TransitionPlan, error)
	UpdatePlan(ctx context.Context, planID uuid.UUID, input transition.UpdatePlanInput) (*domain.TransitionPlan, error)
	DeletePlan(ctx context.Context, planID uuid.UUID) error
	AddAssignment(ctx context.Context, planID uuid.UUID, input transition.AddAssignmentInput) (*domain.TransitionAssignment, error)
	RemoveAssignment(ctx context.Context, planID, assignmentID uuid.UUID) error
	DetectOutgoing(ctx context.Context, planID uuid.UUID) ([]domain.TransitionAssignment, error)
	Submit(ctx context.Context, planID uuid.UUID) (*domain.TransitionPlan, error)
	Cancel(ctx context.Context, planID uuid.UUID) (*domain.TransitionPlan, error)
	Apply(ctx context.Context, planID uuid.UUID) (*transition.ApplyResult, error)
}

// approvalService defines the minimal interface needed for the approve
// endpoint.
type approvalService interface {
	RecordApproval(ctx context.Context, planID uuid.UUID, role domain.ApproverRole) (*approvalsvc.RecordApprovalResult, error)
}

// PlanHandler serves transition plan REST endpoints.
type PlanHandler struct {
	svc       transitionService
	approvals approvalService
	log       *slog.Logger
}

// NewPlanHandler creates a PlanHandler.
func NewPlanHandler(svc transitionService, approvals approvalService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{svc: svc, approvals: approvals, log: logger.With("handler", "plans")}
}

// ---------------------------------------------------------------------------
// Requests / responses
// ---------------------------------------------------------------------------

type createPlanRequest struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	TermID      uuid.UUID `json:"termId"`
	EffectiveAt time.Time `json:"effectiveAt"`
}

type updatePlanRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	TermID      *uuid.UUID `json:"termId,omitempty"`
	EffectiveAt *time.Time `json:"effectiveAt,omitempty"`
}

type addAssignmentRequest struct {
	Direction string        `json:"direction"`
	MemberID  uuid.UUID     `json:"memberId"`
	RoleTitle string        `json:"roleTitle"`
	Scope     scopeResponse `json:"scope"`
}

type approveRequest struct {
	Role string `json:"role"`
}

type planResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description *string              `json:"description,omitempty"`
	TermID      string               `json:"termId"`
	EffectiveAt time.Time            `json:"effectiveAt"`
	Status      string               `json:"status"`
	CreatedBy   string               `json:"createdBy"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Assignments []assignmentResponse `json:"assignments,omitempty"`
	Approvals   []approvalResponse   `json:"approvals,omitempty"`
}

type assignmentResponse struct {
	ID              string        `json:"id"`
	Direction       string        `json:"direction"`
	MemberID        string        `json:"memberId"`
	RoleTitle       string        `json:"roleTitle"`
	Scope           scopeResponse `json:"scope"`
	ServiceRecordID *string       `json:"serviceRecordId,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type scopeResponse struct {
	CommitteeID   *uuid.UUID `json:"committeeId,omitempty"`
	CommitteeName *string    `json:"committeeName,omitempty"`
	EventID       *uuid.UUID `json:"eventId,omitempty"`
	EventTitle    *string    `json:"eventTitle,omitempty"`
	TermID        *uuid.UUID `json:"termId,omitempty"`
	TermName      *string    `json:"termName,omitempty"`
}

type approvalResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	MemberID  string    `json:"memberId"`
	CreatedAt time.Time `json:"createdAt"`
}

type planPageResponse struct {
	Plans []planResponse `json:"plans"`
	Total int            `json:"total"`
}

type applyResponse struct {
	Status         string `json:"status"`
	RecordsClosed  int    `json:"recordsClosed"`
	RecordsCreated int    `json:"recordsCreated"`
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// List handles GET /api/v1/transition-plans.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parsePlanFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.svc.ListPlans(r.Context(), f)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := planPageResponse{Plans: make([]planResponse, 0, len(page.Plans)), Total: page.Total}
	for i := range page.Plans {
		resp.Plans = append(resp.Plans, toPlanResponse(&page.Plans[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/transition-plans.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := h.svc.CreatePlan(r.Context(), transition.CreatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		TermID:      req.TermID,
		EffectiveAt: req.EffectiveAt,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlanResponse(plan))
}

// Get handles GET /api/v1/transition-plans/{id}.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	plan, err := h.svc.GetPlan(r.Context(), planID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// Update handles PATCH /api/v1/transition-plans/{id}.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	plan, err := h.svc.UpdatePlan(r.Context(), planID, transition.UpdatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		TermID:      req.TermID,
		EffectiveAt: req.EffectiveAt,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// Delete handles DELETE /api/v1/transition-plans/{id}.
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePlan(r.Context(), planID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddAssignment handles POST /api/v1/transition-plans/{id}/assignments.
func (h *PlanHandler) AddAssignment(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req addAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, err := h.svc.AddAssignment(r.Context(), planID, transition.AddAssignmentInput{
		Direction: domain.AssignmentDirection(req.Direction),
		MemberID:  req.MemberID,
		RoleTitle: req.RoleTitle,
		Scope: domain.RoleScope{
			CommitteeID:   req.Scope.CommitteeID,
			CommitteeName: req.Scope.CommitteeName,
			EventID:       req.Scope.EventID,
			EventTitle:    req.Scope.EventTitle,
			TermID:        req.Scope.TermID,
			TermName:      req.Scope.TermName,
		},
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentResponse(assignment))
}

// RemoveAssignment handles DELETE /api/v1/transition-plans/{id}/assignments/{assignmentId}.
func (h *PlanHandler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	assignmentID, ok := pathUUID(w, r, "assignmentId")
	if !ok {
		return
	}

	if err := h.svc.RemoveAssignment(r.Context(), planID, assignmentID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Detect handles POST /api/v1/transition-plans/{id}/detect-outgoing.
func (h *PlanHandler) Detect(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	created, err := h.svc.DetectOutgoing(r.Context(), planID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]assignmentResponse, 0, len(created))
	for i := range created {
		resp = append(resp, toAssignmentResponse(&created[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": resp})
}

// Submit handles POST /api/v1/transition-plans/{id}/submit.
func (h *PlanHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.svc.Submit)
}

// Cancel handles POST /api/v1/transition-plans/{id}/cancel.
func (h *PlanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.svc.Cancel)
}

func (h *PlanHandler) statusChange(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) (*domain.TransitionPlan, error)) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	plan, err := op(r.Context(), planID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanResponse(plan))
}

// Approve handles POST /api/v1/transition-plans/{id}/approve.
func (h *PlanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.approvals.RecordApproval(r.Context(), planID, domain.ApproverRole(req.Role))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := toPlanResponse(result.Plan)
	resp.Approvals = make([]approvalResponse, 0, len(result.Approvals))
	for i := range result.Approvals {
		resp.Approvals = append(resp.Approvals, toApprovalResponse(&result.Approvals[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Apply handles POST /api/v1/transition-plans/{id}/apply.
func (h *PlanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.svc.Apply(r.Context(), planID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, applyResponse{
		Status:         domain.PlanStatusApplied.String(),
		RecordsClosed:  result.RecordsClosed,
		RecordsCreated: result.RecordsCreated,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parsePlanFilter(r *http.Request) (domain.PlanFilter, error) {
	q := r.URL.Query()
	var f domain.PlanFilter

	if s := q.Get("status"); s != "" {
		status := domain.PlanStatus(s)
		if !status.IsValid() {
			return f, errInvalidParam("status")
		}
		f.Status = &status
	}
	if s := q.Get("termId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return f, errInvalidParam("termId")
		}
		f.TermID = &id
	}
	if s := q.Get("createdBy"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return f, errInvalidParam("createdBy")
		}
		f.CreatedBy = &id
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return f, errInvalidParam("limit")
		}
		f.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return f, errInvalidParam("offset")
		}
		f.Offset = n
	}
	f.SortBy = q.Get("sortBy")
	f.SortOrder = q.Get("sortOrder")

	return f, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string { return "invalid query parameter: " + string(e) }

func toPlanResponse(p *domain.TransitionPlan) planResponse {
	resp := planResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		TermID:      p.TermID.String(),
		EffectiveAt: p.EffectiveAt,
		Status:      p.Status.String(),
		CreatedBy:   p.CreatedBy.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for i := range p.Assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentResponse(&p.Assignments[i]))
	}
	for i := range p.Approvals {
		resp.Approvals = append(resp.Approvals, toApprovalResponse(&p.Approvals[i]))
	}
	return resp
}

func toAssignmentResponse(a *domain.TransitionAssignment) assignmentResponse {
	resp := assignmentResponse{
		ID:        a.ID.String(),
		Direction: a.Direction.String(),
		MemberID:  a.MemberID.String(),
		RoleTitle: a.RoleTitle,
		Scope: scopeResponse{
			CommitteeID:   a.Scope.CommitteeID,
			CommitteeName: a.Scope.CommitteeName,
			EventID:       a.Scope.EventID,
			EventTitle:    a.Scope.EventTitle,
			TermID:        a.Scope.TermID,
			TermName:      a.Scope.TermName,
		},
		CreatedAt: a.CreatedAt,
	}
	if a.ServiceRecordID != nil {
		s := a.ServiceRecordID.String()
		resp.ServiceRecordID = &s
	}
	return resp
}

func toApprovalResponse(a *domain.Approval) approvalResponse {
	return approvalResponse{
		ID:        a.ID.String(),
		Role:      a.Role.String(),
		MemberID:  a.MemberID.String(),
		CreatedAt: a.CreatedAt,
	}
}
