package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubops/boardroom-backend/internal/domain"
	approvalsvc "github.com/clubops/boardroom-backend/internal/service/approval"
	"github.com/clubops/boardroom-backend/internal/service/transition"
)

// instrumentedTransition decorates the transition service with lifecycle
// counters. Only status-changing operations are wrapped; the rest pass
// through the embedded service.
type instrumentedTransition struct {
	*transition.Service
	m *Metrics
}

func (s *instrumentedTransition) CreatePlan(ctx context.Context, input transition.CreatePlanInput) (*domain.TransitionPlan, error) {
	plan, err := s.Service.CreatePlan(ctx, input)
	if err == nil {
		s.m.PlanStatusChanged(domain.PlanStatusDraft.String())
	}
	return plan, err
}

func (s *instrumentedTransition) Submit(ctx context.Context, planID uuid.UUID) (*domain.TransitionPlan, error) {
	plan, err := s.Service.Submit(ctx, planID)
	if err == nil {
		s.m.PlanStatusChanged(plan.Status.String())
	}
	return plan, err
}

func (s *instrumentedTransition) Cancel(ctx context.Context, planID uuid.UUID) (*domain.TransitionPlan, error) {
	plan, err := s.Service.Cancel(ctx, planID)
	if err == nil {
		s.m.PlanStatusChanged(plan.Status.String())
	}
	return plan, err
}

func (s *instrumentedTransition) Apply(ctx context.Context, planID uuid.UUID) (*transition.ApplyResult, error) {
	result, err := s.Service.Apply(ctx, planID)
	if err == nil {
		s.m.PlanStatusChanged(domain.PlanStatusApplied.String())
	}
	return result, err
}

// instrumentedApproval counts recorded approvals, and the APPROVED flip
// when the second signature completes the gate.
type instrumentedApproval struct {
	*approvalsvc.Service
	m *Metrics
}

func (s *instrumentedApproval) RecordApproval(ctx context.Context, planID uuid.UUID, role domain.ApproverRole) (*approvalsvc.RecordApprovalResult, error) {
	result, err := s.Service.RecordApproval(ctx, planID, role)
	if err == nil {
		s.m.ApprovalRecorded(role.String())
		if result.Plan.Status == domain.PlanStatusApproved {
			s.m.PlanStatusChanged(domain.PlanStatusApproved.String())
		}
	}
	return result, err
}
