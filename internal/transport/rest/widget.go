package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/clubops/boardroom-backend/internal/service/widget"
)

// widgetService defines the minimal interface needed by WidgetHandler.
type widgetService interface {
	Read(ctx context.Context) (*widget.Countdown, error)
}

// WidgetHandler serves the transition countdown widget endpoint.
type WidgetHandler struct {
	svc widgetService
	log *slog.Logger
}

// NewWidgetHandler creates a WidgetHandler.
func NewWidgetHandler(svc widgetService, logger *slog.Logger) *WidgetHandler {
	return &WidgetHandler{svc: svc, log: logger.With("handler", "widget")}
}

type countdownResponse struct {
	Visible        bool       `json:"visible"`
	DaysRemaining  int        `json:"daysRemaining"`
	NextTransition *time.Time `json:"nextTransition,omitempty"`
	TermID         *string    `json:"termId,omitempty"`
	TermName       *string    `json:"termName,omitempty"`
}

// Read handles GET /api/v1/transition-widget.
func (h *WidgetHandler) Read(w http.ResponseWriter, r *http.Request) {
	countdown, err := h.svc.Read(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := countdownResponse{
		Visible:       countdown.Visible,
		DaysRemaining: countdown.DaysRemaining,
	}
	if countdown.NextTransition != nil {
		t := countdown.NextTransition
		resp.NextTransition = &t.StartsOn
		id := t.ID.String()
		resp.TermID = &id
		resp.TermName = &t.Name
	}

	writeJSON(w, http.StatusOK, resp)
}
