package timesheet

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/transport"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Actor, dto CreateTimesheetDTO) (*Timesheet, error)
	Submit(ctx context.Context, actor auth.Actor, id string) (*Timesheet, error)
	ListMine(ctx context.Context, actor auth.Actor) ([]*Timesheet, error)
	ListPendingForApproval(ctx context.Context, actor auth.Actor) ([]*Timesheet, error)
	TeamCapacity(ctx context.Context, actor auth.Actor) ([]*MemberCapacity, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Create handles POST /timesheets
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTimesheetDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ts, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "Create: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ts)
}

// Submit handles POST /timesheets/{id}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	ts, err := h.Service.Submit(r.Context(), actor, id)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "Submit: service error", "error", err, "timesheet_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ts)
}

// ListMine handles GET /timesheets/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sheets, err := h.Service.ListMine(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"timesheets": sheets})
}

// ListPending handles GET /timesheets/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sheets, err := h.Service.ListPendingForApproval(r.Context(), actor)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListPending: service error", "error", err, "manager_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"timesheets": sheets})
}

// GetTeamCapacity handles GET /team/capacity
func (h *Handler) GetTeamCapacity(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	capacity, err := h.Service.TeamCapacity(r.Context(), actor)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetTeamCapacity: service error", "error", err, "manager_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"members":      capacity,
		"window_days":  int(CapacityWindow.Hours() / 24),
		"weekly_hours": StandardWeeklyHours,
	})
}
