package pto

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/transport"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRequest(ctx context.Context, actor auth.Actor, dto CreateRequestDTO) (*Request, error)
	ListMine(ctx context.Context, actor auth.Actor) ([]*Request, error)
	ListPendingForApproval(ctx context.Context, actor auth.Actor) ([]*Request, error)
	Cancel(ctx context.Context, actor auth.Actor, id string) error
	TeamCalendar(ctx context.Context, actor auth.Actor, from, to time.Time) (*TeamCalendar, error)
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

// CreateRequest handles POST /pto
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.CreateRequest(r.Context(), actor, dto)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "CreateRequest: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

// ListMine handles GET /pto/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reqs, err := h.Service.ListMine(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// ListPending handles GET /pto/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reqs, err := h.Service.ListPendingForApproval(r.Context(), actor)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "ListPending: service error", "error", err, "manager_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// Cancel handles POST /pto/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Service.Cancel(r.Context(), actor, id); err != nil {
		h.Logger.ErrorContext(r.Context(), "Cancel: service error", "error", err, "request_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": string(StatusCancelled)})
}

// GetTeamCalendar handles GET /team/calendar?from=&to=
func (h *Handler) GetTeamCalendar(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	from, err := parseDay(q.Get("from"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "from must be a date")
		return
	}
	to, err := parseDay(q.Get("to"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "to must be a date")
		return
	}

	cal, err := h.Service.TeamCalendar(r.Context(), actor, from, to)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetTeamCalendar: service error", "error", err, "manager_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, cal)
}

// parseDay accepts a plain date or an RFC 3339 timestamp.
func parseDay(v string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
