package approval

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/transport"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/go-chi/chi"
)

type GuardAPI interface {
	Approve(ctx context.Context, kind Kind, id string, actor auth.Actor) error
	Reject(ctx context.Context, kind Kind, id string, actor auth.Actor, reason string) error
	RequestCorrection(ctx context.Context, timesheetID string, actor auth.Actor, comments string) error
}

type Handler struct {
	*transport.BaseHandler
	Guard GuardAPI
}

func NewHandler(guard GuardAPI, lg *slog.Logger) *Handler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Guard:       guard,
	}
}

// ApprovePTO handles PATCH /pto/{id}/approve
func (h *Handler) ApprovePTO(w http.ResponseWriter, r *http.Request) {
	h.approve(w, r, KindPTO)
}

// RejectPTO handles PATCH /pto/{id}/reject
func (h *Handler) RejectPTO(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, KindPTO)
}

// ApproveTimesheet handles PATCH /timesheets/{id}/approve
func (h *Handler) ApproveTimesheet(w http.ResponseWriter, r *http.Request) {
	h.approve(w, r, KindTimesheet)
}

// RejectTimesheet handles PATCH /timesheets/{id}/reject
func (h *Handler) RejectTimesheet(w http.ResponseWriter, r *http.Request) {
	h.reject(w, r, KindTimesheet)
}

// RequestTimesheetCorrection handles PATCH /timesheets/{id}/request-correction
func (h *Handler) RequestTimesheetCorrection(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CorrectionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "RequestTimesheetCorrection: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.Guard.RequestCorrection(r.Context(), id, actor, dto.Comments)
	h.writeResult(w, r, KindTimesheet, id, err)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request, kind Kind) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	err := h.Guard.Approve(r.Context(), kind, id, actor)
	h.writeResult(w, r, kind, id, err)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, kind Kind) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RejectDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.ErrorContext(r.Context(), "reject: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.Guard.Reject(r.Context(), kind, id, actor, dto.Reason)
	h.writeResult(w, r, kind, id, err)
}

// writeResult answers with the discriminated Result; the HTTP status follows
// the error's own status code.
func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, kind Kind, id string, err error) {
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
		if appErr, ok := apperrors.IsAppError(err); ok {
			status = appErr.StatusCode
		}
		h.Logger.WarnContext(r.Context(), "decision failed", "kind", string(kind), "request_id", id, "error", err)
	}
	h.WriteJSON(w, status, ResultOf(err))
}
