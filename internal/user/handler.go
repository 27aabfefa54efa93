package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/transport"
	"github.com/frahmantamala/project-management/pkg/logger"
)

type ServiceAPI interface {
	GetByID(ctx context.Context, id string) (*User, error)
	DirectReports(ctx context.Context, managerID string) ([]*User, error)
	ExtendedTeam(ctx context.Context, managerID string) (*Team, error)
	Permissions(actor auth.Actor) PermissionsView
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(r.Context(), actor.ID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetCurrentUser: service error", "user_id", actor.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetCurrentPermissions handles GET /users/me/permissions
func (h *Handler) GetCurrentPermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Permissions(actor))
}

// GetDashboard handles GET /dashboard and tells the client where the actor's
// landing page lives.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{
		"redirect": auth.DashboardPath(actor.Role),
	})
}

// GetDirectReports handles GET /team
func (h *Handler) GetDirectReports(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reports, err := h.Service.DirectReports(r.Context(), actor.ID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetDirectReports: service error", "manager_id", actor.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"direct_reports": reports,
	})
}

// GetExtendedTeam handles GET /team/extended
func (h *Handler) GetExtendedTeam(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	team, err := h.Service.ExtendedTeam(r.Context(), actor.ID)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "GetExtendedTeam: service error", "manager_id", actor.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, team)
}
