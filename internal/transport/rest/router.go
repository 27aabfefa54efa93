package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-management/api"
	"github.com/frahmantamala/project-management/internal/approval"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/pto"
	"github.com/frahmantamala/project-management/internal/timesheet"
	"github.com/frahmantamala/project-management/internal/transport/middleware"
	"github.com/frahmantamala/project-management/internal/transport/openapi"
	"github.com/frahmantamala/project-management/internal/transport/swagger"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/go-chi/chi"
)

// Routes is everything RegisterAllRoutes mounts. Authenticator and RBAC are
// required; a nil handler leaves its routes unmounted.
type Routes struct {
	Authenticator *auth.Authenticator
	RBAC          *auth.RBACAuthorization
	Validator     *openapi.Validator

	User      *user.Handler
	PTO       *pto.Handler
	Timesheet *timesheet.Handler
	Approval  *approval.Handler

	HealthChecks   map[string]Check
	AllowedOrigins []string
}

func RegisterAllRoutes(router *chi.Mux, routes Routes, logger *slog.Logger) {
	healthHandler := NewHealthHandler(routes.HealthChecks)
	rbac := routes.RBAC

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(routes.AllowedOrigins))

	router.Get(swagger.SpecURL, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(pr chi.Router) {
			pr.Use(routes.Authenticator.Middleware)
			if routes.Validator != nil {
				pr.Use(routes.Validator.Middleware)
			}

			if routes.User != nil {
				pr.Get("/users/me", routes.User.GetCurrentUser)
				pr.Get("/users/me/permissions", routes.User.GetCurrentPermissions)
				pr.Get("/dashboard", routes.User.GetDashboard)
			}

			pr.Route("/team", func(tr chi.Router) {
				if routes.User != nil {
					tr.Group(func(ur chi.Router) {
						ur.Use(rbac.RequireAny(auth.PermUserViewDirectReports, auth.PermUserViewTeam))
						ur.Get("/", routes.User.GetDirectReports)
						ur.Get("/extended", routes.User.GetExtendedTeam)
					})
				}
				if routes.PTO != nil {
					tr.With(rbac.RequireAny(auth.PermPTOViewTeam, auth.PermPTOViewAll)).Get("/calendar", routes.PTO.GetTeamCalendar)
				}
				if routes.Timesheet != nil {
					tr.With(rbac.RequireAny(auth.PermCapacityViewTeam, auth.PermCapacityViewAll)).Get("/capacity", routes.Timesheet.GetTeamCapacity)
				}
			})

			pr.Route("/pto", func(er chi.Router) {
				if routes.PTO != nil {
					er.With(rbac.RequirePermission(auth.PermPTORequest)).Post("/", routes.PTO.CreateRequest)
					er.Get("/mine", routes.PTO.ListMine)
					er.With(rbac.RequireAny(auth.PermPTOViewTeam, auth.PermPTOViewAll)).Get("/pending", routes.PTO.ListPending)
					er.With(rbac.RequirePermission(auth.PermPTOCancelOwn)).Post("/{id}/cancel", routes.PTO.Cancel)
				}

				if routes.Approval != nil {
					er.Group(func(mr chi.Router) {
						mr.Use(rbac.RequirePermission(auth.PermPTOApprove))
						mr.Patch("/{id}/approve", routes.Approval.ApprovePTO) // PATCH /pto/:id/approve
						mr.Patch("/{id}/reject", routes.Approval.RejectPTO)   // PATCH /pto/:id/reject
					})
				}
			})

			pr.Route("/timesheets", func(er chi.Router) {
				if routes.Timesheet != nil {
					er.With(rbac.RequirePermission(auth.PermTimesheetSubmit)).Post("/", routes.Timesheet.Create)
					er.Get("/mine", routes.Timesheet.ListMine)
					er.With(rbac.RequireAny(auth.PermTimesheetViewTeam, auth.PermTimesheetViewAll)).Get("/pending", routes.Timesheet.ListPending)
					er.With(rbac.RequirePermission(auth.PermTimesheetSubmit)).Post("/{id}/submit", routes.Timesheet.Submit)
				}

				if routes.Approval != nil {
					er.Group(func(mr chi.Router) {
						mr.Use(rbac.RequirePermission(auth.PermTimesheetApprove))
						mr.Patch("/{id}/approve", routes.Approval.ApproveTimesheet)
						mr.Patch("/{id}/reject", routes.Approval.RejectTimesheet)
					})

					// admins hold TIMESHEET_APPROVE but not TIMESHEET_REQUEST_CORRECTION
					er.With(rbac.RequireAny(auth.PermTimesheetRequestCorrection, auth.PermTimesheetApprove)).
						Patch("/{id}/request-correction", routes.Approval.RequestTimesheetCorrection)
				}
			})
		})
	})
}
