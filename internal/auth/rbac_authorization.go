package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/project-management/pkg/logger"
)

// RBACAuthorization gates routes on the static permission table. It expects
// Authenticator.Middleware to have run first.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(lg *slog.Logger) *RBACAuthorization {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &RBACAuthorization{logger: lg}
}

func (ra *RBACAuthorization) guard(name string, allowed func(Actor) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				ra.logger.WarnContext(r.Context(), "authorization check failed: actor not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !allowed(actor) {
				ra.logger.WarnContext(r.Context(), "access denied",
					"user_id", actor.ID,
					"role", string(actor.Role),
					"required", name)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return ra.guard(string(perm), func(a Actor) bool {
		return HasPermission(a.Role, perm)
	})
}

func (ra *RBACAuthorization) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return ra.guard(joinPerms("any:", perms), func(a Actor) bool {
		return HasAny(a.Role, perms...)
	})
}

func joinPerms(prefix string, perms []Permission) string {
	s := prefix
	for i, p := range perms {
		if i > 0 {
			s += ","
		}
		s += string(p)
	}
	return s
}
