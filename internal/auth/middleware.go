package auth

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/transport"
	"github.com/frahmantamala/project-management/pkg/logger"
)

// ActorLoader resolves a token subject to the current actor. Implementations
// reject inactive users.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID string) (Actor, error)
}

type Authenticator struct {
	*transport.BaseHandler
	tokens *TokenIssuer
	actors ActorLoader
}

func NewAuthenticator(tokens *TokenIssuer, actors ActorLoader, lg *slog.Logger) *Authenticator {
	return &Authenticator{
		BaseHandler: transport.NewBaseHandler(lg),
		tokens:      tokens,
		actors:      actors,
	}
}

// Middleware validates the bearer token, loads the actor and stores it in the
// request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := transport.ExtractTokenFromHeader(r)
		if token == "" {
			a.HandleServiceError(w, apperrors.ErrAuthRequired)
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			a.Logger.WarnContext(r.Context(), "token validation failed", "error", err)
			a.HandleServiceError(w, err)
			return
		}

		actor, err := a.actors.LoadActor(r.Context(), claims.UserID)
		if err != nil {
			a.Logger.WarnContext(r.Context(), "auth middleware: failed to load actor", "user_id", claims.UserID, "error", err)
			a.HandleServiceError(w, err)
			return
		}

		ctx := ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "actor_role", string(actor.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
