package auth

import "context"

// Actor is the authenticated user a request runs as.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

func (a Actor) Can(perm Permission) bool {
	return HasPermission(a.Role, perm)
}

func (a Actor) IsAdmin() bool {
	return IsAdmin(a.Role)
}

type ctxKey string

const contextActorKey ctxKey = "actor"

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextActorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(contextActorKey).(Actor)
	if !ok || actor.ID == "" {
		return Actor{}, false
	}
	return actor, true
}
