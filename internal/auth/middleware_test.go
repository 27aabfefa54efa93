package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubActors map[string]auth.Actor

func (s stubActors) LoadActor(_ context.Context, userID string) (auth.Actor, error) {
	actor, ok := s[userID]
	if !ok {
		return auth.Actor{}, apperrors.ErrUserNotFound
	}
	return actor, nil
}

var _ = Describe("HTTP middleware", func() {
	var (
		issuer  *auth.TokenIssuer
		authn   *auth.Authenticator
		rbac    *auth.RBACAuthorization
		reached auth.Actor
		final   http.Handler
	)

	BeforeEach(func() {
		issuer = auth.NewTokenIssuer(testSecret, "project-management", time.Minute)
		authn = auth.NewAuthenticator(issuer, stubActors{
			"m1": {ID: "m1", Role: auth.RoleManager},
			"e1": {ID: "e1", Role: auth.RoleEmployee},
			"l1": {ID: "l1", Role: auth.RoleLead},
		}, logger.Discard())
		rbac = auth.NewRBACAuthorization(logger.Discard())
		reached = auth.Actor{}
		final = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached, _ = auth.ActorFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
	})

	request := func(h http.Handler, userID string, role auth.Role) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if userID != "" {
			token, err := issuer.Issue(userID, role)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	Describe("Authenticator", func() {
		It("rejects requests without a bearer token", func() {
			rec := request(authn.Middleware(final), "", "")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects malformed tokens", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer not-a-jwt")
			rec := httptest.NewRecorder()
			authn.Middleware(final).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects tokens for unknown users", func() {
			rec := request(authn.Middleware(final), "ghost", auth.RoleAdmin)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("uses the stored role rather than the token claim", func() {
			rec := request(authn.Middleware(final), "e1", auth.RoleAdmin)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(reached.Role).To(Equal(auth.RoleEmployee))
		})
	})

	Describe("RBACAuthorization", func() {
		It("returns 401 when no actor is present", func() {
			rec := httptest.NewRecorder()
			rbac.RequirePermission(auth.PermPTORequest)(final).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("admits actors holding the permission", func() {
			h := authn.Middleware(rbac.RequirePermission(auth.PermPTOApprove)(final))
			Expect(request(h, "m1", auth.RoleManager).Code).To(Equal(http.StatusNoContent))
			Expect(request(h, "e1", auth.RoleEmployee).Code).To(Equal(http.StatusForbidden))
		})

		It("supports any-of requirements", func() {
			anyOf := authn.Middleware(rbac.RequireAny(auth.PermPTOApprove, auth.PermPTORequest)(final))
			Expect(request(anyOf, "e1", auth.RoleEmployee).Code).To(Equal(http.StatusNoContent))
			Expect(request(anyOf, "l1", auth.RoleLead).Code).To(Equal(http.StatusForbidden))
		})
	})
})
