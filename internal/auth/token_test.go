package auth_test

import (
	"time"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var _ = Describe("TokenIssuer", func() {
	var issuer *auth.TokenIssuer

	BeforeEach(func() {
		issuer = auth.NewTokenIssuer(testSecret, "project-management", time.Minute)
	})

	It("round-trips user id and role", func() {
		token, err := issuer.Issue("u-1", auth.RoleManager)
		Expect(err).NotTo(HaveOccurred())

		claims, err := issuer.Validate(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal("u-1"))
		Expect(claims.Role).To(Equal(auth.RoleManager))
		Expect(claims.Subject).To(Equal("u-1"))
	})

	It("refuses to issue for unknown roles", func() {
		_, err := issuer.Issue("u-1", auth.Role("ROOT"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects tokens signed with another secret", func() {
		other := auth.NewTokenIssuer("ffffffffffffffffffffffffffffffff", "project-management", time.Minute)
		token, err := other.Issue("u-1", auth.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Validate(token)
		Expect(err).To(MatchError(apperrors.ErrInvalidToken))
	})

	It("rejects tokens from another issuer", func() {
		other := auth.NewTokenIssuer(testSecret, "someone-else", time.Minute)
		token, err := other.Issue("u-1", auth.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Validate(token)
		Expect(err).To(MatchError(apperrors.ErrInvalidToken))
	})

	It("reports expiry distinctly", func() {
		claims := &auth.Claims{
			UserID: "u-1",
			Role:   auth.RoleEmployee,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "project-management",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Validate(token)
		Expect(err).To(MatchError(apperrors.ErrTokenExpired))
	})

	It("rejects the none algorithm", func() {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.Claims{UserID: "u-1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Validate(token)
		Expect(err).To(HaveOccurred())
	})
})
