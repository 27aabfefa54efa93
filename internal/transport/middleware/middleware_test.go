package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/transport/middleware"
	"github.com/frahmantamala/project-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("HTTP middleware", func() {
	Describe("RequestID", func() {
		It("keeps the caller's id", func() {
			var seen string
			h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = internal.RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.RequestIDHeader, "abc-123")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Expect(seen).To(Equal("abc-123"))
			Expect(rec.Header().Get(middleware.RequestIDHeader)).To(Equal("abc-123"))
		})

		It("mints an id when none is sent", func() {
			var seen string
			h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = internal.RequestIDFromContext(r.Context())
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(seen).NotTo(BeEmpty())
			Expect(rec.Header().Get(middleware.RequestIDHeader)).To(Equal(seen))
		})
	})

	Describe("RecoveryMiddleware", func() {
		It("answers a panic with an internal error body that hides the panic value", func() {
			h := middleware.RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic("db password is hunter2")
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).NotTo(ContainSubstring("hunter2"))

			var body struct {
				Error struct {
					Type string `json:"type"`
				} `json:"error"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Error.Type).To(Equal(string(internal.ErrorTypeInternal)))
		})
	})

	Describe("CORS", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		It("answers preflight for allowed origins", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/pto", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			rec := httptest.NewRecorder()
			middleware.CORS([]string{"http://localhost:3000"})(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
			Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("PATCH"))
		})

		It("does not echo unknown origins", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", "http://evil.example")
			rec := httptest.NewRecorder()
			middleware.CORS([]string{"http://localhost:3000"})(next).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusTeapot))
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
			Expect(rec.Header().Values("Vary")).To(ContainElement("Origin"))
		})

		It("leaves Vary alone without an Origin header", func() {
			rec := httptest.NewRecorder()
			middleware.CORS([]string{"http://localhost:3000"})(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(rec.Header().Values("Vary")).To(BeEmpty())
		})

		It("allows any origin with a wildcard", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", "http://evil.example")
			rec := httptest.NewRecorder()
			middleware.CORS([]string{"*"})(next).ServeHTTP(rec, req)

			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://evil.example"))
		})
	})

	Describe("LoggingMiddleware", func() {
		It("masks credentials in headers and bodies", func() {
			var buf bytes.Buffer
			lg := slog.New(slog.NewJSONHandler(&buf, nil))

			h := middleware.RequestID(middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"access_token":"s3cr3t","id":"r1"}`))
			})))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/pto", strings.NewReader(`{"password":"hunter2","reason":"trip"}`))
			req.Header.Set("Authorization", "Bearer abc.def.ghi")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			out := buf.String()
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(out).NotTo(ContainSubstring("hunter2"))
			Expect(out).NotTo(ContainSubstring("s3cr3t"))
			Expect(out).NotTo(ContainSubstring("abc.def.ghi"))
			Expect(out).To(ContainSubstring("trip"))
			Expect(out).To(ContainSubstring(`"status_code":201`))
		})
	})
})
