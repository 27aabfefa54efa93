package approval_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/approval"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type guardCall struct {
	Action string
	Kind   approval.Kind
	ID     string
	Actor  string
	Note   string
}

type stubGuard struct {
	calls []guardCall
	err   error
}

func (s *stubGuard) Approve(_ context.Context, kind approval.Kind, id string, actor auth.Actor) error {
	s.calls = append(s.calls, guardCall{Action: "approve", Kind: kind, ID: id, Actor: actor.ID})
	return s.err
}

func (s *stubGuard) Reject(_ context.Context, kind approval.Kind, id string, actor auth.Actor, reason string) error {
	s.calls = append(s.calls, guardCall{Action: "reject", Kind: kind, ID: id, Actor: actor.ID, Note: reason})
	return s.err
}

func (s *stubGuard) RequestCorrection(_ context.Context, id string, actor auth.Actor, comments string) error {
	s.calls = append(s.calls, guardCall{Action: "correction", Kind: approval.KindTimesheet, ID: id, Actor: actor.ID, Note: comments})
	return s.err
}

var _ = Describe("Approval Handler", func() {
	var (
		guard  *stubGuard
		router chi.Router
		actor  *auth.Actor
	)

	BeforeEach(func() {
		guard = &stubGuard{}
		actor = &auth.Actor{ID: "m1", Role: auth.RoleManager}
		h := approval.NewHandler(guard, logger.Discard())

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if actor != nil {
					r = r.WithContext(auth.ContextWithActor(r.Context(), *actor))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Patch("/pto/{id}/approve", h.ApprovePTO)
		router.Patch("/pto/{id}/reject", h.RejectPTO)
		router.Patch("/timesheets/{id}/approve", h.ApproveTimesheet)
		router.Patch("/timesheets/{id}/reject", h.RejectTimesheet)
		router.Patch("/timesheets/{id}/request-correction", h.RequestTimesheetCorrection)
	})

	do := func(path, body string) (*httptest.ResponseRecorder, approval.Result) {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(http.MethodPatch, path, nil)
		} else {
			req = httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var result approval.Result
		_ = json.Unmarshal(rec.Body.Bytes(), &result)
		return rec, result
	}

	It("approves PTO with the id from the path", func() {
		rec, result := do("/pto/r1/approve", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(result).To(Equal(approval.Result{Success: true}))
		Expect(guard.calls).To(Equal([]guardCall{{Action: "approve", Kind: approval.KindPTO, ID: "r1", Actor: "m1"}}))
	})

	It("passes the rejection reason through", func() {
		rec, _ := do("/timesheets/t9/reject", `{"reason":"Business needs"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(guard.calls).To(ConsistOf(guardCall{Action: "reject", Kind: approval.KindTimesheet, ID: "t9", Actor: "m1", Note: "Business needs"}))
	})

	It("allows a rejection without a reason", func() {
		rec, _ := do("/pto/r1/reject", `{}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(guard.calls).To(ConsistOf(guardCall{Action: "reject", Kind: approval.KindPTO, ID: "r1", Actor: "m1"}))
	})

	It("caps the rejection reason", func() {
		rec, _ := do("/pto/r1/reject", `{"reason":"`+strings.Repeat("x", 1001)+`"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(guard.calls).To(BeEmpty())
	})

	It("rejects unknown body fields", func() {
		rec, _ := do("/pto/r1/reject", `{"reason":"x","status":"APPROVED"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(guard.calls).To(BeEmpty())
	})

	It("requires comments for a correction", func() {
		rec, _ := do("/timesheets/t1/request-correction", `{}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec, _ = do("/timesheets/t1/request-correction", `{"comments":"Friday is missing"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(guard.calls).To(ConsistOf(guardCall{Action: "correction", Kind: approval.KindTimesheet, ID: "t1", Actor: "m1", Note: "Friday is missing"}))
	})

	DescribeTable("maps guard errors to status and result",
		func(err error, status int, kind string) {
			guard.err = err
			rec, result := do("/timesheets/t1/approve", "")
			Expect(rec.Code).To(Equal(status))
			Expect(result).To(Equal(approval.Result{Error: kind}))
		},
		Entry("not found", apperrors.ErrRequestNotFound, http.StatusNotFound, approval.ErrorNotFound),
		Entry("wrong state", apperrors.ErrInvalidState, http.StatusConflict, approval.ErrorInvalidState),
		Entry("not an approver", apperrors.ErrNotApprover, http.StatusForbidden, approval.ErrorUnauthorized),
		Entry("internal", apperrors.NewInternalError("failed", context.DeadlineExceeded), http.StatusInternalServerError, approval.ErrorUnexpected),
	)

	It("refuses anonymous calls", func() {
		actor = nil
		rec, _ := do("/pto/r1/approve", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(guard.calls).To(BeEmpty())
	})
})
