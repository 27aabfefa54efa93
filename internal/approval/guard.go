package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/pkg/logger"
)

// Guard gates every approver decision on PTO requests and timesheets: the
// request must exist, sit in its kind's source status, and belong to a user
// the actor may manage. The write itself is conditional on the source status,
// so of two racing decisions exactly one lands.
type Guard struct {
	store     Store
	approvers Approvers
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewGuard(store Store, approvers Approvers, publisher Publisher, lg *slog.Logger) *Guard {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Guard{
		store:     store,
		approvers: approvers,
		publisher: publisher,
		logger:    lg,
		now:       time.Now,
	}
}

type decision struct {
	action string
	to     string
	event  string
	note   *string
	// terminal decisions record who decided and when
	terminal bool
}

func (g *Guard) Approve(ctx context.Context, kind Kind, id string, actor auth.Actor) error {
	r, ok := rules[kind]
	if !ok {
		return unknownKind(kind)
	}
	return g.decide(ctx, kind, id, actor, r, decision{
		action:   "approve",
		to:       statusApproved,
		event:    r.approvedEvent,
		terminal: true,
	})
}

// Reject records reason as the PTO rejection reason or the timesheet
// comments. An empty reason leaves the column untouched.
func (g *Guard) Reject(ctx context.Context, kind Kind, id string, actor auth.Actor, reason string) error {
	r, ok := rules[kind]
	if !ok {
		return unknownKind(kind)
	}
	var note *string
	if reason != "" {
		note = &reason
	}
	return g.decide(ctx, kind, id, actor, r, decision{
		action:   "reject",
		to:       statusRejected,
		event:    r.rejectedEvent,
		note:     note,
		terminal: true,
	})
}

// RequestCorrection sends a submitted timesheet back to its owner. It is not
// a terminal decision: approver and decision time stay empty.
func (g *Guard) RequestCorrection(ctx context.Context, timesheetID string, actor auth.Actor, comments string) error {
	r := rules[KindTimesheet]
	return g.decide(ctx, KindTimesheet, timesheetID, actor, r, decision{
		action: "request_correction",
		to:     statusNeedsCorrection,
		event:  r.correctionEvent,
		note:   &comments,
	})
}

func (g *Guard) decide(ctx context.Context, kind Kind, id string, actor auth.Actor, r rule, d decision) error {
	log := logger.From(ctx, g.logger).With("kind", string(kind), "request_id", id, "actor_id", actor.ID, "action", d.action)

	req, err := g.store.FindRequestByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WarnContext(ctx, "decision denied: request not found")
			return apperrors.ErrRequestNotFound
		}
		log.ErrorContext(ctx, "failed to load request", "error", err)
		return apperrors.NewInternalError("failed to load request", err)
	}

	if req.Status != r.source {
		log.WarnContext(ctx, "decision denied: wrong status", "current_status", req.Status, "required_status", r.source)
		return apperrors.ErrInvalidState
	}

	allowed, err := g.approvers.CanManage(ctx, actor, req.UserID)
	if err != nil {
		log.ErrorContext(ctx, "failed to resolve approver", "owner_id", req.UserID, "error", err)
		return apperrors.NewInternalError("failed to resolve approver", err)
	}
	if !allowed {
		log.WarnContext(ctx, "decision denied: actor cannot manage owner", "owner_id", req.UserID)
		return apperrors.ErrNotApprover
	}

	t := Transition{From: r.source, To: d.to, Note: d.note}
	if d.terminal {
		now := g.now()
		approver := actor.ID
		t.ApproverID = &approver
		t.DecidedAt = &now
	}

	rows, err := g.store.UpdateRequestStatus(ctx, kind, id, t)
	if err != nil {
		log.ErrorContext(ctx, "failed to update request status", "error", err)
		return apperrors.NewInternalError("failed to update request status", err)
	}
	if rows == 0 {
		log.WarnContext(ctx, "decision lost: status changed concurrently")
		return apperrors.ErrInvalidState
	}

	log.InfoContext(ctx, "request decided", "owner_id", req.UserID, "status", d.to)
	g.publish(ctx, kind, req, actor, d)
	return nil
}

func (g *Guard) publish(ctx context.Context, kind Kind, req *Request, actor auth.Actor, d decision) {
	if g.publisher == nil || d.event == "" {
		return
	}
	note := ""
	if d.note != nil {
		note = *d.note
	}
	evt := events.NewRequestDecidedEvent(d.event, string(kind), req.ID, req.UserID, actor.ID, d.to, note)
	if err := g.publisher.Publish(ctx, evt); err != nil {
		g.logger.ErrorContext(ctx, "failed to publish decision event", "event_type", d.event, "request_id", req.ID, "error", err)
	}
}

func unknownKind(kind Kind) error {
	return apperrors.NewInternalError("unsupported request kind", fmt.Errorf("unknown kind %q", kind))
}
