package approval

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/pto"
	"github.com/frahmantamala/project-management/internal/timesheet"
)

// Kind names the type of request an approver acts on.
type Kind string

const (
	KindPTO       Kind = "pto"
	KindTimesheet Kind = "timesheet"
)

// Request is the part of a PTO request or timesheet the guard reads.
type Request struct {
	Kind   Kind
	ID     string
	UserID string
	Status string
}

// Transition describes one conditional status write. The store applies it
// only while the row still has status From. Nil fields are left untouched.
type Transition struct {
	From       string
	To         string
	ApproverID *string
	DecidedAt  *time.Time
	Note       *string
}

var ErrNotFound = errors.New("approvable request not found")

// Store is the persistence the guard needs. FindRequestByID returns
// ErrNotFound for unknown ids; UpdateRequestStatus reports rows affected.
type Store interface {
	FindRequestByID(ctx context.Context, kind Kind, id string) (*Request, error)
	UpdateRequestStatus(ctx context.Context, kind Kind, id string, t Transition) (int64, error)
}

// Approvers decides whether actor may act on requests owned by targetUserID.
type Approvers interface {
	CanManage(ctx context.Context, actor auth.Actor, targetUserID string) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// rule is the single allowed edge per kind plus the events it emits.
type rule struct {
	source          string
	approvedEvent   string
	rejectedEvent   string
	correctionEvent string
}

var rules = map[Kind]rule{
	KindPTO: {
		source:        string(pto.StatusPending),
		approvedEvent: events.EventTypePTOApproved,
		rejectedEvent: events.EventTypePTORejected,
	},
	KindTimesheet: {
		source:          string(timesheet.StatusSubmitted),
		approvedEvent:   events.EventTypeTimesheetApproved,
		rejectedEvent:   events.EventTypeTimesheetRejected,
		correctionEvent: events.EventTypeTimesheetCorrectionRequested,
	},
}

// SourceStatus is the only status kind may be decided from.
func SourceStatus(kind Kind) (string, bool) {
	r, ok := rules[kind]
	return r.source, ok
}

const (
	statusApproved        = string(pto.StatusApproved)
	statusRejected        = string(pto.StatusRejected)
	statusNeedsCorrection = string(timesheet.StatusNeedsCorrection)
)
