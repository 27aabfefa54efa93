package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePTOApproved                  = "pto.approved"
	EventTypePTORejected                  = "pto.rejected"
	EventTypeTimesheetApproved            = "timesheet.approved"
	EventTypeTimesheetRejected            = "timesheet.rejected"
	EventTypeTimesheetCorrectionRequested = "timesheet.correction_requested"
)

// DecisionEventTypes lists every event the approval guard can emit.
var DecisionEventTypes = []string{
	EventTypePTOApproved,
	EventTypePTORejected,
	EventTypeTimesheetApproved,
	EventTypeTimesheetRejected,
	EventTypeTimesheetCorrectionRequested,
}

// RequestDecidedEvent is published after a PTO request or timesheet changed
// state at the hands of an approver. Note carries the rejection reason or
// correction comments, if any.
type RequestDecidedEvent struct {
	BaseEvent
	Kind      string `json:"kind"`
	RequestID string `json:"request_id"`
	OwnerID   string `json:"owner_id"`
	ActorID   string `json:"actor_id"`
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
}

func NewRequestDecidedEvent(eventType, kind, requestID, ownerID, actorID, status, note string) *RequestDecidedEvent {
	return &RequestDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"kind":       kind,
				"request_id": requestID,
				"owner_id":   ownerID,
				"actor_id":   actorID,
				"status":     status,
				"note":       note,
			},
		},
		Kind:      kind,
		RequestID: requestID,
		OwnerID:   ownerID,
		ActorID:   actorID,
		Status:    status,
		Note:      note,
	}
}
