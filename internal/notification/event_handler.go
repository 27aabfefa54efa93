package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
)

// Recipients resolves the owner of a decided request.
type Recipients interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// Notification is what would be handed to a delivery channel.
type Notification struct {
	EventID   string
	To        string
	Name      string
	Subject   string
	Body      string
	RequestID string
}

// Sender delivers a notification. The default sender only logs.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

type EventHandler struct {
	recipients Recipients
	sender     Sender
	logger     *slog.Logger
}

func NewEventHandler(recipients Recipients, sender Sender, lg *slog.Logger) *EventHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	if sender == nil {
		sender = LogSender{Logger: lg}
	}
	return &EventHandler{
		recipients: recipients,
		sender:     sender,
		logger:     lg,
	}
}

func (h *EventHandler) HandleRequestDecided(ctx context.Context, event events.Event) error {
	decided, ok := event.(*events.RequestDecidedEvent)
	if !ok {
		h.logger.Error("invalid event type for request decided handler", "event_type", event.EventType())
		return fmt.Errorf("expected RequestDecidedEvent, got %T", event)
	}

	owner, err := h.recipients.GetByID(ctx, decided.OwnerID)
	if err != nil {
		h.logger.Error("failed to resolve notification recipient",
			"error", err,
			"owner_id", decided.OwnerID,
			"event_id", decided.EventID())
		return fmt.Errorf("resolve recipient %s: %w", decided.OwnerID, err)
	}

	n := Notification{
		EventID:   decided.EventID(),
		To:        owner.Email,
		Name:      owner.FullName(),
		Subject:   subjectFor(decided),
		Body:      decided.Note,
		RequestID: decided.RequestID,
	}
	if err := h.sender.Send(ctx, n); err != nil {
		h.logger.Error("failed to send notification",
			"error", err,
			"request_id", decided.RequestID,
			"event_id", decided.EventID())
		return fmt.Errorf("send notification for %s: %w", decided.RequestID, err)
	}
	return nil
}

func subjectFor(e *events.RequestDecidedEvent) string {
	switch e.EventType() {
	case events.EventTypePTOApproved:
		return "Your time off request was approved"
	case events.EventTypePTORejected:
		return "Your time off request was rejected"
	case events.EventTypeTimesheetApproved:
		return "Your timesheet was approved"
	case events.EventTypeTimesheetRejected:
		return "Your timesheet was rejected"
	case events.EventTypeTimesheetCorrectionRequested:
		return "Your timesheet needs corrections"
	default:
		return fmt.Sprintf("Your %s request is now %s", e.Kind, e.Status)
	}
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	for _, t := range events.DecisionEventTypes {
		eventBus.Subscribe(t, h.HandleRequestDecided)
	}

	h.logger.Info("notification event handlers registered",
		"handlers", events.DecisionEventTypes)
}

// LogSender writes notifications to the log instead of delivering them.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, n Notification) error {
	s.Logger.InfoContext(ctx, "notification",
		"to", n.To,
		"subject", n.Subject,
		"request_id", n.RequestID,
		"event_id", n.EventID)
	return nil
}
