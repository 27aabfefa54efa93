package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/project-management/internal/core/events"
	"github.com/frahmantamala/project-management/internal/notification"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events, inspect handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test decision event",
	Long:  `Publish a decision event to an in-process event bus wired with the notification handler, for debugging`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var (
	eventOwner   string
	eventRequest string
	eventNote    string
)

// cliRecipients resolves any id to a placeholder user so the notification
// handler can run without a database.
type cliRecipients struct{}

func (cliRecipients) GetByID(_ context.Context, id string) (*user.User, error) {
	return &user.User{ID: id, Email: id + "@localhost", FirstName: id, Status: user.StatusActive}, nil
}

func publishTestEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lg := logger.LoggerWrapper()

	known := false
	for _, t := range events.DecisionEventTypes {
		known = known || t == eventType
	}
	if !known {
		return fmt.Errorf("unknown event type %q, want one of %s", eventType, strings.Join(events.DecisionEventTypes, ", "))
	}

	eventBus := events.NewEventBus(lg)
	notification.NewEventHandler(cliRecipients{}, nil, lg).RegisterEventHandlers(eventBus)

	kind, action, _ := strings.Cut(eventType, ".")
	status := strings.ToUpper(action)
	if eventType == events.EventTypeTimesheetCorrectionRequested {
		status = "NEEDS_CORRECTION"
	}
	event := events.NewRequestDecidedEvent(eventType, kind, eventRequest, eventOwner, "cli", status, eventNote)

	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())
	if err := eventBus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	lg.Info("test event handled", "handlers", eventBus.HandlerCount(eventType))
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventOwner, "owner", "employee", "Owner of the decided request")
	publishEventCmd.Flags().StringVar(&eventRequest, "request", "test-request", "Request id carried by the event")
	publishEventCmd.Flags().StringVar(&eventNote, "note", "", "Rejection reason or correction comments")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
