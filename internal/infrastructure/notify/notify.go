// Package notify delivers status-change notifications produced by the
// transactional outbox.
package notify

import (
	"context"

	"timebill/internal/domain/timesheet"
	"timebill/pkg/logger"
)

// Notification is a rendered message ready for delivery.
type Notification struct {
	// Audience selects the recipients: "owner" or "approvers".
	Audience string

	// BusinessID scopes recipient resolution to one tenant.
	BusinessID string

	// UserID is the owning consultant (recipient when audience is "owner").
	UserID string

	Subject string
	Body    string
}

// Notifier delivers a notification to its audience.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LoggingNotifier writes notifications to the structured log.
// Used in development and as the default delivery channel until a real
// mail or chat integration is configured.
type LoggingNotifier struct {
	log *logger.Logger
}

// NewLoggingNotifier creates a logging notifier.
func NewLoggingNotifier(log *logger.Logger) *LoggingNotifier {
	return &LoggingNotifier{log: log.WithComponent("notify")}
}

// Notify implements Notifier.
func (n *LoggingNotifier) Notify(ctx context.Context, msg Notification) error {
	n.log.Infow("notification",
		"audience", msg.Audience,
		"business_id", msg.BusinessID,
		"user_id", msg.UserID,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

// statusSubject renders the subject line for a status change.
func statusSubject(e timesheet.StatusChangedEvent) string {
	switch e.To {
	case timesheet.StatusSubmitted:
		return "Timesheet " + e.Number + " submitted for approval"
	case timesheet.StatusApproved:
		return "Timesheet " + e.Number + " approved"
	case timesheet.StatusRejected:
		return "Timesheet " + e.Number + " rejected"
	default:
		return "Timesheet " + e.Number + " status changed"
	}
}
