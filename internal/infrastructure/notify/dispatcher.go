package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"timebill/internal/domain/timesheet"
	"timebill/internal/infrastructure/storage/postgres"
	"timebill/pkg/logger"
)

// Dispatcher decodes outbox messages and hands them to a Notifier.
// It implements postgres.OutboxHandler.
type Dispatcher struct {
	notifier Notifier
	log      *logger.Logger
}

// NewDispatcher creates a new outbox dispatcher.
func NewDispatcher(notifier Notifier, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		log:      log.WithComponent("dispatcher"),
	}
}

// Handle processes a single outbox message.
func (d *Dispatcher) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	switch msg.EventType {
	case timesheet.EventStatusChanged:
		var event timesheet.StatusChangedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s payload: %w", msg.EventType, err)
		}
		return d.notifier.Notify(ctx, Notification{
			Audience:   event.Audience,
			BusinessID: event.BusinessID.String(),
			UserID:     event.UserID.String(),
			Subject:    statusSubject(event),
			Body: fmt.Sprintf("Timesheet %s moved from %s to %s.",
				event.Number, event.From, event.To),
		})

	case timesheet.EventCreated:
		// Creation itself is not broadcast; the submit transition carries
		// the approver notification. Kept for audit trail consumers.
		return nil

	default:
		d.log.Warnw("unknown outbox event type, skipping",
			"event_type", msg.EventType,
			"message_id", msg.ID.String(),
		)
		return nil
	}
}

// Runner polls the outbox relay on a fixed interval.
type Runner struct {
	relay    *postgres.OutboxRelay
	interval time.Duration
	log      *logger.Logger
}

// NewRunner creates a runner with the given poll interval.
func NewRunner(relay *postgres.OutboxRelay, interval time.Duration, log *logger.Logger) *Runner {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Runner{
		relay:    relay,
		interval: interval,
		log:      log.WithComponent("outbox-runner"),
	}
}

// Run polls until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processed, err := r.relay.ProcessBatch(ctx)
			if err != nil {
				r.log.Errorw("outbox batch failed", "error", err)
				continue
			}
			if processed > 0 {
				r.log.Debugw("outbox batch processed", "count", processed)
			}
		}
	}
}
