package timesheet

import (
	"context"
	"time"

	"timebill/internal/core/id"
	"timebill/internal/core/types"
)

// Event type names published to the outbox.
const (
	EventCreated       = "TimesheetCreated"
	EventStatusChanged = "TimesheetStatusChanged"

	// AggregateType for outbox messages
	AggregateType = "Timesheet"
)

// Notification audiences. Submit notifies the tenant's approvers,
// approve/reject notify the owning consultant.
const (
	AudienceOwner     = "owner"
	AudienceApprovers = "approvers"
)

// CreatedEvent is emitted once per timesheet creation.
type CreatedEvent struct {
	TimesheetID id.ID       `json:"timesheetId"`
	BusinessID  id.ID       `json:"businessId"`
	UserID      id.ID       `json:"userId"`
	Number      string      `json:"number"`
	Status      Status      `json:"status"`
	TotalHours  types.Hours `json:"totalHours"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// StatusChangedEvent is emitted exactly once per status transition.
type StatusChangedEvent struct {
	TimesheetID id.ID     `json:"timesheetId"`
	BusinessID  id.ID     `json:"businessId"`
	UserID      id.ID     `json:"userId"`
	Number      string    `json:"number"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
	ActorID     string    `json:"actorId"`
	Audience    string    `json:"audience"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// audienceFor maps a target status to the notification audience.
func audienceFor(to Status) string {
	if to == StatusSubmitted {
		return AudienceApprovers
	}
	return AudienceOwner
}

// EventPublisher writes domain events to the transactional outbox.
// Implementations must require an ambient transaction so events commit
// or roll back with the state change that produced them.
type EventPublisher interface {
	PublishEvent(ctx context.Context, aggregateType string, aggregateID id.ID, eventType string, payload any) error
}
