package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "HISTORY_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// History change events pushed to connected clients.
const (
	TypeHistoryCreated = "HISTORY_CREATED"
	TypeHistoryUpdated = "HISTORY_UPDATED"
	TypeHistoryDeleted = "HISTORY_DELETED"
)

// BaseEvent is the generic Event implementation used across the app.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewHistoryEvent builds a per-user history change event. The user_id key is
// the routing convention the history feed worker relies on.
func NewHistoryEvent(eventType string, userID string, record map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id": userID,
			"record":  record,
		},
		OccurredAt: time.Now(),
	}
}
