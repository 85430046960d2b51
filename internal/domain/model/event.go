package model

import "time"

// EventType names a domain event published after a state change commits.
type EventType string

const (
	EventJobCreated     EventType = "job.created"
	EventJobHired       EventType = "job.hired"
	EventJobCompleted   EventType = "job.completed"
	EventCreatorCreated EventType = "creator.created"
)

// Event is the message written to the event stream.
// Key is used for partitioning and is normally the job or creator id.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps an event with a fresh id and the given time.
func NewEvent(typ EventType, key string, payload any, now time.Time) Event {
	return Event{
		ID:         NewID(),
		Type:       typ,
		Key:        key,
		Payload:    payload,
		OccurredAt: now.UTC(),
	}
}
