package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all published events implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	// PartitionKey groups related events on the broker.
	PartitionKey() string
	OccurredAt() time.Time
}

// BaseEvent provides the identity half of DomainEvent. Concrete events embed
// it and add their own payload fields.
type BaseEvent struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	Key       string    `json:"-"`
	Timestamp time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a new BaseEvent with a generated UUID and the current time.
func NewBaseEvent(eventType, partitionKey string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Key:       partitionKey,
		Timestamp: time.Now().UTC(),
	}
}

// EventID returns the unique identifier for this event.
func (e BaseEvent) EventID() uuid.UUID { return e.ID }

// EventType returns the type name of this event.
func (e BaseEvent) EventType() string { return e.Type }

// PartitionKey returns the broker partition key.
func (e BaseEvent) PartitionKey() string { return e.Key }

// OccurredAt returns the time at which this event occurred.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
