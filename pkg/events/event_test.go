package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("score.generated", "req-123")
	after := time.Now().UTC()

	if event.EventID() == uuid.Nil {
		t.Error("expected non-nil event ID")
	}
	if event.EventType() != "score.generated" {
		t.Errorf("expected event type %q, got %q", "score.generated", event.EventType())
	}
	if event.PartitionKey() != "req-123" {
		t.Errorf("expected partition key %q, got %q", "req-123", event.PartitionKey())
	}
	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestNewBaseEventUniqueIDs(t *testing.T) {
	a := NewBaseEvent("score.generated", "k")
	b := NewBaseEvent("score.generated", "k")
	if a.EventID() == b.EventID() {
		t.Error("expected distinct event IDs")
	}
}

func TestBaseEventJSONOmitsPartitionKey(t *testing.T) {
	event := NewBaseEvent("score.generated", "secret-routing-key")

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["Key"]; ok {
		t.Error("partition key must not be serialized")
	}
	if decoded["event_type"] != "score.generated" {
		t.Errorf("unexpected event_type: %v", decoded["event_type"])
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}
