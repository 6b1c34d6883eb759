package port

import (
	"context"

	"github.com/bibbank/demoscore/internal/domain/model"
	"github.com/bibbank/demoscore/pkg/events"
)

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// ScoreRecorder receives score outcomes for telemetry.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, result model.ScoreResult)
	RecordFailure(ctx context.Context, reason string)
}
