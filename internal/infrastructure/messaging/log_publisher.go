package messaging

import (
	"context"
	"log/slog"

	"github.com/bibbank/demoscore/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging each event. It
// stands in for the Kafka publisher when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogPublisher creates a publisher that logs events at level.
func NewLogPublisher(logger *slog.Logger, level slog.Level) *LogPublisher {
	return &LogPublisher{logger: logger, level: level}
}

// Publish logs one record per event and never fails.
func (p *LogPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	for _, evt := range domainEvents {
		p.logger.Log(ctx, p.level, "domain event",
			slog.String("event_type", evt.EventType()),
			slog.String("event_id", evt.EventID().String()),
			slog.String("partition_key", evt.PartitionKey()),
			slog.Time("occurred_at", evt.OccurredAt()),
		)
	}
	return nil
}
