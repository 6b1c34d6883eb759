package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/demoscore/internal/domain/model"
	"github.com/bibbank/demoscore/internal/domain/service"
)

// MeterName is the instrumentation scope of the score metrics.
const MeterName = "github.com/bibbank/demoscore/score"

// Buckets are upper-inclusive and scores are integers. Bounds sit one below
// each band floor so no bucket straddles two bands.
var scoreBuckets = []float64{
	service.MinScore, 400, 500, 600, 639, 699, 759, 800, service.MaxScore,
}

// ScoreRecorder implements port.ScoreRecorder on OpenTelemetry instruments.
type ScoreRecorder struct {
	scores   metric.Int64Counter
	values   metric.Int64Histogram
	reasons  metric.Int64Counter
	failures metric.Int64Counter
}

// NewScoreRecorder creates the score instruments on meter.
func NewScoreRecorder(meter metric.Meter) (*ScoreRecorder, error) {
	scores, err := meter.Int64Counter("score_requests",
		metric.WithDescription("Scores generated, by band."),
		metric.WithUnit("{score}"))
	if err != nil {
		return nil, fmt.Errorf("creating score_requests counter: %w", err)
	}

	values, err := meter.Int64Histogram("score_value",
		metric.WithDescription("Distribution of generated scores."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...))
	if err != nil {
		return nil, fmt.Errorf("creating score_value histogram: %w", err)
	}

	reasons, err := meter.Int64Counter("score_reason_codes",
		metric.WithDescription("Reason codes attached to generated scores."),
		metric.WithUnit("{code}"))
	if err != nil {
		return nil, fmt.Errorf("creating score_reason_codes counter: %w", err)
	}

	failures, err := meter.Int64Counter("score_failures",
		metric.WithDescription("Score requests that did not produce a score, by reason."),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("creating score_failures counter: %w", err)
	}

	return &ScoreRecorder{
		scores:   scores,
		values:   values,
		reasons:  reasons,
		failures: failures,
	}, nil
}

// RecordScore counts result under its band, adds its score to the score_value
// histogram and counts each of its reason codes.
func (r *ScoreRecorder) RecordScore(ctx context.Context, result model.ScoreResult) {
	band := metric.WithAttributes(attribute.String("band", result.Band.String()))
	r.scores.Add(ctx, 1, band)
	r.values.Record(ctx, int64(result.Score), band)
	for _, code := range result.ReasonCodes {
		r.reasons.Add(ctx, 1, metric.WithAttributes(attribute.String("code", string(code))))
	}
}

// RecordFailure counts a request that produced no score, labelled by reason.
func (r *ScoreRecorder) RecordFailure(ctx context.Context, reason string) {
	r.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
