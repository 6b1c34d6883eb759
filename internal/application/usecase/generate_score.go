package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/demoscore/internal/application/dto"
	"github.com/bibbank/demoscore/internal/domain/event"
	"github.com/bibbank/demoscore/internal/domain/model"
	"github.com/bibbank/demoscore/internal/domain/port"
	"github.com/bibbank/demoscore/internal/domain/service"
)

const tracerName = "github.com/bibbank/demoscore/internal/application/usecase"

// DefaultPublishTimeout bounds how long a request waits on the event publisher.
const DefaultPublishTimeout = 2 * time.Second

// GenerateScore is the use case for scoring a raw feature payload.
type GenerateScore struct {
	scorer    service.Scorer
	publisher port.EventPublisher
	recorder  port.ScoreRecorder
	logger    *slog.Logger
	tracer    trace.Tracer

	publishTimeout time.Duration
}

// NewGenerateScore creates a new GenerateScore use case.
func NewGenerateScore(
	scorer service.Scorer,
	publisher port.EventPublisher,
	recorder port.ScoreRecorder,
	logger *slog.Logger,
) *GenerateScore {
	return &GenerateScore{
		scorer:    scorer,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),

		publishTimeout: DefaultPublishTimeout,
	}
}

// WithPublishTimeout overrides DefaultPublishTimeout. Zero keeps the default.
func (uc *GenerateScore) WithPublishTimeout(d time.Duration) *GenerateScore {
	if d > 0 {
		uc.publishTimeout = d
	}
	return uc
}

// Execute decodes the payload, scores it and publishes a ScoreGenerated
// event. Malformed payloads are rejected before the scorer runs and the
// returned error wraps model.ErrMalformedPayload. The publish is bounded by the
// publish timeout; a failed or timed-out publish is logged and does not
// affect the response.
func (uc *GenerateScore) Execute(ctx context.Context, req dto.GenerateScoreRequest) (dto.ScoreResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "GenerateScore.Execute",
		trace.WithAttributes(attribute.String("request.id", req.RequestID)))
	defer span.End()

	// 1. Decode the payload.
	input, err := model.ParseFeatureInput(req.Body)
	if err != nil {
		uc.recorder.RecordFailure(ctx, "malformed_payload")
		span.SetStatus(codes.Error, "malformed payload")
		return dto.ScoreResponse{}, fmt.Errorf("failed to decode payload: %w", err)
	}

	// 2. Score.
	result, err := uc.scorer.Score(input)
	if err != nil {
		uc.recorder.RecordFailure(ctx, "scoring_error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		return dto.ScoreResponse{}, fmt.Errorf("failed to score payload: %w", err)
	}

	span.SetAttributes(
		attribute.Int("score.value", result.Score),
		attribute.String("score.band", result.Band.String()),
		attribute.Int("score.reason_codes", len(result.ReasonCodes)),
	)
	uc.recorder.RecordScore(ctx, result)

	// 3. Publish the outcome.
	if err := uc.publish(ctx, event.NewScoreGenerated(req.RequestID, result)); err != nil {
		span.RecordError(err)
		uc.logger.WarnContext(ctx, "failed to publish score event",
			"request_id", req.RequestID,
			"error", err,
		)
	}

	uc.logger.InfoContext(ctx, "score generated",
		"request_id", req.RequestID,
		"score", result.Score,
		"score_band", result.Band.String(),
	)

	return dto.FromModel(result), nil
}

func (uc *GenerateScore) publish(ctx context.Context, evt event.ScoreGenerated) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.publishTimeout)
	defer cancel()
	return uc.publisher.Publish(ctx, evt)
}

// IsMalformed reports whether err stems from an undecodable payload.
func IsMalformed(err error) bool {
	return errors.Is(err, model.ErrMalformedPayload)
}
