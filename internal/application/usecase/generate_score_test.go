package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/demoscore/internal/application/dto"
	"github.com/bibbank/demoscore/internal/application/usecase"
	"github.com/bibbank/demoscore/internal/domain/event"
	"github.com/bibbank/demoscore/internal/domain/model"
	"github.com/bibbank/demoscore/internal/domain/service"
	"github.com/bibbank/demoscore/pkg/events"
	"github.com/bibbank/demoscore/pkg/testutil"
)

// --- Mock implementations ---

type mockEventPublisher struct {
	mu              sync.Mutex
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockRecorder struct {
	scores   []model.ScoreResult
	failures []string
}

func (m *mockRecorder) RecordScore(_ context.Context, result model.ScoreResult) {
	m.scores = append(m.scores, result)
}

func (m *mockRecorder) RecordFailure(_ context.Context, reason string) {
	m.failures = append(m.failures, reason)
}

type countingScorer struct {
	calls int
	err   error
	inner service.Scorer
}

func (s *countingScorer) Score(input model.FeatureInput) (model.ScoreResult, error) {
	s.calls++
	if s.err != nil {
		return model.ScoreResult{}, s.err
	}
	return s.inner.Score(input)
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newScorer(t *testing.T) *countingScorer {
	t.Helper()
	engine, err := service.NewScoreEngine([]byte(testutil.DevSecret))
	require.NoError(t, err)
	return &countingScorer{inner: engine}
}

// --- Tests ---

func TestGenerateScore_Execute(t *testing.T) {
	t.Run("scores the example payload and publishes an event", func(t *testing.T) {
		scorer := newScorer(t)
		publisher := &mockEventPublisher{}
		recorder := &mockRecorder{}
		uc := usecase.NewGenerateScore(scorer, publisher, recorder, testLogger())

		resp, err := uc.Execute(context.Background(), dto.GenerateScoreRequest{
			RequestID: "req-example",
			Body:      []byte(testutil.ExamplePayload),
		})

		require.NoError(t, err)
		assert.Equal(t, testutil.ExampleScore, resp.Score)
		assert.Equal(t, "Good", resp.ScoreBand)
		assert.Equal(t, []string{"STRONG_ALTERNATIVE_HISTORY"}, resp.ReasonCodes)
		assert.Equal(t, model.Disclaimer, resp.Disclaimer)

		require.Len(t, publisher.publishedEvents, 1)
		evt, ok := publisher.publishedEvents[0].(event.ScoreGenerated)
		require.True(t, ok)
		assert.Equal(t, "req-example", evt.RequestID)
		assert.Equal(t, testutil.ExampleScore, evt.Score)

		require.Len(t, recorder.scores, 1)
		assert.Empty(t, recorder.failures)
	})

	t.Run("empty body falls back to defaults", func(t *testing.T) {
		uc := usecase.NewGenerateScore(newScorer(t), &mockEventPublisher{}, &mockRecorder{}, testLogger())

		resp, err := uc.Execute(context.Background(), dto.GenerateScoreRequest{RequestID: "req-empty"})

		require.NoError(t, err)
		assert.Equal(t, testutil.EmptyScore, resp.Score)
		assert.Equal(t, "Fair", resp.ScoreBand)
	})

	t.Run("malformed payload never reaches the scorer", func(t *testing.T) {
		scorer := newScorer(t)
		publisher := &mockEventPublisher{}
		recorder := &mockRecorder{}
		uc := usecase.NewGenerateScore(scorer, publisher, recorder, testLogger())

		_, err := uc.Execute(context.Background(), dto.GenerateScoreRequest{
			RequestID: "req-bad",
			Body:      []byte(`{"bank_monthly_income":`),
		})

		require.Error(t, err)
		assert.True(t, usecase.IsMalformed(err))
		testutil.AssertErrorContains(t, err, "failed to decode payload")
		assert.Zero(t, scorer.calls)
		assert.Empty(t, publisher.publishedEvents)
		assert.Equal(t, []string{"malformed_payload"}, recorder.failures)
	})

	t.Run("scorer failure is surfaced as an unexpected error", func(t *testing.T) {
		scorer := newScorer(t)
		scorer.err = errors.New("boom")
		recorder := &mockRecorder{}
		uc := usecase.NewGenerateScore(scorer, &mockEventPublisher{}, recorder, testLogger())

		_, err := uc.Execute(context.Background(), dto.GenerateScoreRequest{Body: []byte(`{}`)})

		require.Error(t, err)
		assert.False(t, usecase.IsMalformed(err))
		testutil.AssertErrorContains(t, err, "failed to score payload")
		assert.Equal(t, []string{"scoring_error"}, recorder.failures)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		publisher := &mockEventPublisher{
			publishFunc: func(context.Context, ...events.DomainEvent) error {
				return fmt.Errorf("kafka unavailable")
			},
		}
		uc := usecase.NewGenerateScore(newScorer(t), publisher, &mockRecorder{}, testLogger())

		resp, err := uc.Execute(context.Background(), dto.GenerateScoreRequest{Body: []byte(testutil.ExamplePayload)})

		require.NoError(t, err)
		assert.Equal(t, testutil.ExampleScore, resp.Score)
	})

	t.Run("slow publisher is cut off by the publish timeout", func(t *testing.T) {
		var hadDeadline bool
		publisher := &mockEventPublisher{
			publishFunc: func(ctx context.Context, _ ...events.DomainEvent) error {
				_, hadDeadline = ctx.Deadline()
				<-ctx.Done()
				return ctx.Err()
			},
		}
		uc := usecase.NewGenerateScore(newScorer(t), publisher, &mockRecorder{}, testLogger()).
			WithPublishTimeout(20 * time.Millisecond)

		start := time.Now()
		resp, err := uc.Execute(context.Background(), dto.GenerateScoreRequest{Body: []byte(testutil.ExamplePayload)})

		require.NoError(t, err)
		assert.Equal(t, testutil.ExampleScore, resp.Score)
		assert.True(t, hadDeadline)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("cancelled request still publishes", func(t *testing.T) {
		publisher := &mockEventPublisher{}
		uc := usecase.NewGenerateScore(newScorer(t), publisher, &mockRecorder{}, testLogger())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := uc.Execute(ctx, dto.GenerateScoreRequest{Body: []byte(`{}`)})

		require.NoError(t, err)
		assert.Len(t, publisher.publishedEvents, 1)
	})
}
