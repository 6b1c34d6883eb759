package event

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/demoscore/internal/domain/model"
	"github.com/bibbank/demoscore/internal/domain/valueobject"
	"github.com/bibbank/demoscore/pkg/events"
)

// EventTypeScoreGenerated is emitted after every successful score.
const EventTypeScoreGenerated = "score.generated"

// attributePlaces is the precision of attribute values on the event stream.
const attributePlaces = 4

// ScoreGenerated is published when a demo score has been produced. It
// carries the outcome only; the submitted features never leave the service.
type ScoreGenerated struct {
	events.BaseEvent
	RequestID   string                     `json:"request_id"`
	ScoreBand   string                     `json:"score_band"`
	ReasonCodes []string                   `json:"reason_codes"`
	Attributes  map[string]decimal.Decimal `json:"attributes"`
	Score       int                        `json:"score"`
}

// NewScoreGenerated builds the event for result, keyed by requestID.
func NewScoreGenerated(requestID string, result model.ScoreResult) ScoreGenerated {
	attrs := make(map[string]decimal.Decimal, 4)
	for name, v := range result.Attributes.AsMap() {
		attrs[name] = decimal.NewFromFloat(v).Round(attributePlaces)
	}

	return ScoreGenerated{
		BaseEvent:   events.NewBaseEvent(EventTypeScoreGenerated, requestID),
		RequestID:   requestID,
		Score:       result.Score,
		ScoreBand:   result.Band.String(),
		ReasonCodes: valueobject.ReasonCodeStrings(result.ReasonCodes),
		Attributes:  attrs,
	}
}
