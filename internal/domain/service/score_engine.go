package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/bibbank/demoscore/internal/domain/model"
	"github.com/bibbank/demoscore/internal/domain/valueobject"
)

// ErrEmptySecret is returned when the engine is constructed without a key.
var ErrEmptySecret = errors.New("score engine secret must not be empty")

// Score range and model constants.
const (
	MinScore = 300
	MaxScore = 850

	baseScore = 520.0
	baseSpan  = 240.0

	savingsWeight    = 60.0
	utilitiesWeight  = 110.0
	utilitiesPivot   = 0.7
	remittanceWeight = 70.0
	remittancePivot  = 0.5
	volatilityWeight = 90.0
	volatilityPivot  = 0.35
	highSignalBump   = 10.0
)

// Compile-time assertion that ScoreEngine implements Scorer.
var _ Scorer = (*ScoreEngine)(nil)

// ScoreEngine is a domain service producing deterministic demo scores.
//
// A score starts from a keyed pseudo-random base in [520,760), then receives
// linear nudges from the declared features:
//
//	savings rate             * 60
//	(utilities on-time - .7) * 110
//	(remittance - .5)        * 70
//	(.35 - volatility)       * 90
//	high_signal country      + 10
//
// The sum is clamped to [300,850] and rounded half-up. The engine holds only
// the read-only secret and is safe for concurrent use.
type ScoreEngine struct {
	secret []byte
}

// NewScoreEngine creates a ScoreEngine keyed with secret.
func NewScoreEngine(secret []byte) (*ScoreEngine, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &ScoreEngine{secret: key}, nil
}

// Score evaluates a feature payload. The only error source is canonical
// encoding, which cannot fail for inputs produced by ParseFeatureInput.
func (e *ScoreEngine) Score(input model.FeatureInput) (model.ScoreResult, error) {
	canonical, err := input.Canonical()
	if err != nil {
		return model.ScoreResult{}, fmt.Errorf("canonicalizing payload: %w", err)
	}

	base01 := StableHash(canonical, e.secret)
	savings := SavingsRate(input.BankMonthlyIncome, input.BankMonthlySpend)

	raw := baseScore + base01*baseSpan
	raw += savings * savingsWeight
	raw += (input.UtilitiesOnTimeRate - utilitiesPivot) * utilitiesWeight
	raw += (input.RemittanceConsistency - remittancePivot) * remittanceWeight
	raw += (volatilityPivot - input.BankBalanceVolatility) * volatilityWeight
	if input.IsHighSignal() {
		raw += highSignalBump
	}

	score := roundHalfUp(clamp(raw, MinScore, MaxScore))

	return model.ScoreResult{
		Score:       score,
		Band:        valueobject.ScoreBandFromScore(score),
		Attributes:  deriveAttributes(input, savings),
		ReasonCodes: deriveReasonCodes(input, savings),
		Disclaimer:  model.Disclaimer,
	}, nil
}

// SavingsRate is (income - spend) / income clamped to [-1,1], or 0 when
// there is no positive income. NaN income counts as no income.
func SavingsRate(income, spend float64) float64 {
	if !(income > 0) {
		return 0
	}
	return clamp((income-spend)/income, -1, 1)
}

func deriveAttributes(input model.FeatureInput, savings float64) model.Attributes {
	return model.Attributes{
		CashflowStability:    clamp(1-input.BankBalanceVolatility, 0, 1),
		SpendControl:         clamp(savings, 0, 1),
		UtilitiesReliability: clamp(input.UtilitiesOnTimeRate, 0, 1),
		RemittanceStability:  clamp(input.RemittanceConsistency, 0, 1),
	}
}

// deriveReasonCodes evaluates every threshold in a fixed order. The
// all-clear code is emitted alone when nothing adverse matched.
func deriveReasonCodes(input model.FeatureInput, savings float64) []valueobject.ReasonCode {
	var codes []valueobject.ReasonCode
	if input.UtilitiesOnTimeRate < valueobject.UtilitiesOnTimeTarget {
		codes = append(codes, valueobject.ReasonUtilitiesBelowTarget)
	}
	if input.BankBalanceVolatility > valueobject.BalanceVolatilityLimit {
		codes = append(codes, valueobject.ReasonCashflowVolatile)
	}
	if savings < valueobject.SavingsRateTarget {
		codes = append(codes, valueobject.ReasonLowSavingsRate)
	}
	if input.RemittanceConsistency < valueobject.RemittanceConsistencyFloor {
		codes = append(codes, valueobject.ReasonRemittanceInconsistent)
	}
	if len(codes) == 0 {
		codes = []valueobject.ReasonCode{valueobject.ReasonStrongAlternativeHistory}
	}
	return codes
}

// clamp bounds n to [lo,hi]; NaN maps to lo.
func clamp(n, lo, hi float64) float64 {
	if math.IsNaN(n) {
		return lo
	}
	return math.Max(lo, math.Min(hi, n))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
