package model

import "github.com/bibbank/demoscore/internal/domain/valueobject"

// Disclaimer accompanies every score.
const Disclaimer = "Demo score for product preview only. Not a consumer report or lending decision."

// Attributes are lender-style risk attributes normalised to [0,1].
type Attributes struct {
	CashflowStability    float64 `json:"cashflow_stability"`
	SpendControl         float64 `json:"spend_control"`
	UtilitiesReliability float64 `json:"utilities_reliability"`
	RemittanceStability  float64 `json:"remittance_stability"`
}

// AsMap returns the attributes keyed by wire name.
func (a Attributes) AsMap() map[string]float64 {
	return map[string]float64{
		"cashflow_stability":    a.CashflowStability,
		"spend_control":         a.SpendControl,
		"utilities_reliability": a.UtilitiesReliability,
		"remittance_stability":  a.RemittanceStability,
	}
}

// ScoreResult is the immutable outcome of scoring one FeatureInput.
type ScoreResult struct {
	Score       int
	Band        valueobject.ScoreBand
	Attributes  Attributes
	ReasonCodes []valueobject.ReasonCode
	Disclaimer  string
}
