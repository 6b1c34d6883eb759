package dto

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/demoscore/internal/domain/model"
	"github.com/bibbank/demoscore/internal/domain/valueobject"
)

// GenerateScoreRequest carries a raw feature payload into the use case.
type GenerateScoreRequest struct {
	RequestID string
	Body      []byte
}

// AttributesDTO mirrors model.Attributes on the wire.
type AttributesDTO struct {
	CashflowStability    float64 `json:"cashflow_stability"`
	SpendControl         float64 `json:"spend_control"`
	UtilitiesReliability float64 `json:"utilities_reliability"`
	RemittanceStability  float64 `json:"remittance_stability"`
}

// ScoreResponse is the JSON body returned for a scored payload.
type ScoreResponse struct {
	Score       int           `json:"score"`
	ScoreBand   string        `json:"score_band"`
	Attributes  AttributesDTO `json:"attributes"`
	ReasonCodes []string      `json:"reasonCodes"`
	Disclaimer  string        `json:"disclaimer"`
}

// ErrorResponse is the JSON body for 4xx/5xx replies.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// FromModel converts a domain ScoreResult to its response DTO.
func FromModel(r model.ScoreResult) ScoreResponse {
	return ScoreResponse{
		Score:     r.Score,
		ScoreBand: r.Band.String(),
		Attributes: AttributesDTO{
			CashflowStability:    r.Attributes.CashflowStability,
			SpendControl:         r.Attributes.SpendControl,
			UtilitiesReliability: r.Attributes.UtilitiesReliability,
			RemittanceStability:  r.Attributes.RemittanceStability,
		},
		ReasonCodes: valueobject.ReasonCodeStrings(r.ReasonCodes),
		Disclaimer:  r.Disclaimer,
	}
}

// AttributePercentage is one attribute rendered for humans.
type AttributePercentage struct {
	Name    string
	Percent decimal.Decimal
}

// AttributePercentages returns the attributes as percentages with one
// decimal place, in response field order.
func (r ScoreResponse) AttributePercentages() []AttributePercentage {
	hundred := decimal.NewFromInt(100)
	pct := func(v float64) decimal.Decimal {
		return decimal.NewFromFloat(v).Mul(hundred).Round(1)
	}
	return []AttributePercentage{
		{Name: "cashflow_stability", Percent: pct(r.Attributes.CashflowStability)},
		{Name: "spend_control", Percent: pct(r.Attributes.SpendControl)},
		{Name: "utilities_reliability", Percent: pct(r.Attributes.UtilitiesReliability)},
		{Name: "remittance_stability", Percent: pct(r.Attributes.RemittanceStability)},
	}
}

// FeaturePayload is the wire shape of a feature set, used to publish the
// demo payload.
type FeaturePayload struct {
	CountryGroup          string  `json:"country_group"`
	BankMonthlyIncome     float64 `json:"bank_monthly_income"`
	BankMonthlySpend      float64 `json:"bank_monthly_spend"`
	BankBalanceVolatility float64 `json:"bank_balance_volatility"`
	UtilitiesOnTimeRate   float64 `json:"utilities_on_time_rate"`
	RemittanceConsistency float64 `json:"remittance_consistency"`
}

// FeaturePayloadFromModel converts a FeatureInput to its wire shape.
func FeaturePayloadFromModel(in model.FeatureInput) FeaturePayload {
	return FeaturePayload{
		BankMonthlyIncome:     in.BankMonthlyIncome,
		BankMonthlySpend:      in.BankMonthlySpend,
		BankBalanceVolatility: in.BankBalanceVolatility,
		UtilitiesOnTimeRate:   in.UtilitiesOnTimeRate,
		RemittanceConsistency: in.RemittanceConsistency,
		CountryGroup:          in.CountryGroup,
	}
}
