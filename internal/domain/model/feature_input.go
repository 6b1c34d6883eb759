package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedPayload is returned when a request body is not valid JSON.
var ErrMalformedPayload = errors.New("malformed feature payload")

// DefaultCountryGroup applies when country_group is absent.
const DefaultCountryGroup = "global"

// HighSignalCountryGroup is the only country group with scoring weight.
const HighSignalCountryGroup = "high_signal"

// Feature keys as they appear on the wire.
const (
	KeyBankMonthlyIncome     = "bank_monthly_income"
	KeyBankMonthlySpend      = "bank_monthly_spend"
	KeyBankBalanceVolatility = "bank_balance_volatility"
	KeyUtilitiesOnTimeRate   = "utilities_on_time_rate"
	KeyRemittanceConsistency = "remittance_consistency"
	KeyCountryGroup          = "country_group"
)

// FeatureInput is the coarse set of financial and behavioural signals a
// caller submits for scoring. None of the fields is required; absent numeric
// fields are zero and an absent country group is "global". Ranges are not
// enforced here; the engine clamps where it matters.
type FeatureInput struct {
	BankMonthlyIncome     float64 `json:"bank_monthly_income"`
	BankMonthlySpend      float64 `json:"bank_monthly_spend"`
	BankBalanceVolatility float64 `json:"bank_balance_volatility"`
	UtilitiesOnTimeRate   float64 `json:"utilities_on_time_rate"`
	RemittanceConsistency float64 `json:"remittance_consistency"`
	CountryGroup          string  `json:"country_group"`

	// canonical holds the sorted-key encoding of the full payload as
	// received, unknown keys included. Nil for inputs built in code.
	canonical []byte
}

// ParseFeatureInput decodes a request body. An empty body is treated as {}.
// Syntactically invalid JSON is the only failure: numbers beyond the float64
// range become ±Inf, known fields of another JSON type are coerced to a
// number (NaN when they have no numeric reading), and a top-level value
// that is not an object scores with every field at its default.
func ParseFeatureInput(body []byte) (FeatureInput, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		trimmed = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return FeatureInput{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return FeatureInput{}, fmt.Errorf("%w: unexpected data after top-level value", ErrMalformedPayload)
	}

	in := FeatureInput{CountryGroup: DefaultCountryGroup}

	if obj, ok := decoded.(map[string]any); ok {
		numbers := []struct {
			key string
			dst *float64
		}{
			{KeyBankMonthlyIncome, &in.BankMonthlyIncome},
			{KeyBankMonthlySpend, &in.BankMonthlySpend},
			{KeyBankBalanceVolatility, &in.BankBalanceVolatility},
			{KeyUtilitiesOnTimeRate, &in.UtilitiesOnTimeRate},
			{KeyRemittanceConsistency, &in.RemittanceConsistency},
		}
		for _, n := range numbers {
			if v, present := obj[n.key]; present {
				*n.dst = toNumber(v)
			}
		}

		// Only a string can name the high-signal group; other types keep
		// the default.
		if s, isString := obj[KeyCountryGroup].(string); isString {
			in.CountryGroup = s
		}
	}

	canonical, err := CanonicalJSON(normalizeNumbers(decoded))
	if err != nil {
		return FeatureInput{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	in.canonical = canonical

	return in, nil
}

// Canonical returns the bytes the stable hash is computed over.
func (f FeatureInput) Canonical() ([]byte, error) {
	if f.canonical != nil {
		return f.canonical, nil
	}
	country := f.CountryGroup
	if country == "" {
		country = DefaultCountryGroup
	}
	return CanonicalJSON(map[string]any{
		KeyBankMonthlyIncome:     jsonFloat(f.BankMonthlyIncome),
		KeyBankMonthlySpend:      jsonFloat(f.BankMonthlySpend),
		KeyBankBalanceVolatility: jsonFloat(f.BankBalanceVolatility),
		KeyUtilitiesOnTimeRate:   jsonFloat(f.UtilitiesOnTimeRate),
		KeyRemittanceConsistency: jsonFloat(f.RemittanceConsistency),
		KeyCountryGroup:          country,
	})
}

// IsHighSignal reports whether the country group earns the regional bump.
func (f FeatureInput) IsHighSignal() bool {
	return f.CountryGroup == HighSignalCountryGroup
}

// DemoFeatureSet is the fixed payload the preview UI submits.
func DemoFeatureSet() FeatureInput {
	return FeatureInput{
		BankMonthlyIncome:     5200,
		BankMonthlySpend:      4100,
		BankBalanceVolatility: 0.28,
		UtilitiesOnTimeRate:   0.92,
		RemittanceConsistency: 0.70,
		CountryGroup:          DefaultCountryGroup,
	}
}
