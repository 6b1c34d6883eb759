package valueobject

// ReasonCode is a short machine-readable explanation attached to a score.
type ReasonCode string

const (
	ReasonUtilitiesBelowTarget     ReasonCode = "UTIL_ON_TIME_BELOW_TARGET"
	ReasonCashflowVolatile         ReasonCode = "CASHFLOW_VOLATILE"
	ReasonLowSavingsRate           ReasonCode = "LOW_SAVINGS_RATE"
	ReasonRemittanceInconsistent   ReasonCode = "REMITTANCE_INCONSISTENT"
	ReasonStrongAlternativeHistory ReasonCode = "STRONG_ALTERNATIVE_HISTORY"
)

// Thresholds that trigger each adverse reason code.
const (
	UtilitiesOnTimeTarget      = 0.85 // below
	BalanceVolatilityLimit     = 0.40 // above
	SavingsRateTarget          = 0.10 // below
	RemittanceConsistencyFloor = 0.55 // below
)

// IsAdverse reports whether the code flags a weakness rather than the
// all-clear fallback.
func (c ReasonCode) IsAdverse() bool {
	switch c {
	case ReasonUtilitiesBelowTarget, ReasonCashflowVolatile, ReasonLowSavingsRate, ReasonRemittanceInconsistent:
		return true
	default:
		return false
	}
}

// ReasonCodeStrings converts codes for wire output.
func ReasonCodeStrings(codes []ReasonCode) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
