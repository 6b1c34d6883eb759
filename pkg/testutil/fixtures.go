package testutil

// Shared scoring fixtures. Payloads are raw JSON so any layer can feed them
// through its own decoding path.
const (
	// DevSecret is the development placeholder key.
	DevSecret = "local-dev-secret"

	// ExamplePayload is the demo feature set the browser UI posts.
	ExamplePayload = `{
		"bank_monthly_income": 5200,
		"bank_monthly_spend": 4100,
		"bank_balance_volatility": 0.28,
		"utilities_on_time_rate": 0.92,
		"remittance_consistency": 0.70,
		"country_group": "global"
	}`

	// ExampleCanonical is ExamplePayload in sorted-key canonical form.
	ExampleCanonical = `{"bank_balance_volatility":0.28,"bank_monthly_income":5200,"bank_monthly_spend":4100,"country_group":"global","remittance_consistency":0.7,"utilities_on_time_rate":0.92}`

	// ExampleScore is the pinned score of ExamplePayload under DevSecret.
	ExampleScore = 738

	// EmptyScore is the pinned score of "{}" under DevSecret.
	EmptyScore = 674

	// StressedPayload trips every reason-code threshold.
	StressedPayload = `{
		"bank_monthly_income": 3000,
		"bank_monthly_spend": 3400,
		"bank_balance_volatility": 0.75,
		"utilities_on_time_rate": 0.40,
		"remittance_consistency": 0.20,
		"country_group": "global"
	}`
)
