package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// AssertScoreInRange checks the 300-850 score invariant.
func AssertScoreInRange(t *testing.T, score int) {
	t.Helper()
	assert.GreaterOrEqual(t, score, 300, "score below floor")
	assert.LessOrEqual(t, score, 850, "score above ceiling")
}

// AssertUnitInterval checks that every value lies in [0,1].
func AssertUnitInterval(t *testing.T, values map[string]float64) {
	t.Helper()
	for name, v := range values {
		assert.GreaterOrEqual(t, v, 0.0, "%s below 0", name)
		assert.LessOrEqual(t, v, 1.0, "%s above 1", name)
	}
}
