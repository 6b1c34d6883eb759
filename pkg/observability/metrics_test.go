package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetricsExposesInstruments(t *testing.T) {
	provider, handler, err := InitMetrics(MetricsConfig{
		ServiceName: "score-service-test",
		Registry:    prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	counter, err := provider.Meter("test").Int64Counter("demo_events")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), "demo_events_total")
}

func TestInitMetricsTwiceDoesNotCollide(t *testing.T) {
	for i := 0; i < 2; i++ {
		provider, handler, err := InitMetrics(MetricsConfig{})
		require.NoError(t, err)
		require.NotNil(t, handler)
		_ = provider.Shutdown(context.Background())
	}
}
