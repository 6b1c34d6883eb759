package rest

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterConfig wires the handlers and middleware of the HTTP surface.
type RouterConfig struct {
	Logger  *slog.Logger
	Score   *ScoreHandler
	Health  *HealthHandler
	Metrics http.Handler // optional
	Limiter *RateLimiter // nil disables rate limiting
}

// NewRouter builds the service's HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Score.RegisterRoutes(mux)
	cfg.Health.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	// Build middleware chain (applied in reverse order).
	var h http.Handler = mux
	h = RateLimitMiddleware(cfg.Limiter)(h)
	h = RecoverMiddleware(cfg.Logger)(h)
	h = LoggingMiddleware(cfg.Logger)(h)
	h = RequestIDMiddleware(h)
	return otelhttp.NewHandler(h, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}))
}
