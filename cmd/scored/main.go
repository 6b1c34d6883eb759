package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/demoscore/internal/application/usecase"
	"github.com/bibbank/demoscore/internal/domain/port"
	"github.com/bibbank/demoscore/internal/domain/service"
	"github.com/bibbank/demoscore/internal/infrastructure/config"
	"github.com/bibbank/demoscore/internal/infrastructure/kafka"
	"github.com/bibbank/demoscore/internal/infrastructure/messaging"
	"github.com/bibbank/demoscore/internal/infrastructure/telemetry"
	"github.com/bibbank/demoscore/internal/presentation/rest"
	pkgkafka "github.com/bibbank/demoscore/pkg/kafka"
	"github.com/bibbank/demoscore/pkg/observability"
	"github.com/bibbank/demoscore/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.SecretIsPlaceholder {
		logger.Warn("DEMO_SECRET not set, using the development placeholder secret",
			"environment", cfg.Environment)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("score-service exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("score-service stopped")
}

// run wires the service and blocks until ctx is cancelled or a server fails.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting score-service",
		"http_port", cfg.HTTPPort,
		"environment", cfg.Environment,
		"kafka_enabled", cfg.Kafka.Enabled(),
		"tls_enabled", cfg.TLS.Enabled(),
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	otel.SetMeterProvider(meterProvider)

	recorder, err := telemetry.NewScoreRecorder(meterProvider.Meter(telemetry.MeterName))
	if err != nil {
		return fmt.Errorf("initializing score metrics: %w", err)
	}

	// Wire infrastructure adapters.
	publisher, checks, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	engine, err := service.NewScoreEngine(cfg.Secret)
	if err != nil {
		return fmt.Errorf("creating score engine: %w", err)
	}

	// Wire use case and HTTP surface.
	generateScore := usecase.NewGenerateScore(engine, publisher, recorder, logger).
		WithPublishTimeout(cfg.PublishTimeout)

	var limiter *rest.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = rest.NewRateLimiter(cfg.RateLimit)
	}

	handler := rest.NewRouter(rest.RouterConfig{
		Logger:  logger,
		Score:   rest.NewScoreHandler(generateScore, cfg.MaxBodyBytes, logger),
		Health:  rest.NewHealthHandler(cfg.ServiceName, logger, checks),
		Metrics: metricsHandler,
		Limiter: limiter,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.TLS.Enabled() {
		tlsConfig, err := tlsutil.ServerTLSConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("loading TLS key pair: %w", err)
		}
		httpServer.TLSConfig = tlsConfig
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		var serveErr error
		if httpServer.TLSConfig != nil {
			serveErr = httpServer.ListenAndServeTLS("", "")
		} else {
			serveErr = httpServer.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", serveErr)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newPublisher returns the Kafka publisher when brokers are configured and
// a log-only publisher otherwise.
func newPublisher(cfg config.Config, logger *slog.Logger) (port.EventPublisher, map[string]rest.ReadinessCheck, func(), error) {
	if !cfg.Kafka.Enabled() {
		logger.Info("KAFKA_BROKERS not set, score events will be logged only")
		return messaging.NewLogPublisher(logger, slog.LevelDebug), nil, func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		WriteTimeout:  5 * time.Second,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled(),
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating kafka producer: %w", err)
	}

	checks := map[string]rest.ReadinessCheck{"kafka": producer.Ping}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", "error", err)
		}
	}

	return kafka.NewPublisher(producer, cfg.Kafka.Topic, logger), checks, closeFn, nil
}
