package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/demoscore/internal/infrastructure/config"
	"github.com/bibbank/demoscore/internal/infrastructure/kafka"
	"github.com/bibbank/demoscore/internal/infrastructure/messaging"
	"github.com/bibbank/demoscore/pkg/tlsutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPublisher_LogOnlyWithoutBrokers(t *testing.T) {
	pub, checks, closeFn, err := newPublisher(config.Config{}, discardLogger())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &messaging.LogPublisher{}, pub)
	assert.Empty(t, checks)
}

func TestNewPublisher_KafkaWithBrokers(t *testing.T) {
	cfg := config.Config{Kafka: config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "score-events"}}

	pub, checks, closeFn, err := newPublisher(cfg, discardLogger())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &kafka.Publisher{}, pub)
	require.Contains(t, checks, "kafka")
}

func TestNewPublisher_KafkaSecurity(t *testing.T) {
	cfg := config.Config{Kafka: config.KafkaConfig{
		Brokers:       []string{"127.0.0.1:1"},
		Topic:         "score-events",
		TLS:           true,
		SASLMechanism: "SCRAM-SHA-256",
		SASLUsername:  "scorer",
		SASLPassword:  "hunter2",
	}}

	pub, checks, closeFn, err := newPublisher(cfg, discardLogger())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &kafka.Publisher{}, pub)
	require.Contains(t, checks, "kafka")
}

func TestNewPublisher_UnsupportedSASLMechanism(t *testing.T) {
	cfg := config.Config{Kafka: config.KafkaConfig{
		Brokers:       []string{"127.0.0.1:1"},
		Topic:         "score-events",
		SASLMechanism: "GSSAPI",
		SASLUsername:  "scorer",
	}}

	_, _, _, err := newPublisher(cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GSSAPI")
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Environment:     "development",
		ServiceName:     "score-service",
		Secret:          []byte("test-secret"),
		HTTPPort:        freePort(t),
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: time.Second,
	}
}

// startRun runs the service in the background and returns a stop function
// that cancels it and waits for run to return.
func startRun(t *testing.T, cfg config.Config) (stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, discardLogger()) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", cfg.HTTPPort))
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond)

	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return fmt.Errorf("run did not return after cancellation")
		}
	}
}

func TestRunServesTLS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, tlsutil.GenerateSelfSignedCert([]string{"127.0.0.1"}, dir, time.Hour))

	cfg := testConfig(t)
	cfg.TLS = config.TLSConfig{
		CertFile: filepath.Join(dir, tlsutil.ServerFile),
		KeyFile:  filepath.Join(dir, tlsutil.ServerKeyFile),
	}
	stop := startRun(t, cfg)

	clientTLS, err := tlsutil.ClientTLSConfig(filepath.Join(dir, tlsutil.CAFile))
	require.NoError(t, err)
	transport := &http.Transport{TLSClientConfig: clientTLS}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}

	resp, err := client.Get(fmt.Sprintf("https://127.0.0.1:%d/healthz", cfg.HTTPPort))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	transport.CloseIdleConnections()
	assert.NoError(t, stop())
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	stop := startRun(t, cfg)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", cfg.HTTPPort))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NoError(t, stop())
}
