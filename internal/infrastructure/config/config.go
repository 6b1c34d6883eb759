package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevPlaceholderSecret is the well-known key used only in development.
const DevPlaceholderSecret = "local-dev-secret"

var (
	// ErrMissingSecret is returned when no secret is configured outside development.
	ErrMissingSecret = errors.New("DEMO_SECRET or DEMO_SECRET_FILE is required outside development")
	// ErrPlaceholderSecret is returned when the development key is used elsewhere.
	ErrPlaceholderSecret = errors.New("the development placeholder secret must not be used outside development")
)

// KafkaConfig selects the brokers and topic that receive score events, and
// how the producer authenticates to them. SASL is switched on by setting a
// mechanism or a username.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	TLS           bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// SASLEnabled reports whether the producer must authenticate with SASL.
func (k KafkaConfig) SASLEnabled() bool {
	return k.SASLMechanism != "" || k.SASLUsername != ""
}

// TLSConfig names the PEM key pair the HTTP server serves with. Leaving both
// empty serves plain HTTP.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether both halves of the key pair are configured.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// Config holds all configuration for the score service.
type Config struct {
	Environment     string
	LogLevel        string
	LogFormat       string
	OTLPEndpoint    string
	ServiceName     string
	Kafka           KafkaConfig
	TLS             TLSConfig
	Secret          []byte
	HTTPPort        int
	RateLimit       int // requests per second, 0 disables
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	PublishTimeout  time.Duration

	// SecretIsPlaceholder is set when Load fell back to DevPlaceholderSecret.
	SecretIsPlaceholder bool

	secretErr error
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		Environment:     getEnv("APP_ENV", "production"),
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		RateLimit:       getEnvInt("RATE_LIMIT", 100),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 15)) * time.Second,
		PublishTimeout:  time.Duration(getEnvInt("PUBLISH_TIMEOUT_MS", 2000)) * time.Millisecond,
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:     "score-service",
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:         getEnv("KAFKA_TOPIC", "score-events"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLMechanism: strings.ToUpper(getEnv("KAFKA_SASL_MECHANISM", "")),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		TLS: TLSConfig{
			CertFile: getEnv("TLS_CERT_FILE", ""),
			KeyFile:  getEnv("TLS_KEY_FILE", ""),
		},
	}

	secret, err := loadSecret()
	switch {
	case err != nil:
		cfg.secretErr = err
	case secret == "" && cfg.IsDevelopment():
		cfg.Secret = []byte(DevPlaceholderSecret)
		cfg.SecretIsPlaceholder = true
	default:
		cfg.Secret = []byte(secret)
	}

	return cfg
}

// IsDevelopment reports whether the service runs in a local development
// environment, where the placeholder secret is tolerated.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.Environment) {
	case "development", "dev", "local":
		return true
	default:
		return false
	}
}

// Validate fails fast on configuration that must not reach production.
func (c Config) Validate() error {
	if c.secretErr != nil {
		return c.secretErr
	}
	if len(c.Secret) == 0 {
		return ErrMissingSecret
	}
	if !c.IsDevelopment() && string(c.Secret) == DevPlaceholderSecret {
		return ErrPlaceholderSecret
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative: %d", c.RateLimit)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive: %d", c.MaxBodyBytes)
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.Kafka.SASLEnabled() {
		switch c.Kafka.SASLMechanism {
		case "", "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return fmt.Errorf("unsupported KAFKA_SASL_MECHANISM %q", c.Kafka.SASLMechanism)
		}
		if c.Kafka.SASLUsername == "" {
			return errors.New("KAFKA_SASL_USERNAME is required when SASL is enabled")
		}
	}
	if c.PublishTimeout < 0 {
		return fmt.Errorf("PUBLISH_TIMEOUT_MS must not be negative: %s", c.PublishTimeout)
	}
	return nil
}

// HTTPAddr returns the listen address for the HTTP server.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// loadSecret prefers DEMO_SECRET and falls back to the contents of
// DEMO_SECRET_FILE.
func loadSecret() (string, error) {
	if v := os.Getenv("DEMO_SECRET"); v != "" {
		return v, nil
	}
	path := os.Getenv("DEMO_SECRET_FILE")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading DEMO_SECRET_FILE: %w", err)
	}
	secret := strings.TrimRight(string(data), "\r\n")
	if secret == "" {
		return "", fmt.Errorf("DEMO_SECRET_FILE %s is empty", path)
	}
	return secret, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
