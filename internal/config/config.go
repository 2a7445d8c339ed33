package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Missing-input policies.
const (
	PolicyAbort = "abort"
	PolicySkip  = "skip"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	LogLevel          string
	LogFormat         string
	ReportFormat      string
	MissingFilePolicy string

	// HTTPAddr enables the health/metrics/regions server when non-empty.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Summary publishing is enabled when KafkaBrokers is non-empty.
	KafkaBrokers      []string
	KafkaSummaryTopic string
}

// KafkaEnabled reports whether region summaries should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, fmt.Errorf("parse SHUTDOWN_TIMEOUT: %w", err)
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ReportFormat:      sharedcfg.EnvOrDefault("REPORT_FORMAT", FormatText),
		MissingFilePolicy: sharedcfg.EnvOrDefault("MISSING_FILE_POLICY", PolicyAbort),
		HTTPAddr:          os.Getenv("HTTP_ADDR"),
		ShutdownTimeout:   shutdownTimeout,
		KafkaBrokers:      brokers,
		KafkaSummaryTopic: sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "climate-region-summaries"),
	}

	switch cfg.ReportFormat {
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("invalid REPORT_FORMAT %q: want %s or %s", cfg.ReportFormat, FormatText, FormatJSON)
	}
	switch cfg.MissingFilePolicy {
	case PolicyAbort, PolicySkip:
	default:
		return nil, fmt.Errorf("invalid MISSING_FILE_POLICY %q: want %s or %s", cfg.MissingFilePolicy, PolicyAbort, PolicySkip)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if cfg.KafkaEnabled() && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_SUMMARY_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}
