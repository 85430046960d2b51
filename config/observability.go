package config

import (
	"strings"
	"time"
)

const defaultObservabilityName = "creator-service"

// ObservabilityConfig groups metrics, error reporting and domain event settings.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
	Sentry  SentryConfig
	Events  EventsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Sentry.Sanitize()
	c.Events.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to StatsD.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED" envDefault:"false"`
	StatsdAddress string `env:"STATSD_ADDR"                   envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"STATSD_PREFIX"                 envDefault:"creator_service"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// SentryConfig controls error reporting. An empty DSN disables it.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"`
	ServerName  string `env:"SENTRY_SERVER_NAME"`
}

// Sanitize trims the DSN and fills the server name.
func (c *SentryConfig) Sanitize() {
	c.DSN = strings.TrimSpace(c.DSN)
	if c.ServerName == "" {
		c.ServerName = defaultObservabilityName
	}
}

// EventsConfig controls where domain events go. With no brokers they are logged.
type EventsConfig struct {
	Brokers []string      `env:"KAFKA_BROKERS"         envSeparator:","`
	Topic   string        `env:"KAFKA_TOPIC"           envDefault:"creator-service.events"`
	Timeout time.Duration `env:"KAFKA_PUBLISH_TIMEOUT" envDefault:"5s"`
}

// Sanitize drops blank broker entries.
func (c *EventsConfig) Sanitize() {
	brokers := c.Brokers[:0]
	for _, b := range c.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Brokers = brokers
	if c.Topic = strings.TrimSpace(c.Topic); c.Topic == "" {
		c.Topic = "creator-service.events"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

// KafkaEnabled reports whether events are written to Kafka.
func (c *EventsConfig) KafkaEnabled() bool {
	return len(c.Brokers) > 0
}
