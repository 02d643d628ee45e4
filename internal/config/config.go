// Package config is rpcbridge's configuration surface: a single Config
// struct loaded from RPCBRIDGE_* environment variables, a YAML file, and
// defaults, in that order of precedence.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the top-level rpcbridge configuration.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (RPCBRIDGE_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Logging controls the package-level logger.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry tracing.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics controls the Prometheus metrics registry.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Server configures the rpcd listener and worker pool.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Client configures rpcc's default dial target.
	Client ClientConfig `mapstructure:"client" yaml:"client"`
}

// LoggingConfig controls the package-level logger.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the log encoding.
	// Valid values: text, json.
	Format string `mapstructure:"format" yaml:"format"`

	// Output is stdout, stderr, or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	// Enabled turns on span export. Default: false.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is the fraction of traces to sample, 0.0 to 1.0.
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// MetricsConfig controls the Prometheus metrics registry and its HTTP
// exposition endpoint.
type MetricsConfig struct {
	// Enabled turns on metrics collection. Default: false.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Addr is the listen address for the /metrics endpoint, e.g. ":9090".
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// ServerConfig configures rpcd.
type ServerConfig struct {
	// Port is the TCP listen port, 1..65535.
	Port int `mapstructure:"port" yaml:"port"`

	// Workers is the fixed worker pool size.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Backlog is the accept queue capacity. It is defaulted and validated
	// but not passed to the listener: rpcserver binds with net.Listen, which
	// uses the platform's default accept backlog.
	Backlog int `mapstructure:"backlog" yaml:"backlog"`
}

// ClientConfig configures rpcc's default connection target.
type ClientConfig struct {
	// Addr is the server hostname or IP.
	Addr string `mapstructure:"addr" yaml:"addr"`

	// Port is the server's TCP port.
	Port int `mapstructure:"port" yaml:"port"`

	// DialTimeout bounds the initial connect + CONNECT exchange.
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
}

var validLevels = map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
var validFormats = map[string]bool{"text": true, "json": true}

// ApplyDefaults fills zero-valued fields with sensible defaults. It is
// called after unmarshalling a config file and before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7000
	}
	if cfg.Server.Workers == 0 {
		cfg.Server.Workers = 10
	}
	if cfg.Server.Backlog == 0 {
		cfg.Server.Backlog = 128
	}

	if cfg.Client.Addr == "" {
		cfg.Client.Addr = "127.0.0.1"
	}
	if cfg.Client.Port == 0 {
		cfg.Client.Port = cfg.Server.Port
	}
	if cfg.Client.DialTimeout == 0 {
		cfg.Client.DialTimeout = 5 * time.Second
	}
}

// Validate checks cfg for internally inconsistent or out-of-range values.
// Written by hand rather than against a struct-tag validator library; see
// DESIGN.md for why.
func Validate(cfg *Config) error {
	if !validLevels[strings.ToUpper(cfg.Logging.Level)] {
		return fmt.Errorf("config: logging.level must be one of DEBUG, INFO, WARN, ERROR, got %q", cfg.Logging.Level)
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("config: logging.format must be one of text, json, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output == "" {
		return fmt.Errorf("config: logging.output must not be empty")
	}

	if cfg.Telemetry.SampleRate < 0 || cfg.Telemetry.SampleRate > 1 {
		return fmt.Errorf("config: telemetry.sample_rate must be within [0, 1], got %f", cfg.Telemetry.SampleRate)
	}

	if cfg.Metrics.Enabled {
		if err := validatePort(cfg.Metrics.Addr); err != nil {
			return fmt.Errorf("config: metrics.addr: %w", err)
		}
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be within 1..65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.Workers < 1 {
		return fmt.Errorf("config: server.workers must be positive, got %d", cfg.Server.Workers)
	}
	if cfg.Server.Backlog < 1 {
		return fmt.Errorf("config: server.backlog must be positive, got %d", cfg.Server.Backlog)
	}

	if cfg.Client.Port < 1 || cfg.Client.Port > 65535 {
		return fmt.Errorf("config: client.port must be within 1..65535, got %d", cfg.Client.Port)
	}
	if cfg.Client.Addr == "" {
		return fmt.Errorf("config: client.addr must not be empty")
	}
	if cfg.Client.DialTimeout < 0 {
		return fmt.Errorf("config: client.dial_timeout must not be negative")
	}

	return nil
}

// validatePort checks that addr is a well-formed "host:port" (or ":port")
// listen address with a port in range.
func validatePort(addr string) error {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port out of range in %q", addr)
	}
	return nil
}

// DefaultConfig returns a Config with ApplyDefaults already run.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
