package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"github.com/srg/bleread/internal/transport"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by OutputFormat. An empty format lets the CLI pick
// hex for terminals and raw bytes otherwise.
const (
	FormatRaw  = "raw"
	FormatHex  = "hex"
	FormatJSON = "json"
)

// Config holds application configuration
type Config struct {
	DeviceAddress      string        `yaml:"device_address" default:"f0:08:d1:d5:0c:ae"`
	CharacteristicUUID string        `yaml:"characteristic_uuid" default:"ece27bad-3d4b-4072-8494-76a551f0b6cc"`
	ConnectTimeout     time.Duration `yaml:"connect_timeout" default:"30s"`
	LogLevel           logrus.Level  `yaml:"log_level"`
	OutputFormat       string        `yaml:"output_format,omitempty"`
	Tracer             TracerConfig  `yaml:"tracer"`
}

// TracerConfig selects the OpenTelemetry exporter for read spans
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter" default:"stdout"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	cfg := &Config{LogLevel: logrus.InfoLevel}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the device address and characteristic are well-formed
// and that the remaining settings are usable.
func (c *Config) Validate() error {
	var errs []error

	if _, err := transport.ValidateAddress(c.DeviceAddress); err != nil {
		errs = append(errs, err)
	}
	if _, err := transport.ValidateUUID(c.CharacteristicUUID); err != nil {
		errs = append(errs, err)
	}
	if c.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("connect timeout must be positive, got %s", c.ConnectTimeout))
	}

	switch c.OutputFormat {
	case "", FormatRaw, FormatHex, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid output format: %s (must be raw, hex, or json)", c.OutputFormat))
	}

	switch c.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		errs = append(errs, fmt.Errorf("unsupported trace exporter: %s", c.Tracer.Exporter))
	}

	return errors.Join(errs...)
}

// YAML renders the configuration as a YAML document
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// NewLogger creates a configured logger instance
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)

	// Use structured logging format
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}
