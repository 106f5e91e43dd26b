package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables, after loading a
// .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and required settings.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d (must be 1-65535)", c.Port)
	}
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}
	if c.MetricsPort == c.Port {
		return fmt.Errorf("METRICS_PORT must differ from PORT (%d)", c.Port)
	}
	if !strings.HasPrefix(c.MetricsEndpoint, "/") {
		return fmt.Errorf("invalid METRICS_ENDPOINT: %q (must start with /)", c.MetricsEndpoint)
	}
	if c.ConnectGrace <= 0 {
		return fmt.Errorf("invalid CONNECT_GRACE: %s (must be positive)", c.ConnectGrace)
	}
	if c.CountdownVideo == "" || c.TreeVideo == "" {
		return fmt.Errorf("VIDEO_COUNTDOWN_PATH and VIDEO_TREE_PATH are required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Addr returns the listen address of the web server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SetupLogging applies LOG_LEVEL and the text formatter to the standard logger.
func (c *Config) SetupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
