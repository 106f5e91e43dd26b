// Package config loads service settings from the environment.
package config

import "time"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port      int    `env:"PORT" envDefault:"8080"`
	PublicURL string `env:"PUBLIC_URL"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// Metrics
	MetricsPort     int    `env:"METRICS_PORT" envDefault:"9090"`
	MetricsEndpoint string `env:"METRICS_ENDPOINT" envDefault:"/metrics"`

	// Celebration content
	WishesPath     string        `env:"WISHES_PATH"`
	CountdownVideo string        `env:"VIDEO_COUNTDOWN_PATH" envDefault:"/static/countdown.mp4"`
	TreeVideo      string        `env:"VIDEO_TREE_PATH" envDefault:"/static/ChristmasTree.mp4"`
	Signature      string        `env:"SIGNATURE" envDefault:"Janidu"`
	ConnectGrace   time.Duration `env:"CONNECT_GRACE" envDefault:"30s"`
}
