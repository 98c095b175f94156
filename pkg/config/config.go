// Package config holds the server configuration and its loading rules.
//
// Configuration is captured once at startup into an immutable Config value.
// Sources are merged with the precedence: command-line flags > environment
// variables > optional YAML config file > built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults match the behavior of the upstream OFW client tooling.
const (
	// DefaultDataDir is where fixture files are read from when
	// OFW_DATA_DIR is not set.
	DefaultDataDir = "../debug"

	// DefaultPort is the HTTP listen port.
	DefaultPort = 5000

	// DefaultAuthToken is the token accepted (and handed out via the
	// localstorage endpoint) when OFW_AUTH_TOKEN is not set.
	DefaultAuthToken = "mock_auth_token_12345"

	// DefaultWatchInterval is how often fixture files are polled for
	// changes when watching is enabled.
	DefaultWatchInterval = 2 * time.Second
)

// Environment variable names recognized by the server.
const (
	EnvDataDir    = "OFW_DATA_DIR"
	EnvAuthToken  = "OFW_AUTH_TOKEN"
	EnvPort       = "PORT"
	EnvStrictAuth = "OFW_STRICT_AUTH"
)

// Config is the complete server configuration.
type Config struct {
	// DataDir is the directory holding the JSON fixture files.
	DataDir string `yaml:"dataDir"`

	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// AuthToken is the expected bearer token in strict mode, and the
	// token returned by the localstorage default payload.
	AuthToken string `yaml:"authToken"`

	// StrictAuth requires the bearer token to match AuthToken exactly.
	// When false, every request is treated as authorized.
	StrictAuth bool `yaml:"strictAuth"`

	// CORSOrigins enables CORS handling for the listed origins.
	// Empty means CORS headers are not emitted.
	CORSOrigins []string `yaml:"corsOrigins"`

	// Watch enables polling the fixture files and reloading on change.
	Watch bool `yaml:"watch"`

	// WatchInterval is the polling interval used when Watch is enabled.
	WatchInterval time.Duration `yaml:"watchInterval"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"logLevel"`

	// LogFormat is the log output format (text, json).
	LogFormat string `yaml:"logFormat"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		DataDir:       DefaultDataDir,
		Port:          DefaultPort,
		AuthToken:     DefaultAuthToken,
		StrictAuth:    false,
		WatchInterval: DefaultWatchInterval,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// ApplyEnv overlays recognized environment variables onto the config.
// Unset or blank variables leave the existing value untouched.
func (c *Config) ApplyEnv() {
	c.DataDir = envString(EnvDataDir, c.DataDir)
	c.AuthToken = envString(EnvAuthToken, c.AuthToken)
	c.Port = envInt(EnvPort, c.Port)
	c.StrictAuth = envBool(EnvStrictAuth, c.StrictAuth)
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive: %s", c.WatchInterval)
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}
