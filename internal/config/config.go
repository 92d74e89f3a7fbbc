// Package config loads settings for the knob tools and the marker service
// from the environment, with an optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
	// EnvDevelopment enables debug logging.
	EnvDevelopment = "development"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Env       string `envconfig:"ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8080"`
	PublicDir string `envconfig:"PUBLIC_DIR"`

	// Security settings
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Marker persistence
	Store      string `envconfig:"KNOB_STORE" default:"file"`
	StorePath  string `envconfig:"KNOB_STORE_PATH"`
	StoreURL   string `envconfig:"KNOB_STORE_URL" default:"http://localhost:8080"`
	StoreCodec string `envconfig:"KNOB_STORE_CODEC" default:"json"`
	MarkerKey  string `envconfig:"KNOB_MARKER_KEY" default:"MarkedKnob.markers"`

	// Feedback sinks, comma separated
	Haptics string `envconfig:"KNOB_HAPTICS" default:"log"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case "memory", "file", "keyring", "http":
	default:
		return fmt.Errorf("KNOB_STORE: unknown store %q", c.Store)
	}

	switch strings.ToLower(c.StoreCodec) {
	case "", "json", "yaml", "yml", "cbor":
	default:
		return fmt.Errorf("KNOB_STORE_CODEC: unknown codec %q", c.StoreCodec)
	}

	switch c.CSPMode {
	case "strict", "relaxed":
	default:
		return fmt.Errorf("CSP_MODE: must be strict or relaxed, got %q", c.CSPMode)
	}

	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		return "default-src 'self'; " +
			"style-src 'self'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:"
}
