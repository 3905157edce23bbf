// Package config loads remote-platform settings from the environment. A
// .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultTimeout = 30 * time.Second

// Config holds the settings needed to talk to the risk-management platform.
type Config struct {
	// APIURL is the platform base URL (e.g. https://risk.example.com).
	APIURL string
	// APIToken authenticates every request.
	APIToken string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// Load reads OTM_API_URL, OTM_API_TOKEN and OTM_HTTP_TIMEOUT, after loading
// a .env file if one exists. APIURL is required; the token may be empty for
// platforms with anonymous read access.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIURL:   os.Getenv("OTM_API_URL"),
		APIToken: os.Getenv("OTM_API_TOKEN"),
		Timeout:  defaultTimeout,
	}
	if cfg.APIURL == "" {
		return Config{}, fmt.Errorf("OTM_API_URL is not set")
	}
	if raw := os.Getenv("OTM_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse OTM_HTTP_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
