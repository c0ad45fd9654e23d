// Package config loads process configuration from the environment.
//
// A local .env file is honoured when present (godotenv), which keeps dev
// setups out of shell profiles. Real environments set the variables directly.
// Everything is read once at startup; the Config value is read-only after
// Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting the server needs. Required fields with no
// usable default cause Load to fail rather than letting the process come up
// half-configured.
type Config struct {
	Port int

	// Hosted data/auth service.
	DataAPIURL string
	DataAPIKey string

	// Hosted media service credentials.
	MediaCloudName string
	MediaAPIKey    string
	MediaAPISecret string

	// Secret used to sign the session cookie. Minimum 16 characters.
	SessionSecret string

	// Optional path for the persistent session store. Empty selects the
	// in-memory store.
	SessionDBPath string

	TemplateDir string
	StaticDir   string
}

// Load reads configuration from the environment (and .env, if present).
func Load() (Config, error) {
	// Missing .env is fine — the variables may be set in the environment.
	_ = godotenv.Load()

	cfg := Config{
		Port:           8080,
		DataAPIURL:     strings.TrimRight(getEnv("DATA_API_URL", ""), "/"),
		DataAPIKey:     getEnv("DATA_API_KEY", ""),
		MediaCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		MediaAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		MediaAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		SessionDBPath:  getEnv("SESSION_DB_PATH", ""),
		TemplateDir:    getEnv("TEMPLATE_DIR", "web/templates"),
		StaticDir:      getEnv("STATIC_DIR", "web/static"),
	}

	if portStr := getEnv("PORT", ""); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if cfg.DataAPIURL == "" {
		return Config{}, fmt.Errorf("config: DATA_API_URL is required")
	}
	if cfg.DataAPIKey == "" {
		return Config{}, fmt.Errorf("config: DATA_API_KEY is required")
	}
	if cfg.MediaCloudName == "" || cfg.MediaAPIKey == "" || cfg.MediaAPISecret == "" {
		return Config{}, fmt.Errorf("config: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	if len(cfg.SessionSecret) < 16 {
		return Config{}, fmt.Errorf("config: SESSION_SECRET must be at least 16 characters")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
