// Package config loads the application configuration from environment
// variables. Outside production a .env file is read first so local
// development does not require exporting credentials manually.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the application needs at startup.
type Config struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	YouTubeAPIKey       string
	Port                string
	DatabasePath        string
	Environment         string
}

// Production reports whether the app runs in production mode. Error detail
// in API responses is suppressed when it does.
func (c Config) Production() bool { return c.Environment == "production" }

// Load reads the configuration from the environment. When ENVIRONMENT is not
// "production" a .env file in the working directory is loaded first; a
// missing file is not an error. All required variables are validated in one
// pass so a misconfigured deployment reports every missing name at once.
func Load() (Config, error) {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "production"
	}
	if env != "production" {
		_ = godotenv.Load()
	}

	cfg := Config{
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		YouTubeAPIKey:       os.Getenv("YOUTUBE_API_KEY"),
		Port:                os.Getenv("PORT"),
		DatabasePath:        os.Getenv("DATABASE_PATH"),
		Environment:         env,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "reco.db"
	}

	var missing []string
	if cfg.SpotifyClientID == "" {
		missing = append(missing, "SPOTIFY_CLIENT_ID")
	}
	if cfg.SpotifyClientSecret == "" {
		missing = append(missing, "SPOTIFY_CLIENT_SECRET")
	}
	if cfg.YouTubeAPIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
