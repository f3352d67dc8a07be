// Package config loads server configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the server's runtime settings.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DBPath is the SQLite database path; ":memory:" for ephemeral.
	DBPath string

	// AllowedOrigins for CORS, comma-separated in CLOCK_ALLOWED_ORIGINS.
	AllowedOrigins []string

	// RegularCapHours is the per-session regular-hours ceiling.
	RegularCapHours float64
}

// Load reads configuration from the environment, with defaults suitable
// for local development.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:            8080,
		DBPath:          "clock.db",
		AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
		RegularCapHours: 8,
	}

	if v := os.Getenv("CLOCK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("CLOCK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CLOCK_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	if v := os.Getenv("CLOCK_REGULAR_CAP_HOURS"); v != "" {
		if hours, err := strconv.ParseFloat(v, 64); err == nil && hours > 0 {
			cfg.RegularCapHours = hours
		}
	}

	return cfg
}
