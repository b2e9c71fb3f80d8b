package app

import (
	"fmt"
	"os"
	"strconv"

	"sacred-steps/server/internal/telemetry"
)

// Config carries everything Run needs. Zero values pull from the
// environment with sensible defaults, so a bare Config{} boots a working
// server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	ClientDir      string
	EventRetention int
	Logger         telemetry.Logger
}

// ConfigFromEnv builds a Config from the process environment.
//
//	PORT             listen port, default 3001
//	FRONTEND_URL     extra allowed browser origin
//	CLIENT_DIR       built frontend bundle, default ./dist
//	EVENT_RETENTION  write-side event log cap
func ConfigFromEnv(logger telemetry.Logger) Config {
	cfg := Config{
		Addr:           ":3001",
		AllowedOrigins: []string{"http://localhost:3000"},
		ClientDir:      "./dist",
		Logger:         logger,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = fmt.Sprintf(":%s", port)
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, frontend)
	}
	if dir := os.Getenv("CLIENT_DIR"); dir != "" {
		cfg.ClientDir = dir
	}
	if raw := os.Getenv("EVENT_RETENTION"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.EventRetention = value
		} else if logger != nil {
			logger.Printf("invalid EVENT_RETENTION=%q: %v", raw, err)
		}
	}
	return cfg
}
