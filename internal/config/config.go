package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the planner.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	JWTSecret     string
	TokenTTL      time.Duration
	AdvanceTime   string // HH:MM, when the daily recurrence advancement runs
}

// Load reads configuration from environment variables with sane defaults.
// TELEGRAM_TOKEN is optional: without it the process runs headless and only
// the scheduled advancement job is active.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:      parseTTLHours(strings.TrimSpace(os.Getenv("TOKEN_TTL_HOURS"))),
		AdvanceTime:   strings.TrimSpace(os.Getenv("ADVANCE_TIME")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "quest_planner.db"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.AdvanceTime == "" {
		cfg.AdvanceTime = "00:05"
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseTTLHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return 0
	}
	return time.Duration(hours) * time.Hour
}
