// Package app holds the configuration and composition root shared by the API and worker processes.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
)

const defaultSessionTTL = 24 * time.Hour

// Config carries environment-driven settings for the daycare processes.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	Location          *time.Location
	WindowDays        int
	AutoAssignCron    string
	AutoAssignUserID  int64
	SessionTTL        time.Duration
	SessionPurgeCron  string
	DevAuth           bool
	BootstrapAdmin    string
	NotifyRatePerSec  float64
	PushGatewayURL    string
	LogSQL            bool
}

// LoadConfig reads a local .env when present, then environment variables, applies defaults, and validates them.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		WindowDays:        domain.DefaultWindowDays,
		AutoAssignCron:    strings.TrimSpace(os.Getenv("AUTO_ASSIGN_CRON")),
		SessionTTL:        defaultSessionTTL,
		SessionPurgeCron:  strings.TrimSpace(os.Getenv("SESSION_PURGE_CRON")),
		DevAuth:           isTruthy(os.Getenv("DEV_AUTH")),
		BootstrapAdmin:    strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_USERNAME")),
		NotifyRatePerSec:  10,
		PushGatewayURL:    strings.TrimSpace(os.Getenv("PUSH_GATEWAY_URL")),
		LogSQL:            isTruthy(os.Getenv("POSTGRES_LOG_SQL")),
	}

	loc, err := time.LoadLocation(envDefault("DAYCARE_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("DAYCARE_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if raw := strings.TrimSpace(os.Getenv("ASSIGNMENT_WINDOW_DAYS")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return Config{}, fmt.Errorf("ASSIGNMENT_WINDOW_DAYS must be a non-negative integer")
		}
		cfg.WindowDays = days
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("NOTIFY_RATE_PER_SECOND")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate <= 0 {
			return Config{}, fmt.Errorf("NOTIFY_RATE_PER_SECOND must be a positive number")
		}
		cfg.NotifyRatePerSec = rate
	}
	if cfg.AutoAssignCron != "" {
		if _, err := cron.ParseStandard(cfg.AutoAssignCron); err != nil {
			return Config{}, fmt.Errorf("AUTO_ASSIGN_CRON: %w", err)
		}
		raw := strings.TrimSpace(os.Getenv("AUTO_ASSIGN_USER_ID"))
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return Config{}, fmt.Errorf("AUTO_ASSIGN_USER_ID must name the staff account scheduled runs act as")
		}
		cfg.AutoAssignUserID = id
	}
	if cfg.SessionPurgeCron != "" {
		if _, err := cron.ParseStandard(cfg.SessionPurgeCron); err != nil {
			return Config{}, fmt.Errorf("SESSION_PURGE_CRON: %w", err)
		}
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
