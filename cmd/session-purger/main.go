package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Apurer/daycare-api/internal/app"
	accountspostgres "github.com/Apurer/daycare-api/internal/domains/accounts/adapters/persistence/postgres"
	platformobservability "github.com/Apurer/daycare-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/daycare-api/internal/platform/postgres"
)

// Purges expired sessions once, or on SESSION_PURGE_CRON until interrupted.
func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	instruments, shutdown, err := platformobservability.Init(ctx, "daycare-session-purger")
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	logger := instruments.Logger
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("cannot purge sessions without postgres: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	store := accountspostgres.NewSessionStore(db, cfg.SessionTTL)

	purge := func() {
		runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		removed, err := store.PurgeExpired(runCtx)
		if err != nil {
			logger.Error("session purge failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("session purge completed", slog.Int64("removed", removed))
	}

	if cfg.SessionPurgeCron == "" {
		purge()
		return
	}
	scheduler := cron.New(cron.WithLocation(cfg.Location))
	if _, err := scheduler.AddFunc(cfg.SessionPurgeCron, purge); err != nil {
		log.Fatalf("invalid SESSION_PURGE_CRON: %v", err)
	}
	logger.Info("session purger scheduled", slog.String("cron", cfg.SessionPurgeCron))
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	logger.Info("session purger stopped")
}
