package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Apurer/daycare-api/internal/app"
	assignmentsworkflows "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/workflows"
	assignmentsports "github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/platform/metrics"
	platformobservability "github.com/Apurer/daycare-api/internal/platform/observability"
)

const serviceName = "daycare-api"

// Run boots the daycare HTTP API with observability, repositories, and workflows wired.
// It returns once ctx is cancelled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := app.OpenDatabase(ctx, cfg, logger)
	defer cleanupDB()
	container, err := app.Compose(ctx, cfg, db, instruments)
	if err != nil {
		return fmt.Errorf("failed to compose services: %w", err)
	}

	var workflows assignmentsports.WorkflowOrchestrator = assignmentsworkflows.NewInlineAutoAssign(container.Assignments)
	if temporalClient, err := app.ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, running auto-assign inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = assignmentsworkflows.NewTemporalAutoAssign(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	if cfg.DevAuth {
		logger.Warn("DEV_AUTH enabled; X-Debug-User-ID is trusted")
	}

	router := NewRouter(container, workflows, RouterOptions{
		ServiceName: serviceName,
		DevAuth:     cfg.DevAuth,
		Metrics:     metrics.New(),
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("daycare API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("daycare API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("daycare API shutting down")
	return server.Shutdown(shutdownCtx)
}
