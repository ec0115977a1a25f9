// Package worker runs the Temporal worker that executes auto-assign workflows.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/daycare-api/internal/app"
	platformobservability "github.com/Apurer/daycare-api/internal/platform/observability"
	assignmentactivities "github.com/Apurer/daycare-api/internal/platform/temporal/activities/assignments"
	assignmentworkflows "github.com/Apurer/daycare-api/internal/platform/temporal/workflows/assignments"
)

const serviceName = "daycare-worker"

// Run registers the auto-assign workflow and activity, optionally installs the daily schedule,
// and blocks until interrupted.
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
	activities := assignmentactivities.NewActivities(container.Assignments, container.Accounts, cfg.Location)

	temporalClient, err := app.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	if cfg.AutoAssignCron != "" {
		if _, err := container.Accounts.ActorForUser(ctx, cfg.AutoAssignUserID); err != nil {
			return fmt.Errorf("failed to resolve AUTO_ASSIGN_USER_ID: %w", err)
		}
		created, err := assignmentworkflows.EnsureDailySchedule(ctx, temporalClient.ScheduleClient(), cfg.AutoAssignCron, cfg.Location.String(), cfg.AutoAssignUserID)
		if err != nil {
			return fmt.Errorf("failed to register auto-assign schedule: %w", err)
		}
		logger.Info("auto-assign schedule ready",
			slog.String("scheduleId", assignmentworkflows.DailyScheduleID),
			slog.String("cron", cfg.AutoAssignCron),
			slog.Bool("created", created),
		)
	}

	w := worker.New(temporalClient, assignmentworkflows.AutoAssignTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(assignmentworkflows.AutoAssignWorkflow, workflow.RegisterOptions{Name: assignmentworkflows.AutoAssignWorkflowName})
	w.RegisterActivityWithOptions(activities.AutoAssign, activity.RegisterOptions{Name: assignmentactivities.AutoAssignActivityName})

	logger.Info("worker listening", slog.String("taskQueue", assignmentworkflows.AutoAssignTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
