package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	assignmentactivities "github.com/Apurer/daycare-api/internal/platform/temporal/activities/assignments"
)

// RunAutoAssignSequence executes the activities that fill one day's assignments.
func RunAutoAssignSequence(ctx workflow.Context, input assignmentactivities.AutoAssignInput) (*ports.AutoAssignResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("auto-assign sequence started", "callerId", input.CallerID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var result ports.AutoAssignResult
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), assignmentactivities.AutoAssignActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("auto-assign sequence failed", "error", err)
		return nil, err
	}
	logger.Info("auto-assign sequence completed", "created", len(result.Created), "skipped", len(result.Skipped))
	return &result, nil
}
