package assignments

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	assignmentactivities "github.com/Apurer/daycare-api/internal/platform/temporal/activities/assignments"
	"github.com/Apurer/daycare-api/internal/platform/temporal/sequences"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

const (
	// AutoAssignWorkflowName is the public identifier for registering the workflow.
	AutoAssignWorkflowName = "assignments.workflows.AutoAssign"
	// AutoAssignTaskQueue is the queue consumed by the worker processing assignment workflows.
	AutoAssignTaskQueue = "ASSIGNMENTS_AUTO_ASSIGN"
	// DailyScheduleID identifies the recurring auto-assign schedule.
	DailyScheduleID = "assignments-auto-assign-daily"
)

// AutoAssignWorkflowInput captures the calling user and day of an auto-assign run.
// Scheduled runs leave Date zero so the activity picks today.
type AutoAssignWorkflowInput struct {
	CallerID int64
	Date     time.Time
	TraceID  string
}

// AutoAssignWorkflow fills the unassigned dogs of a day from assignment history.
func AutoAssignWorkflow(ctx workflow.Context, input AutoAssignWorkflowInput) (*ports.AutoAssignResult, error) {
	logger := workflow.GetLogger(ctx)
	day := "today"
	if !input.Date.IsZero() {
		day = calendar.Format(input.Date)
	}
	logger.Info("AutoAssignWorkflow started", withTraceID(input.TraceID, "date", day)...)
	result, err := sequences.RunAutoAssignSequence(ctx, assignmentactivities.AutoAssignInput{CallerID: input.CallerID, Date: input.Date})
	if err != nil {
		logger.Error("AutoAssignWorkflow failed", withTraceID(input.TraceID, "date", day, "error", err)...)
		return nil, err
	}
	logger.Info("AutoAssignWorkflow completed", withTraceID(input.TraceID, "date", day, "created", len(result.Created), "skipped", len(result.Skipped))...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
