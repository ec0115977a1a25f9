package assignments

import (
	"context"
	"errors"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
)

// EnsureDailySchedule registers the recurring auto-assign run for callerID.
// An existing schedule is updated in place; the result reports whether one was created.
func EnsureDailySchedule(ctx context.Context, schedules client.ScheduleClient, cronExpr, timezone string, callerID int64) (bool, error) {
	spec := dailySpec(cronExpr, timezone)
	_, err := schedules.Create(ctx, client.ScheduleOptions{
		ID:     DailyScheduleID,
		Spec:   *spec,
		Action: dailyAction(callerID),
	})
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, temporal.ErrScheduleAlreadyRunning) {
		return false, err
	}
	err = schedules.GetHandle(ctx, DailyScheduleID).Update(ctx, client.ScheduleUpdateOptions{
		DoUpdate: func(in client.ScheduleUpdateInput) (*client.ScheduleUpdate, error) {
			schedule := in.Description.Schedule
			schedule.Spec = spec
			schedule.Action = dailyAction(callerID)
			return &client.ScheduleUpdate{Schedule: &schedule}, nil
		},
	})
	return false, err
}

func dailySpec(cronExpr, timezone string) *client.ScheduleSpec {
	return &client.ScheduleSpec{
		CronExpressions: []string{cronExpr},
		TimeZoneName:    timezone,
	}
}

func dailyAction(callerID int64) *client.ScheduleWorkflowAction {
	return &client.ScheduleWorkflowAction{
		ID:        DailyScheduleID,
		Workflow:  AutoAssignWorkflowName,
		Args:      []interface{}{AutoAssignWorkflowInput{CallerID: callerID}},
		TaskQueue: AutoAssignTaskQueue,
	}
}
