package assignments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
)

type fakeSchedules struct {
	client.ScheduleClient

	createErr error
	created   []client.ScheduleOptions
	handle    *fakeScheduleHandle
}

func (f *fakeSchedules) Create(_ context.Context, options client.ScheduleOptions) (client.ScheduleHandle, error) {
	f.created = append(f.created, options)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.handle, nil
}

func (f *fakeSchedules) GetHandle(_ context.Context, scheduleID string) client.ScheduleHandle {
	f.handle.id = scheduleID
	return f.handle
}

type fakeScheduleHandle struct {
	client.ScheduleHandle

	id      string
	current client.Schedule
	updated *client.Schedule
}

func (h *fakeScheduleHandle) Update(_ context.Context, options client.ScheduleUpdateOptions) error {
	update, err := options.DoUpdate(client.ScheduleUpdateInput{
		Description: client.ScheduleDescription{Schedule: h.current},
	})
	if err != nil {
		return err
	}
	h.updated = update.Schedule
	return nil
}

func workflowAction(t *testing.T, action client.ScheduleAction) *client.ScheduleWorkflowAction {
	t.Helper()
	wa, ok := action.(*client.ScheduleWorkflowAction)
	require.True(t, ok)
	return wa
}

func TestEnsureDailyScheduleCreatesSchedule(t *testing.T) {
	schedules := &fakeSchedules{handle: &fakeScheduleHandle{}}

	created, err := EnsureDailySchedule(context.Background(), schedules, "0 7 * * *", "Europe/Warsaw", 10)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, schedules.created, 1)
	assert.Equal(t, DailyScheduleID, schedules.created[0].ID)
	assert.Equal(t, []string{"0 7 * * *"}, schedules.created[0].Spec.CronExpressions)
	action := workflowAction(t, schedules.created[0].Action)
	assert.Equal(t, []interface{}{AutoAssignWorkflowInput{CallerID: 10}}, action.Args)
	assert.Nil(t, schedules.handle.updated)
}

func TestEnsureDailyScheduleUpdatesExistingSchedule(t *testing.T) {
	handle := &fakeScheduleHandle{current: client.Schedule{
		Spec:   &client.ScheduleSpec{CronExpressions: []string{"0 6 * * *"}, TimeZoneName: "UTC"},
		Action: dailyAction(10),
		State:  &client.ScheduleState{Note: "kept"},
	}}
	schedules := &fakeSchedules{createErr: temporal.ErrScheduleAlreadyRunning, handle: handle}

	created, err := EnsureDailySchedule(context.Background(), schedules, "30 7 * * 1-5", "Europe/Warsaw", 12)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, DailyScheduleID, handle.id)
	require.NotNil(t, handle.updated)
	assert.Equal(t, []string{"30 7 * * 1-5"}, handle.updated.Spec.CronExpressions)
	assert.Equal(t, "Europe/Warsaw", handle.updated.Spec.TimeZoneName)
	action := workflowAction(t, handle.updated.Action)
	assert.Equal(t, []interface{}{AutoAssignWorkflowInput{CallerID: 12}}, action.Args)
	assert.Equal(t, "kept", handle.updated.State.Note)
}
