package assignments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	assignmentactivities "github.com/Apurer/daycare-api/internal/platform/temporal/activities/assignments"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

var (
	monday   = time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	assigner = actor.Actor{UserID: 10, Username: "alice", IsStaff: true, CanAssignDogs: true}
)

type stubScheduler struct {
	ports.Service

	mu      sync.Mutex
	calls   int
	dates   []time.Time
	callers []actor.Actor
	result  *ports.AutoAssignResult
	err     error
}

func (s *stubScheduler) AutoAssign(_ context.Context, caller actor.Actor, date time.Time) (*ports.AutoAssignResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.dates = append(s.dates, date)
	s.callers = append(s.callers, caller)
	if err := actor.RequireAssigner(caller); err != nil {
		return nil, err
	}
	return s.result, s.err
}

type stubActors struct {
	mu     sync.Mutex
	actors map[int64]actor.Actor
}

func newStubActors(actors ...actor.Actor) *stubActors {
	s := &stubActors{actors: make(map[int64]actor.Actor)}
	for _, a := range actors {
		s.actors[a.UserID] = a
	}
	return s
}

func (s *stubActors) ActorForUser(_ context.Context, userID int64) (actor.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.actors[userID]
	if !ok {
		return actor.Actor{}, actor.ErrUnauthenticated
	}
	return a, nil
}

func (s *stubActors) set(a actor.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[a.UserID] = a
}

func newEnv(t *testing.T, scheduler ports.Service) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	return newEnvWithActors(t, scheduler, newStubActors(assigner, actor.Actor{UserID: 11, Username: "bob", IsStaff: true}))
}

func newEnvWithActors(t *testing.T, scheduler ports.Service, actors assignmentactivities.ActorResolver) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := assignmentactivities.NewActivities(scheduler, actors, time.UTC)
	env.RegisterWorkflowWithOptions(AutoAssignWorkflow, workflow.RegisterOptions{Name: AutoAssignWorkflowName})
	env.RegisterActivityWithOptions(acts.AutoAssign, activity.RegisterOptions{Name: assignmentactivities.AutoAssignActivityName})
	return env
}

func TestAutoAssignWorkflowReturnsActivityResult(t *testing.T) {
	scheduler := &stubScheduler{result: &ports.AutoAssignResult{
		Created: []*domain.Assignment{{ID: 1, DogID: 100, StaffID: 10, Date: monday, Status: domain.StatusAssigned}},
		Skipped: []int64{300},
	}}
	env := newEnv(t, scheduler)

	env.ExecuteWorkflow(AutoAssignWorkflowName, AutoAssignWorkflowInput{CallerID: assigner.UserID, Date: monday, TraceID: "trace"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result ports.AutoAssignResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Len(t, result.Created, 1)
	assert.Equal(t, int64(100), result.Created[0].DogID)
	assert.Equal(t, domain.StatusAssigned, result.Created[0].Status)
	assert.Equal(t, []int64{300}, result.Skipped)
	require.Len(t, scheduler.dates, 1)
	assert.True(t, monday.Equal(scheduler.dates[0]))
}

func TestAutoAssignWorkflowDefaultsToToday(t *testing.T) {
	scheduler := &stubScheduler{result: &ports.AutoAssignResult{}}
	env := newEnv(t, scheduler)

	env.ExecuteWorkflow(AutoAssignWorkflowName, AutoAssignWorkflowInput{CallerID: assigner.UserID})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	require.Len(t, scheduler.dates, 1)
	assert.False(t, scheduler.dates[0].IsZero())
	assert.Equal(t, 0, scheduler.dates[0].Hour())
}

func TestAutoAssignWorkflowDoesNotRetryPermissionErrors(t *testing.T) {
	scheduler := &stubScheduler{err: actor.ErrPermissionDenied}
	env := newEnv(t, scheduler)

	env.ExecuteWorkflow(AutoAssignWorkflowName, AutoAssignWorkflowInput{CallerID: 11, Date: monday})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, assignmentactivities.ErrTypePermissionDenied, appErr.Type())
	assert.Equal(t, 1, scheduler.calls)
}

func TestAutoAssignWorkflowRetriesTransientErrors(t *testing.T) {
	scheduler := &stubScheduler{err: errors.New("connection reset")}
	env := newEnv(t, scheduler)

	env.ExecuteWorkflow(AutoAssignWorkflowName, AutoAssignWorkflowInput{CallerID: assigner.UserID, Date: monday})
	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	assert.Equal(t, 5, scheduler.calls)
}

func TestAutoAssignWorkflowReadsCapabilitiesOnEachRun(t *testing.T) {
	scheduler := &stubScheduler{result: &ports.AutoAssignResult{}}
	actors := newStubActors(assigner)

	env := newEnvWithActors(t, scheduler, actors)
	env.ExecuteWorkflow(AutoAssignWorkflowName, AutoAssignWorkflowInput{CallerID: assigner.UserID})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	revoked := assigner
	revoked.CanAssignDogs = false
	actors.set(revoked)

	env = newEnvWithActors(t, scheduler, actors)
	env.ExecuteWorkflow(AutoAssignWorkflowName, AutoAssignWorkflowInput{CallerID: assigner.UserID})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, assignmentactivities.ErrTypePermissionDenied, appErr.Type())
	require.Len(t, scheduler.callers, 2)
	assert.True(t, scheduler.callers[0].CanAssignDogs)
	assert.False(t, scheduler.callers[1].CanAssignDogs)
}

func TestAutoAssignWorkflowFailsForUnknownCaller(t *testing.T) {
	scheduler := &stubScheduler{result: &ports.AutoAssignResult{}}
	env := newEnvWithActors(t, scheduler, newStubActors())

	env.ExecuteWorkflow(AutoAssignWorkflowName, AutoAssignWorkflowInput{CallerID: 42, Date: monday})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, assignmentactivities.ErrTypeUnauthenticated, appErr.Type())
	assert.Zero(t, scheduler.calls)
}
