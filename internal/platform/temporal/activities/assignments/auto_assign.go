package assignments

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/daycare-api/internal/domains/assignments/application"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

const (
	// AutoAssignActivityName runs auto-assign for a single calendar day.
	AutoAssignActivityName = "assignments.activities.AutoAssign"

	// Application error types surfaced to workflow callers. They are never retried.
	ErrTypeUnauthenticated  = "Unauthenticated"
	ErrTypePermissionDenied = "PermissionDenied"
	ErrTypeInvalidDateRange = "InvalidDateRange"
)

// AutoAssignInput names the calling user and the day to fill. A zero Date means today.
type AutoAssignInput struct {
	CallerID int64
	Date     time.Time
}

// ActorResolver loads the current capability set of a user.
type ActorResolver interface {
	ActorForUser(ctx context.Context, userID int64) (actor.Actor, error)
}

// Activities groups activities that operate on the assignments bounded context.
type Activities struct {
	service  ports.Service
	actors   ActorResolver
	now      func() time.Time
	location *time.Location
}

// NewActivities wires the scheduler into the Temporal activities bundle.
// loc decides which day today is for scheduled runs that carry no date.
func NewActivities(service ports.Service, actors ActorResolver, loc *time.Location) *Activities {
	if loc == nil {
		loc = time.UTC
	}
	return &Activities{service: service, actors: actors, now: time.Now, location: loc}
}

// AutoAssign fills the day's unassigned dogs from assignment history.
func (a *Activities) AutoAssign(ctx context.Context, input AutoAssignInput) (*ports.AutoAssignResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil || a.actors == nil {
		logger.Error("auto-assign activity not initialized")
		return nil, errors.New("auto-assign activity not initialized")
	}
	date := input.Date
	if date.IsZero() {
		date = calendar.Today(a.now(), a.location)
	}
	day := calendar.Format(date)
	logger.Info("AutoAssign activity started", "date", day, "callerId", input.CallerID)
	// Capabilities are read on every run so revocations apply to scheduled runs.
	caller, err := a.actors.ActorForUser(ctx, input.CallerID)
	if err != nil {
		logger.Error("AutoAssign caller lookup failed", "callerId", input.CallerID, "error", err)
		return nil, classify(err)
	}
	result, err := a.service.AutoAssign(ctx, caller, date)
	if err != nil {
		logger.Error("AutoAssign activity failed", "date", day, "error", err)
		return nil, classify(err)
	}
	logger.Info("AutoAssign activity completed", "date", day, "created", len(result.Created), "skipped", len(result.Skipped))
	return result, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, actor.ErrUnauthenticated):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeUnauthenticated, err)
	case errors.Is(err, actor.ErrPermissionDenied):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypePermissionDenied, err)
	case errors.Is(err, application.ErrInvalidDateRange):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidDateRange, err)
	default:
		return err
	}
}
