package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/daycare-api/internal/domains/assignments/application"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	assignmentactivities "github.com/Apurer/daycare-api/internal/platform/temporal/activities/assignments"
	assignmentworkflows "github.com/Apurer/daycare-api/internal/platform/temporal/workflows/assignments"
	"github.com/Apurer/daycare-api/internal/shared/actor"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalAutoAssign)(nil)
	_ ports.WorkflowOrchestrator = (*InlineAutoAssign)(nil)
)

// TemporalAutoAssign runs auto-assign as a Temporal workflow.
type TemporalAutoAssign struct {
	client    client.Client
	taskQueue string
}

// NewTemporalAutoAssign wires a Temporal client into the orchestrator.
func NewTemporalAutoAssign(c client.Client) *TemporalAutoAssign {
	return &TemporalAutoAssign{client: c, taskQueue: assignmentworkflows.AutoAssignTaskQueue}
}

// AutoAssign starts the workflow for the day and waits for its result.
func (o *TemporalAutoAssign) AutoAssign(ctx context.Context, caller actor.Actor, date time.Time) (*ports.AutoAssignResult, error) {
	if err := actor.RequireAssigner(caller); err != nil {
		return nil, err
	}
	if o == nil || o.client == nil {
		return nil, errors.New("temporal auto-assign workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("auto-assign-%s-%s", calendar.Format(date), traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		assignmentworkflows.AutoAssignWorkflowName,
		assignmentworkflows.AutoAssignWorkflowInput{CallerID: caller.UserID, Date: calendar.Day(date), TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result ports.AutoAssignResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, unwrapWorkflowError(err)
	}
	return &result, nil
}

// InlineAutoAssign executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineAutoAssign struct {
	service ports.Service
}

// NewInlineAutoAssign wraps the scheduler for synchronous execution.
func NewInlineAutoAssign(service ports.Service) *InlineAutoAssign {
	return &InlineAutoAssign{service: service}
}

// AutoAssign delegates to the application service without durable orchestration.
func (o *InlineAutoAssign) AutoAssign(ctx context.Context, caller actor.Actor, date time.Time) (*ports.AutoAssignResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline auto-assign workflows not configured")
	}
	return o.service.AutoAssign(ctx, caller, date)
}

// unwrapWorkflowError restores the sentinel errors the HTTP layer maps.
func unwrapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case assignmentactivities.ErrTypeUnauthenticated:
		return fmt.Errorf("%w: %s", actor.ErrUnauthenticated, appErr.Error())
	case assignmentactivities.ErrTypePermissionDenied:
		return fmt.Errorf("%w: %s", actor.ErrPermissionDenied, appErr.Error())
	case assignmentactivities.ErrTypeInvalidDateRange:
		return fmt.Errorf("%w: %s", application.ErrInvalidDateRange, appErr.Error())
	default:
		return err
	}
}

func workflowTraceComponent(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if spanCtx := span.SpanContext(); spanCtx.IsValid() && spanCtx.TraceID().IsValid() {
		return spanCtx.TraceID().String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
