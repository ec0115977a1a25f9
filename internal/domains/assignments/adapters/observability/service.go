package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

const tracerName = "github.com/Apurer/daycare-api/internal/domains/assignments/adapters/observability/service"

// Service decorates the scheduler with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) GetExpectedDogs(ctx context.Context, caller actor.Actor, date time.Time) ([]ports.DogRef, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.GetExpectedDogs", dateAttr(date))
	defer span.End()

	result, err := s.inner.GetExpectedDogs(ctx, caller, date)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve expected dogs", dateLog(date))
	}
	span.SetAttributes(attribute.Int("dog.result.count", len(result)))
	return result, nil
}

func (s *Service) GetUnassignedDogs(ctx context.Context, caller actor.Actor, date time.Time) ([]ports.DogRef, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.GetUnassignedDogs", dateAttr(date))
	defer span.End()

	result, err := s.inner.GetUnassignedDogs(ctx, caller, date)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve unassigned dogs", dateLog(date))
	}
	span.SetAttributes(attribute.Int("dog.result.count", len(result)))
	return result, nil
}

func (s *Service) GetSuggestions(ctx context.Context, caller actor.Actor, date time.Time) ([]ports.Suggestion, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.GetSuggestions", dateAttr(date))
	defer span.End()

	result, err := s.inner.GetSuggestions(ctx, caller, date)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build suggestions", dateLog(date))
	}
	span.SetAttributes(attribute.Int("suggestion.result.count", len(result)))
	return result, nil
}

// AutoAssign runs auto-assign with instrumentation.
func (s *Service) AutoAssign(ctx context.Context, caller actor.Actor, date time.Time) (*ports.AutoAssignResult, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.AutoAssign", dateAttr(date), attribute.Int64("actor.id", caller.UserID))
	defer span.End()

	s.logInfo(ctx, "auto-assigning dogs", dateLog(date), slog.Int64("actor.id", caller.UserID))
	result, err := s.inner.AutoAssign(ctx, caller, date)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "auto-assign failed", dateLog(date))
	}
	s.metrics.recordCreated(ctx, len(result.Created), "auto")
	s.metrics.recordSkipped(ctx, len(result.Skipped))
	span.SetAttributes(
		attribute.Int("assignment.created", len(result.Created)),
		attribute.Int("assignment.skipped", len(result.Skipped)),
	)
	s.logInfo(ctx, "auto-assign finished", dateLog(date),
		slog.Int("assignment.created", len(result.Created)),
		slog.Any("dog.skipped", result.Skipped))
	return result, nil
}

func (s *Service) AssignToSelf(ctx context.Context, caller actor.Actor, dogIDs []int64, date time.Time) ([]*domain.Assignment, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.AssignToSelf", dateAttr(date), attribute.Int64Slice("dog.ids", dogIDs), attribute.Int64("actor.id", caller.UserID))
	defer span.End()

	s.logInfo(ctx, "assigning dogs to self", dateLog(date), slog.Any("dog.ids", dogIDs), slog.Int64("staff.id", caller.UserID))
	result, err := s.inner.AssignToSelf(ctx, caller, dogIDs, date)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign dogs to self", dateLog(date), slog.Any("dog.ids", dogIDs))
	}
	s.metrics.recordCreated(ctx, len(result), "self")
	return result, nil
}

func (s *Service) AssignDogs(ctx context.Context, caller actor.Actor, dogIDs []int64, date time.Time, staffID int64) ([]*domain.Assignment, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.AssignDogs", dateAttr(date), attribute.Int64Slice("dog.ids", dogIDs), attribute.Int64("staff.id", staffID))
	defer span.End()

	s.logInfo(ctx, "assigning dogs", dateLog(date), slog.Any("dog.ids", dogIDs), slog.Int64("staff.id", staffID))
	result, err := s.inner.AssignDogs(ctx, caller, dogIDs, date, staffID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign dogs", dateLog(date), slog.Int64("staff.id", staffID))
	}
	s.metrics.recordCreated(ctx, len(result), "manual")
	return result, nil
}

func (s *Service) Reassign(ctx context.Context, caller actor.Actor, assignmentID, staffID int64) (*domain.Assignment, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.Reassign", attribute.Int64("assignment.id", assignmentID), attribute.Int64("staff.id", staffID))
	defer span.End()

	s.logInfo(ctx, "reassigning dog", slog.Int64("assignment.id", assignmentID), slog.Int64("staff.id", staffID))
	result, err := s.inner.Reassign(ctx, caller, assignmentID, staffID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to reassign", slog.Int64("assignment.id", assignmentID))
	}
	return result, nil
}

func (s *Service) Unassign(ctx context.Context, caller actor.Actor, assignmentID int64) error {
	ctx, span := s.startSpan(ctx, "AssignmentService.Unassign", attribute.Int64("assignment.id", assignmentID))
	defer span.End()

	s.logInfo(ctx, "unassigning dog", slog.Int64("assignment.id", assignmentID))
	if err := s.inner.Unassign(ctx, caller, assignmentID); err != nil {
		return s.handleError(ctx, span, err, "failed to unassign", slog.Int64("assignment.id", assignmentID))
	}
	return nil
}

// UpdateStatus records lifecycle transitions with instrumentation.
func (s *Service) UpdateStatus(ctx context.Context, caller actor.Actor, assignmentID int64, status string) (*domain.Assignment, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.UpdateStatus", attribute.Int64("assignment.id", assignmentID), attribute.String("assignment.status", status))
	defer span.End()

	result, err := s.inner.UpdateStatus(ctx, caller, assignmentID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update assignment status", slog.Int64("assignment.id", assignmentID), slog.String("status", status))
	}
	s.metrics.recordStatus(ctx, result.Status)
	s.logInfo(ctx, "assignment status set", slog.Int64("assignment.id", assignmentID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) ListAssignments(ctx context.Context, caller actor.Actor, date time.Time) ([]*domain.Assignment, error) {
	ctx, span := s.startSpan(ctx, "AssignmentService.ListAssignments", dateAttr(date), attribute.Bool("actor.is_staff", caller.IsStaff))
	defer span.End()

	result, err := s.inner.ListAssignments(ctx, caller, date)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list assignments", dateLog(date))
	}
	span.SetAttributes(attribute.Int("assignment.result.count", len(result)))
	return result, nil
}

func dateAttr(date time.Time) attribute.KeyValue {
	return attribute.String("assignment.date", calendar.Format(date))
}

func dateLog(date time.Time) slog.Attr {
	return slog.String("date", calendar.Format(date))
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	assignmentsCreated metric.Int64Counter
	autoAssignSkipped  metric.Int64Counter
	statusChanges      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("assignments.service.created", metric.WithDescription("Number of assignments returned by assign operations"))
	skipped, _ := m.Int64Counter("assignments.service.auto_assign_skipped", metric.WithDescription("Dogs auto-assign left alone for lack of history"))
	statuses, _ := m.Int64Counter("assignments.service.status_updates", metric.WithDescription("Number of assignment status updates"))
	return serviceMetrics{assignmentsCreated: created, autoAssignSkipped: skipped, statusChanges: statuses}
}

func (m serviceMetrics) recordCreated(ctx context.Context, n int, source string) {
	addCounter(ctx, m.assignmentsCreated, int64(n), attribute.String("source", source))
}

func (m serviceMetrics) recordSkipped(ctx context.Context, n int) {
	addCounter(ctx, m.autoAssignSkipped, int64(n))
}

func (m serviceMetrics) recordStatus(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.statusChanges, 1, attribute.String("status", string(status)))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil || value == 0 {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
