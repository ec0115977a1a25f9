package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

const tracerName = "github.com/Apurer/daycare-api/internal/domains/dogs/adapters/observability/service"

// Service decorates the dog service with tracing, logging, and metrics.
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

// Register enrols a dog with instrumentation.
func (s *Service) Register(ctx context.Context, caller actor.Actor, input ports.RegisterDogInput) (*ports.DogProjection, error) {
	ctx, span := s.startSpan(ctx, "DogService.Register", attribute.String("dog.name", input.Name), attribute.Int64("actor.id", caller.UserID))
	defer span.End()

	s.logInfo(ctx, "registering dog", slog.String("dog.name", input.Name), slog.Any("daycare_days", input.DaycareDays))
	result, err := s.inner.Register(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register dog", slog.String("dog.name", input.Name))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "dog registered", slog.Int64("dog.id", result.Entity.ID))
	return result, nil
}

func (s *Service) Get(ctx context.Context, caller actor.Actor, id int64) (*ports.DogProjection, error) {
	ctx, span := s.startSpan(ctx, "DogService.Get", attribute.Int64("dog.id", id))
	defer span.End()

	result, err := s.inner.Get(ctx, caller, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get dog", slog.Int64("dog.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, caller actor.Actor) ([]*ports.DogProjection, error) {
	ctx, span := s.startSpan(ctx, "DogService.List", attribute.Bool("actor.is_staff", caller.IsStaff))
	defer span.End()

	result, err := s.inner.List(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list dogs")
	}
	span.SetAttributes(attribute.Int("dog.result.count", len(result)))
	return result, nil
}

// UpdateSchedule replaces the weekly days with instrumentation.
func (s *Service) UpdateSchedule(ctx context.Context, caller actor.Actor, id int64, days []int) (*ports.DogProjection, error) {
	ctx, span := s.startSpan(ctx, "DogService.UpdateSchedule", attribute.Int64("dog.id", id), attribute.IntSlice("dog.daycare_days", days))
	defer span.End()

	s.logInfo(ctx, "updating daycare days", slog.Int64("dog.id", id), slog.Any("daycare_days", days))
	result, err := s.inner.UpdateSchedule(ctx, caller, id, days)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update daycare days", slog.Int64("dog.id", id))
	}
	s.metrics.recordScheduleChanged(ctx)
	return result, nil
}

func (s *Service) UpdateCare(ctx context.Context, caller actor.Actor, input ports.UpdateCareInput) (*ports.DogProjection, error) {
	ctx, span := s.startSpan(ctx, "DogService.UpdateCare", attribute.Int64("dog.id", input.DogID))
	defer span.End()

	result, err := s.inner.UpdateCare(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update care notes", slog.Int64("dog.id", input.DogID))
	}
	return result, nil
}

func (s *Service) AddCoOwner(ctx context.Context, caller actor.Actor, dogID, userID int64) (*ports.DogProjection, error) {
	ctx, span := s.startSpan(ctx, "DogService.AddCoOwner", attribute.Int64("dog.id", dogID), attribute.Int64("user.id", userID))
	defer span.End()

	s.logInfo(ctx, "adding co-owner", slog.Int64("dog.id", dogID), slog.Int64("user.id", userID))
	result, err := s.inner.AddCoOwner(ctx, caller, dogID, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add co-owner", slog.Int64("dog.id", dogID), slog.Int64("user.id", userID))
	}
	return result, nil
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
	dogsRegistered   metric.Int64Counter
	schedulesChanged metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	dogsRegistered, _ := m.Int64Counter("dogs.service.registered", metric.WithDescription("Number of dogs registered"))
	schedulesChanged, _ := m.Int64Counter("dogs.service.schedule_changed", metric.WithDescription("Number of weekly schedule updates"))
	return serviceMetrics{dogsRegistered: dogsRegistered, schedulesChanged: schedulesChanged}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	addCounter(ctx, m.dogsRegistered, 1)
}

func (m serviceMetrics) recordScheduleChanged(ctx context.Context) {
	addCounter(ctx, m.schedulesChanged, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
