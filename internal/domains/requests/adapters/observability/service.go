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

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
	"github.com/Apurer/daycare-api/internal/domains/requests/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

const tracerName = "github.com/Apurer/daycare-api/internal/domains/requests/adapters/observability/service"

// Service decorates the request service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core request service.
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

func (s *Service) CreateDateChange(ctx context.Context, caller actor.Actor, input ports.CreateDateChangeInput) (*domain.DateChangeRequest, error) {
	ctx, span := s.tracer.Start(ctx, "RequestService.CreateDateChange", trace.WithAttributes(
		attribute.Int64("dog.id", input.DogID),
		attribute.String("request.type", input.Type),
	))
	defer span.End()
	s.logInfo(ctx, "creating date change request", slog.Int64("dog.id", input.DogID), slog.String("type", input.Type))
	result, err := s.inner.CreateDateChange(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create date change request", slog.Int64("dog.id", input.DogID))
	}
	s.metrics.recordCreated(ctx, "date_change")
	s.logInfo(ctx, "date change request created", slog.Int64("request.id", result.ID))
	return result, nil
}

func (s *Service) GetDateChange(ctx context.Context, caller actor.Actor, id int64) (*domain.DateChangeRequest, error) {
	ctx, span := s.tracer.Start(ctx, "RequestService.GetDateChange", trace.WithAttributes(attribute.Int64("request.id", id)))
	defer span.End()
	result, err := s.inner.GetDateChange(ctx, caller, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get date change request", slog.Int64("request.id", id))
	}
	return result, nil
}

func (s *Service) ListDateChanges(ctx context.Context, caller actor.Actor) ([]*domain.DateChangeRequest, error) {
	ctx, span := s.tracer.Start(ctx, "RequestService.ListDateChanges")
	defer span.End()
	result, err := s.inner.ListDateChanges(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list date change requests")
	}
	span.SetAttributes(attribute.Int("request.result.count", len(result)))
	return result, nil
}

func (s *Service) ChangeDateChangeStatus(ctx context.Context, caller actor.Actor, id int64, status string) (*ports.StatusResult[*domain.DateChangeRequest], error) {
	ctx, span := s.tracer.Start(ctx, "RequestService.ChangeDateChangeStatus", trace.WithAttributes(
		attribute.Int64("request.id", id),
		attribute.String("request.status", status),
	))
	defer span.End()
	s.logInfo(ctx, "changing date change status", slog.Int64("request.id", id), slog.String("status", status), slog.Int64("actor.id", caller.UserID))
	result, err := s.inner.ChangeDateChangeStatus(ctx, caller, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change date change status", slog.Int64("request.id", id))
	}
	span.SetAttributes(attribute.Bool("request.changed", result.Changed))
	if result.Changed {
		s.metrics.recordReviewed(ctx, "date_change", string(result.Request.Status))
	}
	return result, nil
}

func (s *Service) CreateBoarding(ctx context.Context, caller actor.Actor, input ports.CreateBoardingInput) (*domain.BoardingRequest, error) {
	ctx, span := s.tracer.Start(ctx, "RequestService.CreateBoarding", trace.WithAttributes(attribute.Int("dog.count", len(input.DogIDs))))
	defer span.End()
	s.logInfo(ctx, "creating boarding request", slog.Any("dog.ids", input.DogIDs))
	result, err := s.inner.CreateBoarding(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create boarding request")
	}
	s.metrics.recordCreated(ctx, "boarding")
	s.logInfo(ctx, "boarding request created", slog.Int64("request.id", result.ID))
	return result, nil
}

func (s *Service) GetBoarding(ctx context.Context, caller actor.Actor, id int64) (*domain.BoardingRequest, error) {
	ctx, span := s.tracer.Start(ctx, "RequestService.GetBoarding", trace.WithAttributes(attribute.Int64("request.id", id)))
	defer span.End()
	result, err := s.inner.GetBoarding(ctx, caller, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get boarding request", slog.Int64("request.id", id))
	}
	return result, nil
}

func (s *Service) ListBoarding(ctx context.Context, caller actor.Actor) ([]*domain.BoardingRequest, error) {
	ctx, span := s.tracer.Start(ctx, "RequestService.ListBoarding")
	defer span.End()
	result, err := s.inner.ListBoarding(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list boarding requests")
	}
	span.SetAttributes(attribute.Int("request.result.count", len(result)))
	return result, nil
}

func (s *Service) ChangeBoardingStatus(ctx context.Context, caller actor.Actor, id int64, status string) (*ports.StatusResult[*domain.BoardingRequest], error) {
	ctx, span := s.tracer.Start(ctx, "RequestService.ChangeBoardingStatus", trace.WithAttributes(
		attribute.Int64("request.id", id),
		attribute.String("request.status", status),
	))
	defer span.End()
	s.logInfo(ctx, "changing boarding status", slog.Int64("request.id", id), slog.String("status", status), slog.Int64("actor.id", caller.UserID))
	result, err := s.inner.ChangeBoardingStatus(ctx, caller, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change boarding status", slog.Int64("request.id", id))
	}
	span.SetAttributes(attribute.Bool("request.changed", result.Changed))
	if result.Changed {
		s.metrics.recordReviewed(ctx, "boarding", string(result.Request.Status))
	}
	return result, nil
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
	created  metric.Int64Counter
	reviewed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("requests.service.created", metric.WithDescription("Number of requests filed"))
	reviewed, _ := m.Int64Counter("requests.service.reviewed", metric.WithDescription("Number of request status changes"))
	return serviceMetrics{created: created, reviewed: reviewed}
}

func (m serviceMetrics) recordCreated(ctx context.Context, kind string) {
	if m.created == nil {
		return
	}
	m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("request.kind", kind)))
}

func (m serviceMetrics) recordReviewed(ctx context.Context, kind, status string) {
	if m.reviewed == nil {
		return
	}
	m.reviewed.Add(ctx, 1, metric.WithAttributes(attribute.String("request.kind", kind), attribute.String("request.status", status)))
}

var _ ports.Service = (*Service)(nil)
