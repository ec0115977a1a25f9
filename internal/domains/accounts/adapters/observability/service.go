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

	"github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	"github.com/Apurer/daycare-api/internal/domains/accounts/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

const tracerName = "github.com/Apurer/daycare-api/internal/domains/accounts/adapters/observability/service"

// Service decorates the account service with tracing, logging, and metrics.
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

// New wraps the core account service.
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

func (s *Service) CreateUser(ctx context.Context, caller actor.Actor, input ports.CreateUserInput) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.CreateUser", trace.WithAttributes(
		attribute.String("user.username", input.Username),
		attribute.Int64("actor.id", caller.UserID),
	))
	defer span.End()
	s.logInfo(ctx, "creating user", slog.String("username", input.Username), slog.Bool("is_staff", input.IsStaff))
	result, err := s.inner.CreateUser(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create user", slog.String("username", input.Username))
	}
	s.metrics.recordCreated(ctx, result.IsStaff)
	s.logInfo(ctx, "user created", slog.Int64("user.id", result.ID), slog.String("username", result.Username))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, caller actor.Actor, id int64) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.GetByID", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	result, err := s.inner.GetByID(ctx, caller, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get user", slog.Int64("user.id", id))
	}
	return result, nil
}

func (s *Service) ListStaff(ctx context.Context, caller actor.Actor) ([]*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.ListStaff")
	defer span.End()
	result, err := s.inner.ListStaff(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list staff")
	}
	span.SetAttributes(attribute.Int("user.result.count", len(result)))
	return result, nil
}

func (s *Service) SetCapabilities(ctx context.Context, caller actor.Actor, input ports.CapabilitiesInput) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.SetCapabilities", trace.WithAttributes(
		attribute.Int64("user.id", input.UserID),
		attribute.Bool("user.is_staff", input.IsStaff),
		attribute.Bool("user.can_assign_dogs", input.CanAssignDogs),
	))
	defer span.End()
	s.logInfo(ctx, "setting capabilities", slog.Int64("user.id", input.UserID), slog.Int64("actor.id", caller.UserID))
	result, err := s.inner.SetCapabilities(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to set capabilities", slog.Int64("user.id", input.UserID))
	}
	s.logInfo(ctx, "capabilities updated", slog.Int64("user.id", result.ID), slog.Bool("is_staff", result.IsStaff), slog.Bool("can_assign_dogs", result.CanAssignDogs))
	return result, nil
}

func (s *Service) UpdateProfile(ctx context.Context, caller actor.Actor, userID int64, input ports.ProfileInput) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.UpdateProfile", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("actor.id", caller.UserID),
	))
	defer span.End()
	s.logInfo(ctx, "updating profile", slog.Int64("user.id", userID), slog.Int64("actor.id", caller.UserID))
	result, err := s.inner.UpdateProfile(ctx, caller, userID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update profile", slog.Int64("user.id", userID))
	}
	s.logInfo(ctx, "profile updated", slog.Int64("user.id", result.ID))
	return result, nil
}

func (s *Service) ResolveActor(ctx context.Context, token string) (actor.Actor, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.ResolveActor")
	defer span.End()
	result, err := s.inner.ResolveActor(ctx, token)
	if err != nil {
		s.metrics.recordRejected(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return actor.Actor{}, err
	}
	span.SetAttributes(attribute.Int64("actor.id", result.UserID))
	return result, nil
}

func (s *Service) ActorForUser(ctx context.Context, userID int64) (actor.Actor, error) {
	ctx, span := s.tracer.Start(ctx, "AccountService.ActorForUser", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	result, err := s.inner.ActorForUser(ctx, userID)
	if err != nil {
		return actor.Actor{}, s.handleError(ctx, span, err, "failed to resolve actor", slog.Int64("user.id", userID))
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
	usersCreated     metric.Int64Counter
	sessionsRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	usersCreated, _ := m.Int64Counter("accounts.service.created", metric.WithDescription("Number of accounts created"))
	sessionsRejected, _ := m.Int64Counter("accounts.service.sessions_rejected", metric.WithDescription("Number of session tokens rejected"))
	return serviceMetrics{usersCreated: usersCreated, sessionsRejected: sessionsRejected}
}

func (m serviceMetrics) recordCreated(ctx context.Context, staff bool) {
	if m.usersCreated == nil {
		return
	}
	m.usersCreated.Add(ctx, 1, metric.WithAttributes(attribute.Bool("user.is_staff", staff)))
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.sessionsRejected == nil {
		return
	}
	m.sessionsRejected.Add(ctx, 1)
}

var _ ports.Service = (*Service)(nil)
