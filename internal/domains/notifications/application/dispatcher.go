package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/Apurer/daycare-api/internal/domains/notifications/domain"
	"github.com/Apurer/daycare-api/internal/domains/notifications/ports"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// ErrInvalidInput signals a malformed device registration or message.
var ErrInvalidInput = errors.New("invalid notification input")

// Dispatcher fans messages out to device tokens through a Pusher.
type Dispatcher struct {
	tokens  ports.TokenStore
	pusher  ports.Pusher
	limiter *rate.Limiter
	logger  *slog.Logger
}

type Option func(*Dispatcher)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRateLimit caps provider calls per second. Sends over the limit are dropped with a warning.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(d *Dispatcher) {
		if perSecond <= 0 {
			d.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func NewDispatcher(tokens ports.TokenStore, pusher ports.Pusher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		tokens: tokens,
		pusher: pusher,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Notify pushes a message to every device of userID. Users without devices are skipped silently.
func (d *Dispatcher) Notify(ctx context.Context, userID int64, title, body string, data map[string]string) error {
	msg, err := domain.NewMessage(title, body, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	tokens, err := d.tokens.TokensFor(ctx, userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	if !d.allow(ctx, slog.Int64("user.id", userID)) {
		return nil
	}
	result, err := d.pusher.SendMulticast(ctx, tokens, msg)
	if err != nil {
		return err
	}
	d.logger.LogAttrs(ctx, slog.LevelInfo, "push notification sent",
		slog.Int64("user.id", userID),
		slog.Int("success", result.SuccessCount),
		slog.Int("failure", result.FailureCount),
	)
	for _, token := range result.FailedTokens {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "push token rejected", slog.Int64("user.id", userID), slog.String("token", redact(token)))
	}
	return nil
}

// NotifyStaff pushes a message to the staff topic.
func (d *Dispatcher) NotifyStaff(ctx context.Context, title, body string, data map[string]string) error {
	msg, err := domain.NewMessage(title, body, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !d.allow(ctx, slog.String("topic", domain.StaffTopic)) {
		return nil
	}
	if err := d.pusher.SendTopic(ctx, domain.StaffTopic, msg); err != nil {
		return err
	}
	d.logger.LogAttrs(ctx, slog.LevelInfo, "staff notification sent", slog.String("topic", domain.StaffTopic))
	return nil
}

// RegisterDevice stores a push token for the caller.
func (d *Dispatcher) RegisterDevice(ctx context.Context, caller actor.Actor, token, platform string) error {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return err
	}
	device, err := domain.NewDeviceToken(caller.UserID, token, platform)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return d.tokens.Register(ctx, device)
}

// UnregisterDevice removes one of the caller's push tokens.
func (d *Dispatcher) UnregisterDevice(ctx context.Context, caller actor.Actor, token string) error {
	if err := actor.RequireAuthenticated(caller); err != nil {
		return err
	}
	return d.tokens.Unregister(ctx, caller.UserID, token)
}

// allow reports whether a send fits the limit without waiting for a token.
func (d *Dispatcher) allow(ctx context.Context, attrs ...slog.Attr) bool {
	if d.limiter == nil || d.limiter.Allow() {
		return true
	}
	d.logger.LogAttrs(ctx, slog.LevelWarn, "push notification dropped by rate limit", attrs...)
	return false
}

const redactedPrefix = 10

func redact(token string) string {
	if len(token) <= redactedPrefix {
		return "[redacted]"
	}
	return token[:redactedPrefix] + "..."
}

var (
	_ ports.Dispatcher    = (*Dispatcher)(nil)
	_ ports.DeviceService = (*Dispatcher)(nil)
)
