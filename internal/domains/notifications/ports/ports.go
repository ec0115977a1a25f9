package ports

import (
	"context"

	"github.com/Apurer/daycare-api/internal/domains/notifications/domain"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// TokenStore persists device registrations.
type TokenStore interface {
	Register(ctx context.Context, token domain.DeviceToken) error
	Unregister(ctx context.Context, userID int64, token string) error
	TokensFor(ctx context.Context, userID int64) ([]string, error)
}

// Pusher delivers messages to a push provider.
type Pusher interface {
	SendMulticast(ctx context.Context, tokens []string, msg domain.Message) (domain.BatchResult, error)
	SendTopic(ctx context.Context, topic string, msg domain.Message) error
}

// Dispatcher is consumed by other contexts to notify users. Implementations never block on delivery failures.
type Dispatcher interface {
	Notify(ctx context.Context, userID int64, title, body string, data map[string]string) error
	NotifyStaff(ctx context.Context, title, body string, data map[string]string) error
}

// DeviceService manages the caller's own device registrations.
type DeviceService interface {
	RegisterDevice(ctx context.Context, caller actor.Actor, token, platform string) error
	UnregisterDevice(ctx context.Context, caller actor.Actor, token string) error
}
