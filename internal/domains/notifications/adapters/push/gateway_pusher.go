package push

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Apurer/daycare-api/internal/clients/http/pushgateway"
	"github.com/Apurer/daycare-api/internal/domains/notifications/domain"
	"github.com/Apurer/daycare-api/internal/domains/notifications/ports"
)

// GatewaySender is the subset of the push relay client the pusher needs.
type GatewaySender interface {
	SendMulticast(ctx context.Context, req pushgateway.MulticastRequest, opts ...pushgateway.SendOption) (*pushgateway.MulticastResponse, error)
	SendTopic(ctx context.Context, topic string, req pushgateway.TopicRequest, opts ...pushgateway.SendOption) error
}

// GatewayPusher forwards pushes to the relay, tagging each send with a fresh idempotency key.
type GatewayPusher struct {
	client GatewaySender
	newKey func() string
}

func NewGatewayPusher(client GatewaySender) *GatewayPusher {
	return &GatewayPusher{client: client, newKey: uuid.NewString}
}

func (p *GatewayPusher) SendMulticast(ctx context.Context, tokens []string, msg domain.Message) (domain.BatchResult, error) {
	if len(tokens) == 0 {
		return domain.BatchResult{}, nil
	}
	resp, err := p.client.SendMulticast(ctx, pushgateway.MulticastRequest{
		Tokens:       tokens,
		Notification: toNotification(msg),
	}, pushgateway.WithIdempotencyKey(p.newKey()))
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("multicast push: %w", err)
	}
	return domain.BatchResult{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
		FailedTokens: resp.FailedTokens,
	}, nil
}

func (p *GatewayPusher) SendTopic(ctx context.Context, topic string, msg domain.Message) error {
	err := p.client.SendTopic(ctx, topic, pushgateway.TopicRequest{Notification: toNotification(msg)},
		pushgateway.WithIdempotencyKey(p.newKey()))
	if err != nil {
		return fmt.Errorf("topic push: %w", err)
	}
	return nil
}

func toNotification(msg domain.Message) pushgateway.Notification {
	return pushgateway.Notification{Title: msg.Title, Body: msg.Body, Data: msg.Data}
}

var _ ports.Pusher = (*GatewayPusher)(nil)
