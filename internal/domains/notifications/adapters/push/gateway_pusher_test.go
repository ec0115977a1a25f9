package push

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/daycare-api/internal/clients/http/pushgateway"
	"github.com/Apurer/daycare-api/internal/domains/notifications/domain"
)

type fakeSender struct {
	multicast pushgateway.MulticastRequest
	topic     string
	topicReq  pushgateway.TopicRequest
	resp      *pushgateway.MulticastResponse
	err       error
	calls     int
}

func (f *fakeSender) SendMulticast(_ context.Context, req pushgateway.MulticastRequest, _ ...pushgateway.SendOption) (*pushgateway.MulticastResponse, error) {
	f.calls++
	f.multicast = req
	return f.resp, f.err
}

func (f *fakeSender) SendTopic(_ context.Context, topic string, req pushgateway.TopicRequest, _ ...pushgateway.SendOption) error {
	f.calls++
	f.topic = topic
	f.topicReq = req
	return f.err
}

func TestGatewayPusherMapsBatchResult(t *testing.T) {
	sender := &fakeSender{resp: &pushgateway.MulticastResponse{SuccessCount: 1, FailureCount: 1, FailedTokens: []string{"b"}}}
	pusher := NewGatewayPusher(sender)

	msg, err := domain.NewMessage("Dropped off", "Rex is home", map[string]string{"status": "DROPPED_OFF"})
	require.NoError(t, err)

	result, err := pusher.SendMulticast(context.Background(), []string{"a", "b"}, msg)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchResult{SuccessCount: 1, FailureCount: 1, FailedTokens: []string{"b"}}, result)
	assert.Equal(t, []string{"a", "b"}, sender.multicast.Tokens)
	assert.Equal(t, "DROPPED_OFF", sender.multicast.Notification.Data["status"])
}

func TestGatewayPusherSkipsEmptyTokenList(t *testing.T) {
	sender := &fakeSender{}
	_, err := NewGatewayPusher(sender).SendMulticast(context.Background(), nil, domain.Message{Title: "x"})
	require.NoError(t, err)
	assert.Zero(t, sender.calls)
}

func TestGatewayPusherWrapsTopicErrors(t *testing.T) {
	boom := errors.New("boom")
	sender := &fakeSender{err: boom}
	err := NewGatewayPusher(sender).SendTopic(context.Background(), domain.StaffTopic, domain.Message{Title: "New request"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.StaffTopic, sender.topic)
	assert.Equal(t, "New request", sender.topicReq.Notification.Title)
}
