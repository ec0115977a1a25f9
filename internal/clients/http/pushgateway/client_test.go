package pushgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)

	_, err = NewClient("not a url", nil)
	require.Error(t, err)
}

func TestSendMulticastPostsTokensAndDecodesReport(t *testing.T) {
	var got MulticastRequest
	var idem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages:multicast", r.URL.Path)
		idem = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"successCount":1,"failureCount":1,"failedTokens":["stale"]}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/", srv.Client())
	require.NoError(t, err)

	resp, err := client.SendMulticast(context.Background(), MulticastRequest{
		Tokens:       []string{"fresh", "stale"},
		Notification: Notification{Title: "Picked up", Data: map[string]string{"dogId": "1"}},
	}, WithIdempotencyKey(" key-1 "))
	require.NoError(t, err)

	assert.Equal(t, "key-1", idem)
	assert.Equal(t, []string{"fresh", "stale"}, got.Tokens)
	assert.Equal(t, "Picked up", got.Notification.Title)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, []string{"stale"}, resp.FailedTokens)
}

func TestSendMulticastWithoutTokensSkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	resp, err := client.SendMulticast(context.Background(), MulticastRequest{})
	require.NoError(t, err)
	assert.Zero(t, resp.SuccessCount)
	assert.False(t, called)
}

func TestSendTopicSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/topics/staff_notifications/messages", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"provider unavailable"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	err = client.SendTopic(context.Background(), "staff_notifications", TopicRequest{Notification: Notification{Title: "New request"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider unavailable")
}

func TestSendTopicConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	err = client.SendTopic(context.Background(), "staff", TopicRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idempotency conflict")
}
