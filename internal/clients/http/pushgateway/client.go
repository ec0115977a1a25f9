// Package pushgateway is a thin JSON client for the push relay that fronts the mobile push provider.
package pushgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client posts messages to the relay.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// SendOption configures a single send.
type SendOption func(*sendOptions)

type sendOptions struct {
	idempotencyKey string
}

// WithIdempotencyKey sets the Idempotency-Key header for the request.
func WithIdempotencyKey(key string) SendOption {
	return func(opts *sendOptions) {
		opts.idempotencyKey = strings.TrimSpace(key)
	}
}

// Notification is the message body shared by multicast and topic sends.
type Notification struct {
	Title string            `json:"title"`
	Body  string            `json:"body,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// MulticastRequest targets a list of device tokens.
type MulticastRequest struct {
	Tokens       []string     `json:"tokens"`
	Notification Notification `json:"notification"`
}

// MulticastResponse is the relay's per-batch delivery report.
type MulticastResponse struct {
	SuccessCount int      `json:"successCount"`
	FailureCount int      `json:"failureCount"`
	FailedTokens []string `json:"failedTokens"`
}

// TopicRequest targets every device subscribed to a topic.
type TopicRequest struct {
	Notification Notification `json:"notification"`
}

// Error is the relay's error body.
type Error struct {
	Status  *string `json:"status,omitempty"`
	Message *string `json:"message,omitempty"`
}

// NewClient instantiates the relay client. A nil httpClient gets a 5s timeout and an otel transport.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("push gateway base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid push gateway base URL %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// SendMulticast pushes one notification to every token in req.
func (c *Client) SendMulticast(ctx context.Context, req MulticastRequest, optFns ...SendOption) (*MulticastResponse, error) {
	if len(req.Tokens) == 0 {
		return &MulticastResponse{}, nil
	}
	var out MulticastResponse
	if err := c.post(ctx, "/v1/messages:multicast", req, &out, optFns); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendTopic pushes one notification to a topic.
func (c *Client) SendTopic(ctx context.Context, topic string, req TopicRequest, optFns ...SendOption) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("push topic is required")
	}
	return c.post(ctx, "/v1/topics/"+url.PathEscape(topic)+"/messages", req, nil, optFns)
}

func (c *Client) post(ctx context.Context, path string, body any, out any, optFns []SendOption) error {
	if c == nil || c.httpClient == nil {
		return errors.New("push gateway client not configured")
	}
	var opts sendOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode push request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String()+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if opts.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", opts.idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call push gateway: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read push gateway response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted:
		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode push gateway response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("push gateway idempotency conflict: %s", errorMessage(raw, resp.Status))
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("push gateway error: %s", errorMessage(raw, resp.Status))
	default:
		return fmt.Errorf("push gateway unexpected status: %s", resp.Status)
	}
}

func errorMessage(raw []byte, fallback string) string {
	var body Error
	if len(raw) == 0 || json.Unmarshal(raw, &body) != nil {
		return fallback
	}
	if body.Message != nil {
		if msg := strings.TrimSpace(*body.Message); msg != "" {
			return msg
		}
	}
	if body.Status != nil {
		if msg := strings.TrimSpace(*body.Status); msg != "" {
			return msg
		}
	}
	return fallback
}
