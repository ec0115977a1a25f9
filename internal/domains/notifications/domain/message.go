package domain

import (
	"errors"
	"strings"
	"time"
)

// StaffTopic is the broadcast channel every staff device subscribes to.
const StaffTopic = "staff_notifications"

var (
	ErrEmptyToken = errors.New("device token is required")
	ErrEmptyTitle = errors.New("notification title is required")
)

// DeviceToken binds a push token to the user whose devices should receive messages.
type DeviceToken struct {
	UserID    int64
	Token     string
	Platform  string
	CreatedAt time.Time
}

// NewDeviceToken validates and normalizes a device registration.
func NewDeviceToken(userID int64, token, platform string) (DeviceToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return DeviceToken{}, ErrEmptyToken
	}
	return DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: strings.ToLower(strings.TrimSpace(platform)),
	}, nil
}

// Message is a push notification payload.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// NewMessage builds a message, copying data so callers may reuse their map.
func NewMessage(title, body string, data map[string]string) (Message, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Message{}, ErrEmptyTitle
	}
	copied := make(map[string]string, len(data))
	for k, v := range data {
		copied[k] = v
	}
	return Message{Title: title, Body: body, Data: copied}, nil
}

// BatchResult reports the outcome of a multicast push.
type BatchResult struct {
	SuccessCount int
	FailureCount int
	// FailedTokens lists tokens the provider rejected.
	FailedTokens []string
}
