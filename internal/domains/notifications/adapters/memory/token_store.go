package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/notifications/domain"
	"github.com/Apurer/daycare-api/internal/domains/notifications/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore keeps device tokens in memory keyed by token.
type TokenStore struct {
	mu      sync.RWMutex
	devices map[string]domain.DeviceToken
}

func NewTokenStore() *TokenStore {
	return &TokenStore{devices: map[string]domain.DeviceToken{}}
}

// Register binds a token to a user, moving it if another user held it.
func (s *TokenStore) Register(_ context.Context, token domain.DeviceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	s.devices[token.Token] = token
	return nil
}

func (s *TokenStore) Unregister(_ context.Context, userID int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.devices[token]; ok && existing.UserID == userID {
		delete(s.devices, token)
	}
	return nil
}

func (s *TokenStore) TokensFor(_ context.Context, userID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens := make([]string, 0)
	for token, device := range s.devices {
		if device.UserID == userID {
			tokens = append(tokens, token)
		}
	}
	sort.Strings(tokens)
	return tokens, nil
}
