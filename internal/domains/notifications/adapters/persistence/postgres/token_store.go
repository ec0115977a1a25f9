package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/daycare-api/internal/domains/notifications/domain"
	"github.com/Apurer/daycare-api/internal/domains/notifications/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore persists device tokens in PostgreSQL.
type TokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

type deviceTokenRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:512"`
	UserID    int64     `gorm:"column:user_id;index"`
	Platform  string    `gorm:"column:platform;size:32"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (deviceTokenRecord) TableName() string { return "device_tokens" }

// Register upserts a token, moving it to the new user when it already exists.
func (s *TokenStore) Register(ctx context.Context, token domain.DeviceToken) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	rec := deviceTokenRecord{Token: token.Token, UserID: token.UserID, Platform: token.Platform}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *TokenStore) Unregister(ctx context.Context, userID int64, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&deviceTokenRecord{}, "token = ? AND user_id = ?", token, userID).Error
}

func (s *TokenStore) TokensFor(ctx context.Context, userID int64) ([]string, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var tokens []string
	if err := s.db.WithContext(ctx).
		Model(&deviceTokenRecord{}).
		Where("user_id = ?", userID).
		Order("token").
		Pluck("token", &tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *TokenStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres device token store not configured")
	}
	return nil
}
