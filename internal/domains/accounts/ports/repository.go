package ports

import (
	"context"
	"errors"

	"github.com/Apurer/daycare-api/internal/domains/accounts/domain"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when another account already holds the username.
	ErrUsernameTaken = errors.New("username already taken")
)

type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListStaff(ctx context.Context) ([]*domain.User, error)
}
