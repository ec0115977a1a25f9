package ports

import (
	"context"
	"errors"

	"github.com/Apurer/daycare-api/internal/domains/dogs/domain"
	"github.com/Apurer/daycare-api/internal/shared/projection"
)

var (
	ErrNotFound = errors.New("dog not found")
	// ErrUnknownUser is returned when an owner or co-owner id does not exist.
	ErrUnknownUser = errors.New("user does not exist")
)

// DogProjection is a dog plus persistence metadata.
type DogProjection = projection.Projection[*domain.Dog]

type Repository interface {
	Save(ctx context.Context, dog *domain.Dog) (*DogProjection, error)
	GetByID(ctx context.Context, id int64) (*DogProjection, error)
	List(ctx context.Context) ([]*DogProjection, error)
	// ListByOwner returns dogs the user owns or co-owns.
	ListByOwner(ctx context.Context, userID int64) ([]*DogProjection, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*DogProjection, error)
	// ListByDaycareDay returns dogs scheduled on an ISO weekday (Monday=1).
	ListByDaycareDay(ctx context.Context, weekday int) ([]*DogProjection, error)
}

// UserDirectory checks that user ids referenced by dogs exist.
type UserDirectory interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
}
