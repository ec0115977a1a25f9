package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
)

var (
	ErrNotFound = errors.New("request not found")
	// ErrUnknownDog is returned when a request references a dog that does not exist.
	ErrUnknownDog = errors.New("dog not found")
)

// Repository persists requests together with their review history.
type Repository interface {
	SaveDateChange(ctx context.Context, req *domain.DateChangeRequest) (*domain.DateChangeRequest, error)
	GetDateChange(ctx context.Context, id int64) (*domain.DateChangeRequest, error)
	// ListDateChanges returns requests for the given dogs, or every request when dogIDs is nil.
	ListDateChanges(ctx context.Context, dogIDs []int64) ([]*domain.DateChangeRequest, error)

	SaveBoarding(ctx context.Context, req *domain.BoardingRequest) (*domain.BoardingRequest, error)
	GetBoarding(ctx context.Context, id int64) (*domain.BoardingRequest, error)
	// ListBoarding returns requests of one owner, or every request when ownerID is nil.
	ListBoarding(ctx context.Context, ownerID *int64) ([]*domain.BoardingRequest, error)

	// ApprovedCancellations lists dogs with an approved CANCEL whose original date is day.
	ApprovedCancellations(ctx context.Context, day time.Time) ([]int64, error)
	// ApprovedBoardingDogs lists dogs of approved boarding requests whose range contains day.
	ApprovedBoardingDogs(ctx context.Context, day time.Time) ([]int64, error)
}

// DogRef is the slice of a dog the request workflow needs.
type DogRef struct {
	ID       int64
	Name     string
	OwnerIDs []int64
}

// DogDirectory resolves dogs referenced by requests.
type DogDirectory interface {
	Dog(ctx context.Context, id int64) (DogRef, error)
	// OwnedDogIDs lists dogs the user owns or co-owns.
	OwnedDogIDs(ctx context.Context, userID int64) ([]int64, error)
}

// Notifier pushes messages to users and to the staff topic.
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, body string, data map[string]string) error
	NotifyStaff(ctx context.Context, title, body string, data map[string]string) error
}
