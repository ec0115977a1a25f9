package ports

import (
	"context"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

type CreateDateChangeInput struct {
	DogID        int64
	Type         string
	OriginalDate time.Time
	NewDate      *time.Time
	Reason       string
}

// CreateBoardingInput describes a stay. OwnerID is honoured for staff callers only.
type CreateBoardingInput struct {
	OwnerID   *int64
	DogIDs    []int64
	StartDate time.Time
	EndDate   time.Time
	Notes     string
}

// StatusResult reports the request after a status change and whether anything changed.
type StatusResult[T any] struct {
	Request T
	Changed bool
}

// Service exposes request use cases to adapters.
type Service interface {
	CreateDateChange(ctx context.Context, caller actor.Actor, input CreateDateChangeInput) (*domain.DateChangeRequest, error)
	GetDateChange(ctx context.Context, caller actor.Actor, id int64) (*domain.DateChangeRequest, error)
	ListDateChanges(ctx context.Context, caller actor.Actor) ([]*domain.DateChangeRequest, error)
	ChangeDateChangeStatus(ctx context.Context, caller actor.Actor, id int64, status string) (*StatusResult[*domain.DateChangeRequest], error)

	CreateBoarding(ctx context.Context, caller actor.Actor, input CreateBoardingInput) (*domain.BoardingRequest, error)
	GetBoarding(ctx context.Context, caller actor.Actor, id int64) (*domain.BoardingRequest, error)
	ListBoarding(ctx context.Context, caller actor.Actor) ([]*domain.BoardingRequest, error)
	ChangeBoardingStatus(ctx context.Context, caller actor.Actor, id int64, status string) (*StatusResult[*domain.BoardingRequest], error)
}
