package ports

import (
	"context"

	"github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// CreateUserInput carries the fields staff supply when onboarding an account.
type CreateUserInput struct {
	Username           string
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	Address            string
	PickupInstructions string
	IsStaff            bool
	CanAssignDogs      bool
}

// CapabilitiesInput toggles the staff flags of an account.
type CapabilitiesInput struct {
	UserID        int64
	IsStaff       bool
	CanAssignDogs bool
}

// ProfileInput carries a partial profile update. Nil fields keep their stored value.
type ProfileInput struct {
	FirstName          *string
	LastName           *string
	Email              *string
	Phone              *string
	Address            *string
	PickupInstructions *string
}

// Service exposes account use cases to adapters.
type Service interface {
	CreateUser(ctx context.Context, caller actor.Actor, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, caller actor.Actor, id int64) (*domain.User, error)
	ListStaff(ctx context.Context, caller actor.Actor) ([]*domain.User, error)
	SetCapabilities(ctx context.Context, caller actor.Actor, input CapabilitiesInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, caller actor.Actor, userID int64, input ProfileInput) (*domain.User, error)
	ResolveActor(ctx context.Context, token string) (actor.Actor, error)
	ActorForUser(ctx context.Context, userID int64) (actor.Actor, error)
}
