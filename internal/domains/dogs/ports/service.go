package ports

import (
	"context"

	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// RegisterDogInput carries the fields of a new dog. OwnerID is honoured for staff callers only.
type RegisterDogInput struct {
	Name             string
	OwnerID          *int64
	DaycareDays      []int
	FoodInstructions string
	MedicalNotes     string
}

// UpdateCareInput replaces the free-text care notes.
type UpdateCareInput struct {
	DogID            int64
	FoodInstructions string
	MedicalNotes     string
}

// Service exposes dog use cases to adapters.
type Service interface {
	Register(ctx context.Context, caller actor.Actor, input RegisterDogInput) (*DogProjection, error)
	Get(ctx context.Context, caller actor.Actor, id int64) (*DogProjection, error)
	List(ctx context.Context, caller actor.Actor) ([]*DogProjection, error)
	UpdateSchedule(ctx context.Context, caller actor.Actor, id int64, days []int) (*DogProjection, error)
	UpdateCare(ctx context.Context, caller actor.Actor, input UpdateCareInput) (*DogProjection, error)
	AddCoOwner(ctx context.Context, caller actor.Actor, dogID, userID int64) (*DogProjection, error)
}
