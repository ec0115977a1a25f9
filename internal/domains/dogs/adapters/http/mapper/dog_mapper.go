package mapper

import (
	"time"

	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
)

// Dog represents the transport-level dog payload.
type Dog struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	OwnerID          *int64    `json:"ownerId,omitempty"`
	CoOwnerIDs       []int64   `json:"coOwnerIds"`
	DaycareDays      []int     `json:"daycareDays"`
	FoodInstructions string    `json:"foodInstructions,omitempty"`
	MedicalNotes     string    `json:"medicalNotes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// RegisterDog is the body of the registration endpoint.
type RegisterDog struct {
	Name             string `json:"name" binding:"required"`
	OwnerID          *int64 `json:"ownerId"`
	DaycareDays      []int  `json:"daycareDays"`
	FoodInstructions string `json:"foodInstructions"`
	MedicalNotes     string `json:"medicalNotes"`
}

// Schedule is the body of the schedule endpoint.
type Schedule struct {
	DaycareDays []int `json:"daycareDays"`
}

// Care is the body of the care-notes endpoint.
type Care struct {
	FoodInstructions string `json:"foodInstructions"`
	MedicalNotes     string `json:"medicalNotes"`
}

// CoOwner is the body of the co-owner endpoint.
type CoOwner struct {
	UserID int64 `json:"userId" binding:"required"`
}

// ToRegisterInput converts the transport payload into the use-case input.
func ToRegisterInput(body RegisterDog) ports.RegisterDogInput {
	return ports.RegisterDogInput{
		Name:             body.Name,
		OwnerID:          body.OwnerID,
		DaycareDays:      body.DaycareDays,
		FoodInstructions: body.FoodInstructions,
		MedicalNotes:     body.MedicalNotes,
	}
}

// FromProjection converts a dog projection into its transport representation.
func FromProjection(proj *ports.DogProjection) Dog {
	if proj == nil || proj.Entity == nil {
		return Dog{}
	}
	dog := proj.Entity
	out := Dog{
		ID:               dog.ID,
		Name:             dog.Name,
		OwnerID:          dog.OwnerID,
		CoOwnerIDs:       append([]int64{}, dog.CoOwnerIDs...),
		DaycareDays:      append([]int{}, dog.DaycareDays...),
		FoodInstructions: dog.FoodInstructions,
		MedicalNotes:     dog.MedicalNotes,
		CreatedAt:        proj.Metadata.CreatedAt,
		UpdatedAt:        proj.Metadata.UpdatedAt,
	}
	return out
}

// FromProjections converts a slice of projections.
func FromProjections(list []*ports.DogProjection) []Dog {
	result := make([]Dog, 0, len(list))
	for _, proj := range list {
		result = append(result, FromProjection(proj))
	}
	return result
}
