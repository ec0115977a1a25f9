package mapper

import (
	"github.com/Apurer/daycare-api/internal/domains/accounts/domain"
	"github.com/Apurer/daycare-api/internal/domains/accounts/ports"
)

// User represents the transport-level account payload.
type User struct {
	ID                 int64  `json:"id"`
	Username           string `json:"username"`
	FirstName          string `json:"firstName,omitempty"`
	LastName           string `json:"lastName,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	PickupInstructions string `json:"pickupInstructions,omitempty"`
	IsStaff            bool   `json:"isStaff"`
	CanAssignDogs      bool   `json:"canAssignDogs"`
}

// Capabilities is the body of the capabilities endpoint.
type Capabilities struct {
	IsStaff       bool `json:"isStaff"`
	CanAssignDogs bool `json:"canAssignDogs"`
}

// ProfilePatch is the body of a partial profile update. Omitted fields are left unchanged.
type ProfilePatch struct {
	FirstName          *string `json:"firstName,omitempty"`
	LastName           *string `json:"lastName,omitempty"`
	Email              *string `json:"email,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	Address            *string `json:"address,omitempty"`
	PickupInstructions *string `json:"pickupInstructions,omitempty"`
}

// ToProfileInput converts a transport patch into the profile use-case input.
func ToProfileInput(model ProfilePatch) ports.ProfileInput {
	return ports.ProfileInput{
		FirstName:          model.FirstName,
		LastName:           model.LastName,
		Email:              model.Email,
		Phone:              model.Phone,
		Address:            model.Address,
		PickupInstructions: model.PickupInstructions,
	}
}

// ToCreateInput converts a transport user into the create use-case input.
func ToCreateInput(model User) ports.CreateUserInput {
	return ports.CreateUserInput{
		Username:           model.Username,
		FirstName:          model.FirstName,
		LastName:           model.LastName,
		Email:              model.Email,
		Phone:              model.Phone,
		Address:            model.Address,
		PickupInstructions: model.PickupInstructions,
		IsStaff:            model.IsStaff,
		CanAssignDogs:      model.CanAssignDogs,
	}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *domain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:                 user.ID,
		Username:           user.Username,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Email:              user.Email,
		Phone:              user.Phone,
		Address:            user.Address,
		PickupInstructions: user.PickupInstructions,
		IsStaff:            user.IsStaff,
		CanAssignDogs:      user.CanAssignDogs,
	}
}

// FromDomainUsers converts a slice of domain users to transport representation.
func FromDomainUsers(users []*domain.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}
