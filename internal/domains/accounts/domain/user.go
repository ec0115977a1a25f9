package domain

import (
	"errors"
	"strings"

	"github.com/Apurer/daycare-api/internal/shared/actor"
)

var (
	ErrEmptyUsername       = errors.New("username is required")
	ErrInvalidEmail        = errors.New("email must contain '@'")
	ErrAssignerMustBeStaff = errors.New("only staff members can assign dogs")
)

// User is a daycare account: a dog owner, a staff member, or both.
type User struct {
	ID                 int64
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

// NewUser builds a user ensuring required invariants.
func NewUser(id int64, username string) (*User, error) {
	user := &User{ID: id}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// UpdateProfile applies optional profile fields and validates email if present.
func (u *User) UpdateProfile(firstName, lastName, email, phone string) error {
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	u.Phone = strings.TrimSpace(phone)
	return nil
}

// UpdatePickup stores where and how dogs are collected from this owner.
func (u *User) UpdatePickup(address, instructions string) {
	u.Address = strings.TrimSpace(address)
	u.PickupInstructions = strings.TrimSpace(instructions)
}

// GrantCapabilities sets the staff flags. Assigning dogs is a staff-only capability.
func (u *User) GrantCapabilities(isStaff, canAssignDogs bool) error {
	if canAssignDogs && !isStaff {
		return ErrAssignerMustBeStaff
	}
	u.IsStaff = isStaff
	u.CanAssignDogs = canAssignDogs
	return nil
}

// DisplayName prefers the first name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Actor projects the user into the capability set checked by use cases.
func (u *User) Actor() actor.Actor {
	return actor.Actor{
		UserID:        u.ID,
		Username:      u.Username,
		IsStaff:       u.IsStaff,
		CanAssignDogs: u.CanAssignDogs,
	}
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if err := u.UpdateProfile(u.FirstName, u.LastName, u.Email, u.Phone); err != nil {
		return err
	}
	return u.GrantCapabilities(u.IsStaff, u.CanAssignDogs)
}
