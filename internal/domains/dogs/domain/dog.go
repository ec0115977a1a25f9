package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

var (
	ErrEmptyName      = errors.New("dog name is required")
	ErrInvalidWeekday = errors.New("daycare days must be between 1 (Monday) and 7 (Sunday)")
	ErrInvalidCoOwner = errors.New("co-owner must be a known user other than the owner")
)

// Dog is a dog enrolled at the daycare.
type Dog struct {
	ID               int64
	OwnerID          *int64
	CoOwnerIDs       []int64
	Name             string
	DaycareDays      []int
	FoodInstructions string
	MedicalNotes     string
}

// NewDog builds a dog ensuring required invariants.
func NewDog(id int64, name string, ownerID *int64) (*Dog, error) {
	dog := &Dog{ID: id}
	if err := dog.Rename(name); err != nil {
		return nil, err
	}
	if ownerID != nil {
		owner := *ownerID
		dog.OwnerID = &owner
	}
	return dog, nil
}

// Rename trims and validates the dog name.
func (d *Dog) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	d.Name = name
	return nil
}

// UpdateCare replaces the feeding and medical notes.
func (d *Dog) UpdateCare(food, medical string) {
	d.FoodInstructions = strings.TrimSpace(food)
	d.MedicalNotes = strings.TrimSpace(medical)
}

// SetDaycareDays replaces the weekly schedule. Days use ISO numbering, Monday=1 through Sunday=7.
func (d *Dog) SetDaycareDays(days []int) error {
	normalized := make([]int, 0, len(days))
	for _, day := range days {
		if day < 1 || day > 7 {
			return fmt.Errorf("%w: got %d", ErrInvalidWeekday, day)
		}
		if !slices.Contains(normalized, day) {
			normalized = append(normalized, day)
		}
	}
	slices.Sort(normalized)
	d.DaycareDays = normalized
	return nil
}

// AttendsOn reports whether the weekly schedule includes the weekday of day.
func (d *Dog) AttendsOn(day time.Time) bool {
	return slices.Contains(d.DaycareDays, calendar.ISOWeekday(day))
}

// AddCoOwner grants another user shared ownership. Adding an existing co-owner is a no-op.
func (d *Dog) AddCoOwner(userID int64) error {
	if userID <= 0 || (d.OwnerID != nil && *d.OwnerID == userID) {
		return ErrInvalidCoOwner
	}
	if !slices.Contains(d.CoOwnerIDs, userID) {
		d.CoOwnerIDs = append(d.CoOwnerIDs, userID)
		slices.Sort(d.CoOwnerIDs)
	}
	return nil
}

// Owners lists the owner followed by every co-owner.
func (d *Dog) Owners() []int64 {
	owners := make([]int64, 0, len(d.CoOwnerIDs)+1)
	if d.OwnerID != nil {
		owners = append(owners, *d.OwnerID)
	}
	for _, id := range d.CoOwnerIDs {
		if !slices.Contains(owners, id) {
			owners = append(owners, id)
		}
	}
	return owners
}

// IsOwnedBy reports whether userID is the owner or a co-owner.
func (d *Dog) IsOwnedBy(userID int64) bool {
	return slices.Contains(d.Owners(), userID)
}

// Clone returns a deep copy.
func (d *Dog) Clone() *Dog {
	if d == nil {
		return nil
	}
	clone := *d
	if d.OwnerID != nil {
		owner := *d.OwnerID
		clone.OwnerID = &owner
	}
	clone.CoOwnerIDs = slices.Clone(d.CoOwnerIDs)
	clone.DaycareDays = slices.Clone(d.DaycareDays)
	return &clone
}

// Validate re-applies core invariants for persistence.
func (d *Dog) Validate() error {
	if err := d.Rename(d.Name); err != nil {
		return err
	}
	return d.SetDaycareDays(d.DaycareDays)
}
