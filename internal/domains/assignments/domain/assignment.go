package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

// Status tracks a dog through the pickup and drop-off day.
type Status string

const (
	StatusAssigned   Status = "ASSIGNED"
	StatusPickedUp   Status = "PICKED_UP"
	StatusAtDaycare  Status = "AT_DAYCARE"
	StatusDroppedOff Status = "DROPPED_OFF"
)

var (
	ErrInvalidStatus = errors.New("invalid assignment status")
	ErrMissingDog    = errors.New("assignment requires a dog")
	ErrMissingStaff  = errors.New("assignment requires a staff member")
	ErrMissingDate   = errors.New("assignment requires a date")
)

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusAssigned, StatusPickedUp, StatusAtDaycare, StatusDroppedOff}
}

// ParseStatus validates a status name. Matching is case-insensitive.
func ParseStatus(value string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(value)))
	for _, status := range Statuses() {
		if candidate == status {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

// Label is the human readable status name.
func (s Status) Label() string {
	switch s {
	case StatusAssigned:
		return "Assigned"
	case StatusPickedUp:
		return "Picked Up"
	case StatusAtDaycare:
		return "At Daycare"
	case StatusDroppedOff:
		return "Dropped Off"
	default:
		return string(s)
	}
}

// OwnerMessage is the push notification body sent to owners when a dog reaches s.
func (s Status) OwnerMessage(dogName string) string {
	switch s {
	case StatusAssigned:
		return fmt.Sprintf("%s has been assigned to a staff member.", dogName)
	case StatusPickedUp:
		return fmt.Sprintf("%s has been picked up.", dogName)
	case StatusAtDaycare:
		return fmt.Sprintf("%s has arrived at daycare.", dogName)
	case StatusDroppedOff:
		return fmt.Sprintf("%s has been dropped off.", dogName)
	default:
		return fmt.Sprintf("%s is now %s.", dogName, strings.ToLower(s.Label()))
	}
}

// Assignment links a dog to the staff member responsible for it on one calendar day.
type Assignment struct {
	ID        int64     `json:"id"`
	DogID     int64     `json:"dogId"`
	StaffID   int64     `json:"staffId"`
	Date      time.Time `json:"date"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewAssignment builds an ASSIGNED row for the calendar day containing date.
func NewAssignment(dogID, staffID int64, date time.Time) (*Assignment, error) {
	a := &Assignment{
		DogID:   dogID,
		StaffID: staffID,
		Date:    calendar.Day(date),
		Status:  StatusAssigned,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the aggregate invariants.
func (a *Assignment) Validate() error {
	switch {
	case a.DogID <= 0:
		return ErrMissingDog
	case a.StaffID <= 0:
		return ErrMissingStaff
	case a.Date.IsZero():
		return ErrMissingDate
	}
	if _, err := ParseStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}

// SetStatus moves the assignment to status. Any status may follow any other.
// It reports the previous status and whether anything changed.
func (a *Assignment) SetStatus(status Status) (Status, bool) {
	previous := a.Status
	if previous == status {
		return previous, false
	}
	a.Status = status
	return previous, true
}

// Reassign hands the dog to another staff member. It reports whether the holder changed.
func (a *Assignment) Reassign(staffID int64) (bool, error) {
	if staffID <= 0 {
		return false, ErrMissingStaff
	}
	if a.StaffID == staffID {
		return false, nil
	}
	a.StaffID = staffID
	return true, nil
}

func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	out := *a
	return &out
}
