package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

// ChangeType distinguishes cancelling a day from moving it.
type ChangeType string

const (
	ChangeCancel ChangeType = "CANCEL"
	ChangeMove   ChangeType = "CHANGE"
)

var (
	ErrInvalidChangeType = errors.New("request type must be CANCEL or CHANGE")
	ErrMissingNewDate    = errors.New("a CHANGE request needs a new date different from the original")
	ErrMissingDog        = errors.New("a dog is required")
)

// ParseChangeType validates a request type name.
func ParseChangeType(value string) (ChangeType, error) {
	switch kind := ChangeType(strings.ToUpper(strings.TrimSpace(value))); kind {
	case ChangeCancel, ChangeMove:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChangeType, value)
	}
}

// DateChangeRequest asks to cancel or move one daycare day of a dog.
type DateChangeRequest struct {
	ID           int64
	DogID        int64
	RequestedBy  int64
	Type         ChangeType
	OriginalDate time.Time
	NewDate      *time.Time
	Reason       string
	Approval
	CreatedAt time.Time
}

// NewDateChangeRequest builds a pending request. Dates are normalized to calendar days.
func NewDateChangeRequest(dogID, requestedBy int64, kind ChangeType, original time.Time, newDate *time.Time, reason string) (*DateChangeRequest, error) {
	if dogID <= 0 {
		return nil, ErrMissingDog
	}
	if kind != ChangeCancel && kind != ChangeMove {
		return nil, ErrInvalidChangeType
	}
	req := &DateChangeRequest{
		DogID:        dogID,
		RequestedBy:  requestedBy,
		Type:         kind,
		OriginalDate: calendar.Day(original),
		Reason:       strings.TrimSpace(reason),
		Approval:     newApproval(),
	}
	if kind == ChangeMove {
		if newDate == nil || calendar.Day(*newDate).Equal(req.OriginalDate) {
			return nil, ErrMissingNewDate
		}
		day := calendar.Day(*newDate)
		req.NewDate = &day
	}
	return req, nil
}

// CancelsDay reports whether an approved cancellation removes the dog from day.
func (r *DateChangeRequest) CancelsDay(day time.Time) bool {
	return r.IsApproved() && r.Type == ChangeCancel && r.OriginalDate.Equal(calendar.Day(day))
}

// Clone returns a deep copy.
func (r *DateChangeRequest) Clone() *DateChangeRequest {
	if r == nil {
		return nil
	}
	out := *r
	if r.NewDate != nil {
		day := *r.NewDate
		out.NewDate = &day
	}
	out.Approval = r.Approval.clone()
	return &out
}
