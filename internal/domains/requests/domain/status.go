package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the review state shared by date-change and boarding requests.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDenied   Status = "DENIED"
)

var ErrInvalidStatus = errors.New("invalid request status")

// ParseStatus validates a status name. Matching is case-insensitive.
func ParseStatus(value string) (Status, error) {
	switch status := Status(strings.ToUpper(strings.TrimSpace(value))); status {
	case StatusPending, StatusApproved, StatusDenied:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
}

// StatusChange is one entry of a request's review history.
type StatusChange struct {
	ID        int64
	From      Status
	To        Status
	ChangedBy int64
	ChangedAt time.Time
}

// Approval tracks the review state and who approved it.
type Approval struct {
	Status     Status
	ApprovedBy *int64
	ApprovedAt *time.Time
	History    []StatusChange
}

func newApproval() Approval {
	return Approval{Status: StatusPending}
}

// Transition moves to status on behalf of reviewer. Setting the current status is a no-op and reports false.
// Approving stamps the reviewer and time; any other status clears them.
func (a *Approval) Transition(to Status, reviewer int64, at time.Time) bool {
	if a.Status == to {
		return false
	}
	change := StatusChange{From: a.Status, To: to, ChangedBy: reviewer, ChangedAt: at}
	if to == StatusApproved {
		by, stamped := reviewer, at
		a.ApprovedBy = &by
		a.ApprovedAt = &stamped
	} else {
		a.ApprovedBy = nil
		a.ApprovedAt = nil
	}
	a.Status = to
	a.History = append(a.History, change)
	return true
}

// IsApproved reports whether the request currently counts toward the schedule.
func (a Approval) IsApproved() bool {
	return a.Status == StatusApproved
}

func (a Approval) clone() Approval {
	out := a
	if a.ApprovedBy != nil {
		by := *a.ApprovedBy
		out.ApprovedBy = &by
	}
	if a.ApprovedAt != nil {
		at := *a.ApprovedAt
		out.ApprovedAt = &at
	}
	out.History = append([]StatusChange(nil), a.History...)
	return out
}
