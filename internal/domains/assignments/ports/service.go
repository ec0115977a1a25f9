package ports

import (
	"context"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// Suggestion recommends the staff member historically most associated with a dog.
type Suggestion struct {
	DogID     int64
	DogName   string
	StaffID   int64
	StaffName string
	Count     int
}

// AutoAssignResult lists assignments created by auto-assign and dogs left without a suggestion.
type AutoAssignResult struct {
	Created []*domain.Assignment
	Skipped []int64
}

// Service exposes the daily assignment use cases.
type Service interface {
	GetExpectedDogs(ctx context.Context, caller actor.Actor, date time.Time) ([]DogRef, error)
	GetUnassignedDogs(ctx context.Context, caller actor.Actor, date time.Time) ([]DogRef, error)
	GetSuggestions(ctx context.Context, caller actor.Actor, date time.Time) ([]Suggestion, error)
	AutoAssign(ctx context.Context, caller actor.Actor, date time.Time) (*AutoAssignResult, error)
	AssignToSelf(ctx context.Context, caller actor.Actor, dogIDs []int64, date time.Time) ([]*domain.Assignment, error)
	AssignDogs(ctx context.Context, caller actor.Actor, dogIDs []int64, date time.Time, staffID int64) ([]*domain.Assignment, error)
	Reassign(ctx context.Context, caller actor.Actor, assignmentID, staffID int64) (*domain.Assignment, error)
	Unassign(ctx context.Context, caller actor.Actor, assignmentID int64) error
	UpdateStatus(ctx context.Context, caller actor.Actor, assignmentID int64, status string) (*domain.Assignment, error)
	ListAssignments(ctx context.Context, caller actor.Actor, date time.Time) ([]*domain.Assignment, error)
}
