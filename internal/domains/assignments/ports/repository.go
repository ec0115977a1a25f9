package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
)

var (
	ErrNotFound = errors.New("assignment not found")
	// ErrConflict is raised by storage when a second assignment targets the same dog and date.
	ErrConflict     = errors.New("dog already assigned for this date")
	ErrUnknownDog   = errors.New("dog not found")
	ErrUnknownStaff = errors.New("staff member not found")
)

// Repository persists assignments. At most one row exists per dog and date.
type Repository interface {
	// GetOrCreate inserts a unless its dog already has an assignment that day, in which case
	// the stored row is returned. created reports which happened.
	GetOrCreate(ctx context.Context, a *domain.Assignment) (stored *domain.Assignment, created bool, err error)
	GetByID(ctx context.Context, id int64) (*domain.Assignment, error)
	// Save updates an existing assignment.
	Save(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	Delete(ctx context.Context, id int64) error
	ListByDate(ctx context.Context, day time.Time) ([]*domain.Assignment, error)
	// PairCounts counts every historical assignment per dog and staff member for the given dogs.
	PairCounts(ctx context.Context, dogIDs []int64) ([]domain.PairCount, error)
}

// DogRef is the slice of a dog the scheduler needs.
type DogRef struct {
	ID       int64
	Name     string
	OwnerIDs []int64
}

// DogDirectory resolves dogs for the scheduler.
type DogDirectory interface {
	// Dogs returns the known dogs among ids. Unknown ids are omitted.
	Dogs(ctx context.Context, ids []int64) ([]DogRef, error)
	// ScheduledOn lists dogs whose weekly days include the ISO weekday.
	ScheduledOn(ctx context.Context, weekday int) ([]DogRef, error)
	OwnedDogIDs(ctx context.Context, userID int64) ([]int64, error)
}

// RequestDirectory exposes approved requests that shape the expected set.
type RequestDirectory interface {
	ApprovedCancellations(ctx context.Context, day time.Time) ([]int64, error)
	ApprovedBoardingDogs(ctx context.Context, day time.Time) ([]int64, error)
}

// StaffMember is a user allowed to take assignments.
type StaffMember struct {
	ID       int64
	Username string
	Name     string
}

// DisplayName prefers the full name and falls back to the username.
func (m StaffMember) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Username
}

// StaffDirectory resolves staff members.
type StaffDirectory interface {
	// Staff returns ErrUnknownStaff when the user does not exist or is not staff.
	Staff(ctx context.Context, id int64) (StaffMember, error)
	ListStaff(ctx context.Context) ([]StaffMember, error)
}

// Notifier pushes a message to one user. Delivery failures never affect the caller.
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, body string, data map[string]string) error
}
