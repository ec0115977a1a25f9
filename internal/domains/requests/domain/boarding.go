package domain

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

var (
	ErrNoDogs       = errors.New("a boarding request needs at least one dog")
	ErrInvertedDate = errors.New("start date must not be after end date")
)

// BoardingRequest asks for one or more dogs to stay over an inclusive date range.
type BoardingRequest struct {
	ID        int64
	OwnerID   int64
	DogIDs    []int64
	StartDate time.Time
	EndDate   time.Time
	Notes     string
	Approval
	CreatedAt time.Time
}

// NewBoardingRequest builds a pending request with deduplicated, sorted dog ids.
func NewBoardingRequest(ownerID int64, dogIDs []int64, start, end time.Time, notes string) (*BoardingRequest, error) {
	dogs := make([]int64, 0, len(dogIDs))
	for _, id := range dogIDs {
		if id > 0 && !slices.Contains(dogs, id) {
			dogs = append(dogs, id)
		}
	}
	if len(dogs) == 0 {
		return nil, ErrNoDogs
	}
	slices.Sort(dogs)
	start, end = calendar.Day(start), calendar.Day(end)
	if start.After(end) {
		return nil, ErrInvertedDate
	}
	return &BoardingRequest{
		OwnerID:   ownerID,
		DogIDs:    dogs,
		StartDate: start,
		EndDate:   end,
		Notes:     strings.TrimSpace(notes),
		Approval:  newApproval(),
	}, nil
}

// Covers reports whether day falls within the inclusive range.
func (r *BoardingRequest) Covers(day time.Time) bool {
	return calendar.Between(day, r.StartDate, r.EndDate)
}

// Clone returns a deep copy.
func (r *BoardingRequest) Clone() *BoardingRequest {
	if r == nil {
		return nil
	}
	out := *r
	out.DogIDs = slices.Clone(r.DogIDs)
	out.Approval = r.Approval.clone()
	return &out
}
