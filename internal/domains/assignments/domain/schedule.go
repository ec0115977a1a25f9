package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

// DefaultWindowDays is how far ahead of today the schedule can be viewed or planned.
const DefaultWindowDays = 7

var ErrInvalidDateRange = errors.New("date is outside the scheduling window")

// Window bounds the calendar days the scheduler works on: today through today plus Days.
type Window struct {
	Days int
}

// Check normalizes day and fails when it is before today or more than Days after it.
func (w Window) Check(today, day time.Time) (time.Time, error) {
	day, today = calendar.Day(day), calendar.Day(today)
	if day.Before(today) || day.After(today.AddDate(0, 0, w.Days)) {
		return time.Time{}, ErrInvalidDateRange
	}
	return day, nil
}

// ResolveExpected returns (scheduled ∪ boarding) − cancelled as a sorted set.
func ResolveExpected(scheduled, boarding, cancelled []int64) []int64 {
	out := make([]int64, 0, len(scheduled)+len(boarding))
	for _, group := range [][]int64{scheduled, boarding} {
		for _, id := range group {
			if !slices.Contains(cancelled, id) && !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Unassigned returns the expected dogs that no assignment covers yet.
func Unassigned(expected []int64, assignments []*Assignment) []int64 {
	taken := make(map[int64]struct{}, len(assignments))
	for _, a := range assignments {
		taken[a.DogID] = struct{}{}
	}
	out := make([]int64, 0, len(expected))
	for _, id := range expected {
		if _, ok := taken[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// PairCount is the number of historical assignments linking one dog to one staff member.
type PairCount struct {
	DogID   int64
	StaffID int64
	Count   int
}

// TopStaff picks, for every dog, the staff member with the most historical assignments.
// Equal counts go to the lowest staff id.
func TopStaff(counts []PairCount) map[int64]PairCount {
	best := make(map[int64]PairCount)
	for _, pc := range counts {
		if pc.Count <= 0 {
			continue
		}
		current, ok := best[pc.DogID]
		if !ok || pc.Count > current.Count || (pc.Count == current.Count && pc.StaffID < current.StaffID) {
			best[pc.DogID] = pc
		}
	}
	return best
}
