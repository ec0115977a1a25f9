package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowBounds(t *testing.T) {
	today := time.Date(2024, 6, 3, 18, 45, 0, 0, time.UTC)
	w := Window{Days: DefaultWindowDays}

	day, err := w.Check(today, today)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), day)

	_, err = w.Check(today, today.AddDate(0, 0, 7))
	require.NoError(t, err)

	_, err = w.Check(today, today.AddDate(0, 0, 8))
	require.ErrorIs(t, err, ErrInvalidDateRange)
	_, err = w.Check(today, today.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestResolveExpected(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, ResolveExpected([]int64{3, 1}, []int64{2, 3}, nil))
	// a cancellation wins over both the weekly schedule and boarding
	assert.Equal(t, []int64{1}, ResolveExpected([]int64{1, 2}, []int64{2}, []int64{2}))
	assert.Empty(t, ResolveExpected(nil, nil, []int64{4}))
}

func TestUnassignedExcludesAssignedDogs(t *testing.T) {
	assigned := []*Assignment{{DogID: 2}, {DogID: 9}}
	assert.Equal(t, []int64{1, 3}, Unassigned([]int64{1, 2, 3}, assigned))
	assert.Equal(t, []int64{1}, Unassigned([]int64{1}, nil))
}

func TestTopStaffBreaksTiesOnLowestStaffID(t *testing.T) {
	top := TopStaff([]PairCount{
		{DogID: 1, StaffID: 20, Count: 3},
		{DogID: 1, StaffID: 10, Count: 3},
		{DogID: 1, StaffID: 5, Count: 1},
		{DogID: 2, StaffID: 30, Count: 1},
		{DogID: 2, StaffID: 40, Count: 4},
		{DogID: 3, StaffID: 40, Count: 0},
	})
	require.Len(t, top, 2)
	assert.Equal(t, PairCount{DogID: 1, StaffID: 10, Count: 3}, top[1])
	assert.Equal(t, PairCount{DogID: 2, StaffID: 40, Count: 4}, top[2])
}

func TestAssignmentLifecycle(t *testing.T) {
	a, err := NewAssignment(1, 10, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, StatusAssigned, a.Status)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), a.Date)

	prev, changed := a.SetStatus(StatusPickedUp)
	assert.True(t, changed)
	assert.Equal(t, StatusAssigned, prev)
	_, changed = a.SetStatus(StatusPickedUp)
	assert.False(t, changed)
	// backward moves are allowed
	_, changed = a.SetStatus(StatusAssigned)
	assert.True(t, changed)

	moved, err := a.Reassign(11)
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = a.Reassign(11)
	require.NoError(t, err)
	assert.False(t, moved)
	_, err = a.Reassign(0)
	require.ErrorIs(t, err, ErrMissingStaff)

	_, err = NewAssignment(0, 10, time.Now())
	require.ErrorIs(t, err, ErrMissingDog)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" picked_up ")
	require.NoError(t, err)
	assert.Equal(t, StatusPickedUp, status)
	assert.Equal(t, "Fido has been picked up.", status.OwnerMessage("Fido"))

	_, err = ParseStatus("LOST")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
