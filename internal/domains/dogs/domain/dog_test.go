package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDaycareDaysNormalizes(t *testing.T) {
	dog, err := NewDog(1, "Fido", nil)
	require.NoError(t, err)

	require.NoError(t, dog.SetDaycareDays([]int{5, 1, 5, 3}))
	assert.Equal(t, []int{1, 3, 5}, dog.DaycareDays)

	err = dog.SetDaycareDays([]int{0})
	require.ErrorIs(t, err, ErrInvalidWeekday)
	err = dog.SetDaycareDays([]int{8})
	require.ErrorIs(t, err, ErrInvalidWeekday)
	assert.Equal(t, []int{1, 3, 5}, dog.DaycareDays)
}

func TestAttendsOnUsesISOWeekdays(t *testing.T) {
	dog, err := NewDog(1, "Fido", nil)
	require.NoError(t, err)
	require.NoError(t, dog.SetDaycareDays([]int{1, 7}))

	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	assert.True(t, dog.AttendsOn(monday))
	assert.False(t, dog.AttendsOn(monday.AddDate(0, 0, 1)))
	assert.True(t, dog.AttendsOn(monday.AddDate(0, 0, 6)))
}

func TestOwnership(t *testing.T) {
	owner := int64(10)
	dog, err := NewDog(1, " Rex ", &owner)
	require.NoError(t, err)
	assert.Equal(t, "Rex", dog.Name)

	require.ErrorIs(t, dog.AddCoOwner(10), ErrInvalidCoOwner)
	require.NoError(t, dog.AddCoOwner(30))
	require.NoError(t, dog.AddCoOwner(20))
	require.NoError(t, dog.AddCoOwner(20))

	assert.Equal(t, []int64{10, 20, 30}, dog.Owners())
	assert.True(t, dog.IsOwnedBy(20))
	assert.False(t, dog.IsOwnedBy(99))

	orphan, err := NewDog(2, "Stray", nil)
	require.NoError(t, err)
	assert.Empty(t, orphan.Owners())
}

func TestNewDogRequiresName(t *testing.T) {
	_, err := NewDog(1, "  ", nil)
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestCloneIsDeep(t *testing.T) {
	owner := int64(1)
	dog, err := NewDog(1, "Fido", &owner)
	require.NoError(t, err)
	require.NoError(t, dog.SetDaycareDays([]int{1}))

	clone := dog.Clone()
	*clone.OwnerID = 2
	clone.DaycareDays[0] = 3

	assert.Equal(t, int64(1), *dog.OwnerID)
	assert.Equal(t, []int{1}, dog.DaycareDays)
}
