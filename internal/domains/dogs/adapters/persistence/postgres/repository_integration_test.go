//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/daycare-api/internal/domains/dogs/domain"
	"github.com/Apurer/daycare-api/internal/domains/dogs/ports"
	"github.com/Apurer/daycare-api/internal/platform/postgres/pgtest"
)

func TestRepository_SaveAndQueryBySchedule(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	owner := int64(1)
	fido, err := domain.NewDog(0, "Fido", &owner)
	require.NoError(t, err)
	require.NoError(t, fido.SetDaycareDays([]int{3, 1, 1}))
	require.NoError(t, fido.AddCoOwner(2))

	saved, err := repo.Save(ctx, fido)
	require.NoError(t, err)
	require.NotZero(t, saved.Entity.ID)
	assert.Equal(t, []int{1, 3}, saved.Entity.DaycareDays)
	assert.False(t, saved.Metadata.CreatedAt.IsZero())

	rex, err := domain.NewDog(0, "Rex", nil)
	require.NoError(t, err)
	require.NoError(t, rex.SetDaycareDays([]int{2}))
	_, err = repo.Save(ctx, rex)
	require.NoError(t, err)

	monday, err := repo.ListByDaycareDay(ctx, 1)
	require.NoError(t, err)
	require.Len(t, monday, 1)
	assert.Equal(t, "Fido", monday[0].Entity.Name)

	coOwned, err := repo.ListByOwner(ctx, 2)
	require.NoError(t, err)
	require.Len(t, coOwned, 1)
	assert.Equal(t, saved.Entity.ID, coOwned[0].Entity.ID)
}

func TestRepository_UpdateKeepsIdentity(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	dog, err := domain.NewDog(0, "Bella", nil)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, dog)
	require.NoError(t, err)

	updated := saved.Entity.Clone()
	require.NoError(t, updated.Rename("Bella II"))
	updated.UpdateCare("two cups", "none")
	again, err := repo.Save(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, saved.Entity.ID, again.Entity.ID)
	assert.Equal(t, "Bella II", again.Entity.Name)
	assert.Equal(t, "two cups", again.Entity.FoodInstructions)

	_, err = repo.GetByID(ctx, saved.Entity.ID+100)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
