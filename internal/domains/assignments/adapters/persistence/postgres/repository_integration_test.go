//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/daycare-api/internal/domains/assignments/domain"
	"github.com/Apurer/daycare-api/internal/domains/assignments/ports"
	"github.com/Apurer/daycare-api/internal/platform/postgres/pgtest"
)

func TestRepository_ConcurrentGetOrCreateKeepsOneRow(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[int64]struct{}{}
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := domain.NewAssignment(7, 10, monday)
			require.NoError(t, err)
			stored, isNew, err := repo.GetOrCreate(ctx, a)
			require.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			if isNew {
				created++
			}
			ids[stored.ID] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
	list, err := repo.ListByDate(ctx, monday)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepository_SaveAndDelete(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	a, err := domain.NewAssignment(7, 10, monday)
	require.NoError(t, err)
	stored, created, err := repo.GetOrCreate(ctx, a)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, monday, stored.Date)

	stored.SetStatus(domain.StatusAtDaycare)
	_, err = stored.Reassign(11)
	require.NoError(t, err)
	updated, err := repo.Save(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAtDaycare, updated.Status)
	assert.Equal(t, int64(11), updated.StaffID)

	other, err := domain.NewAssignment(8, 10, monday)
	require.NoError(t, err)
	other, _, err = repo.GetOrCreate(ctx, other)
	require.NoError(t, err)
	other.DogID = 7
	_, err = repo.Save(ctx, other)
	require.ErrorIs(t, err, ports.ErrConflict)

	require.NoError(t, repo.Delete(ctx, stored.ID))
	_, err = repo.GetByID(ctx, stored.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, stored.ID), ports.ErrNotFound)
}

func TestRepository_PairCountsSpansHistory(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	for i, staff := range []int64{10, 10, 11} {
		a, err := domain.NewAssignment(7, staff, monday.AddDate(0, 0, -7*(i+1)))
		require.NoError(t, err)
		_, _, err = repo.GetOrCreate(ctx, a)
		require.NoError(t, err)
	}

	counts, err := repo.PairCounts(ctx, []int64{7, 8})
	require.NoError(t, err)
	assert.Equal(t, []domain.PairCount{
		{DogID: 7, StaffID: 10, Count: 2},
		{DogID: 7, StaffID: 11, Count: 1},
	}, counts)
}
