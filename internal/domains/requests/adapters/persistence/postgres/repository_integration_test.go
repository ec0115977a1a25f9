//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/daycare-api/internal/domains/requests/domain"
	"github.com/Apurer/daycare-api/internal/domains/requests/ports"
	"github.com/Apurer/daycare-api/internal/platform/postgres/pgtest"
)

var (
	monday  = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
)

func TestRepository_ApprovedCancellationsOnlyCountApprovedRequests(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	approved, err := domain.NewDateChangeRequest(7, 1, domain.ChangeCancel, monday, nil, "vet")
	require.NoError(t, err)
	approved, err = repo.SaveDateChange(ctx, approved)
	require.NoError(t, err)
	require.True(t, approved.Transition(domain.StatusApproved, 10, monday))
	approved, err = repo.SaveDateChange(ctx, approved)
	require.NoError(t, err)

	pending, err := domain.NewDateChangeRequest(8, 1, domain.ChangeCancel, monday, nil, "")
	require.NoError(t, err)
	_, err = repo.SaveDateChange(ctx, pending)
	require.NoError(t, err)

	ids, err := repo.ApprovedCancellations(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)

	stored, err := repo.GetDateChange(ctx, approved.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, int64(10), *stored.ApprovedBy)
	require.Len(t, stored.History, 1)
	assert.Equal(t, domain.StatusPending, stored.History[0].From)
	assert.Equal(t, domain.StatusApproved, stored.History[0].To)
}

func TestRepository_ApprovedBoardingDogsCoverInclusiveRange(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	req, err := domain.NewBoardingRequest(1, []int64{5, 6}, monday, tuesday, "")
	require.NoError(t, err)
	req, err = repo.SaveBoarding(ctx, req)
	require.NoError(t, err)

	ids, err := repo.ApprovedBoardingDogs(ctx, tuesday)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.True(t, req.Transition(domain.StatusApproved, 10, monday))
	_, err = repo.SaveBoarding(ctx, req)
	require.NoError(t, err)

	for _, day := range []time.Time{monday, tuesday} {
		ids, err = repo.ApprovedBoardingDogs(ctx, day)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{5, 6}, ids)
	}
	ids, err = repo.ApprovedBoardingDogs(ctx, tuesday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = repo.GetBoarding(ctx, req.ID+100)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
