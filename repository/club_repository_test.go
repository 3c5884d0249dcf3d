package repository

import (
	"context"
	"testing"

	"superfan/domain/entities"
	"superfan/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClubRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewClubRepositoryWithTx(testDB.DB.Pool)

	club := testutil.CreateTestClubWithPricing("Night Owls", 160, 100)
	err := repo.Create(ctx, club)
	require.NoError(t, err)
	assert.NotZero(t, club.ID)
	assert.Zero(t, club.ReserveCents)

	found, err := repo.GetByID(ctx, club.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Night Owls", found.Name)
	assert.Equal(t, int64(160), found.PointSellCents)
	assert.Equal(t, int64(100), found.PointSettleCents)
	assert.Equal(t, int64(500), found.GuardrailMaxSell)
}

func TestClubRepository_GetByID_Unknown(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewClubRepositoryWithTx(testDB.DB.Pool)

	club, err := repo.GetByID(context.Background(), 999999)
	require.NoError(t, err)
	assert.Nil(t, club)
}

func TestClubRepository_UpdatePricing(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewClubRepositoryWithTx(testDB.DB.Pool)
	club := createClub(t, testDB.DB.Pool, "Night Owls")

	t.Run("persists the new pair", func(t *testing.T) {
		err := repo.UpdatePricing(ctx, club.ID, 200, 120)
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(200), found.PointSellCents)
		assert.Equal(t, int64(120), found.PointSettleCents)
	})

	t.Run("unknown club", func(t *testing.T) {
		err := repo.UpdatePricing(ctx, 999999, 200, 120)
		assert.ErrorIs(t, err, entities.ErrClubNotFound)
	})
}

func TestClubRepository_AddToReserve(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewClubRepositoryWithTx(testDB.DB.Pool)
	club := createClub(t, testDB.DB.Pool, "Night Owls")

	t.Run("accumulates across purchases", func(t *testing.T) {
		require.NoError(t, repo.AddToReserve(ctx, club.ID, 950))
		require.NoError(t, repo.AddToReserve(ctx, club.ID, 475))

		found, err := repo.GetByID(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1425), found.ReserveCents)
	})

	t.Run("cannot draw the reserve negative", func(t *testing.T) {
		err := repo.AddToReserve(ctx, club.ID, -999999)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "clubs_reserve_non_negative")
	})

	t.Run("unknown club", func(t *testing.T) {
		err := repo.AddToReserve(ctx, 999999, 100)
		assert.ErrorIs(t, err, entities.ErrClubNotFound)
	})
}
