package repository

import (
	"context"
	"testing"
	"time"

	"superfan/domain/entities"
	"superfan/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	repo := NewRewardRepositoryScoped(testDB.DB.Pool, club.ID)

	t.Run("unlimited access reward", func(t *testing.T) {
		reward := testutil.CreateTestReward(club.ID, entities.RewardKindAccess, 200)
		err := repo.Create(ctx, reward)
		require.NoError(t, err)
		assert.NotZero(t, reward.ID)

		found, err := repo.GetByID(ctx, reward.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entities.RewardKindAccess, found.Kind)
		assert.Nil(t, found.Inventory)
		assert.Equal(t, "test-content", found.FulfillmentRef)
	})

	t.Run("windowed variant with inventory", func(t *testing.T) {
		start := time.Now().UTC().Truncate(time.Second)
		end := start.Add(48 * time.Hour)
		reward := testutil.CreateTestRewardWithWindow(club.ID, entities.RewardKindVariant, 1050, start, end)
		inventory := int64(3)
		reward.Inventory = &inventory

		require.NoError(t, repo.Create(ctx, reward))

		found, err := repo.GetByID(ctx, reward.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Inventory)
		assert.Equal(t, int64(3), *found.Inventory)
		require.NotNil(t, found.WindowStart)
		assert.WithinDuration(t, start, *found.WindowStart, time.Second)
	})

	t.Run("rewards are scoped per club", func(t *testing.T) {
		otherClub := createClub(t, testDB.DB.Pool, "Day Owls")
		otherRepo := NewRewardRepositoryScoped(testDB.DB.Pool, otherClub.ID)

		reward := testutil.CreateTestReward(club.ID, entities.RewardKindAccess, 100)
		require.NoError(t, repo.Create(ctx, reward))

		found, err := otherRepo.GetByID(ctx, reward.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRewardRepository_ListActiveByClub(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	repo := NewRewardRepositoryScoped(testDB.DB.Pool, club.ID)

	active := testutil.CreateTestReward(club.ID, entities.RewardKindAccess, 200)
	require.NoError(t, repo.Create(ctx, active))

	inactive := testutil.CreateTestReward(club.ID, entities.RewardKindVariant, 500)
	inactive.Status = entities.RewardStatusInactive
	require.NoError(t, repo.Create(ctx, inactive))

	rewards, err := repo.ListActiveByClub(ctx)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, active.ID, rewards[0].ID)
}

func TestRewardRepository_DecrementInventory(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	repo := NewRewardRepositoryScoped(testDB.DB.Pool, club.ID)

	t.Run("counts down to zero then refuses", func(t *testing.T) {
		reward := testutil.CreateTestRewardWithInventory(club.ID, entities.RewardKindVariant, 100, 2)
		require.NoError(t, repo.Create(ctx, reward))

		debited, err := repo.DecrementInventory(ctx, reward.ID)
		require.NoError(t, err)
		assert.True(t, debited)

		debited, err = repo.DecrementInventory(ctx, reward.ID)
		require.NoError(t, err)
		assert.True(t, debited)

		debited, err = repo.DecrementInventory(ctx, reward.ID)
		require.NoError(t, err)
		assert.False(t, debited)

		found, err := repo.GetByID(ctx, reward.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Inventory)
		assert.Zero(t, *found.Inventory)
	})

	t.Run("unlimited inventory always succeeds", func(t *testing.T) {
		reward := testutil.CreateTestReward(club.ID, entities.RewardKindAccess, 100)
		require.NoError(t, repo.Create(ctx, reward))

		debited, err := repo.DecrementInventory(ctx, reward.ID)
		require.NoError(t, err)
		assert.True(t, debited)

		found, err := repo.GetByID(ctx, reward.ID)
		require.NoError(t, err)
		assert.Nil(t, found.Inventory)
	})
}

func TestRewardRepository_RestoreInventory(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	repo := NewRewardRepositoryScoped(testDB.DB.Pool, club.ID)

	reward := testutil.CreateTestRewardWithInventory(club.ID, entities.RewardKindVariant, 100, 1)
	require.NoError(t, repo.Create(ctx, reward))

	debited, err := repo.DecrementInventory(ctx, reward.ID)
	require.NoError(t, err)
	require.True(t, debited)

	require.NoError(t, repo.RestoreInventory(ctx, reward.ID))

	found, err := repo.GetByID(ctx, reward.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Inventory)
	assert.Equal(t, int64(1), *found.Inventory)
}
