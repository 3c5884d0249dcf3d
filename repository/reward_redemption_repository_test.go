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

type redemptionFixture struct {
	club   *entities.Club
	wallet *entities.PointWallet
	reward *entities.Reward
	repo   *RewardRedemptionRepository
}

func setupRedemptionFixture(t *testing.T, testDB *testutil.TestDatabase, clubName string) *redemptionFixture {
	t.Helper()
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, clubName)
	wallet, _, err := NewPointWalletRepositoryScoped(testDB.DB.Pool, club.ID).GetOrCreate(ctx, 100)
	require.NoError(t, err)

	reward := testutil.CreateTestReward(club.ID, entities.RewardKindPresaleLock, 100)
	require.NoError(t, NewRewardRepositoryScoped(testDB.DB.Pool, club.ID).Create(ctx, reward))

	return &redemptionFixture{
		club:   club,
		wallet: wallet,
		reward: reward,
		repo:   NewRewardRedemptionRepositoryScoped(testDB.DB.Pool, club.ID),
	}
}

func TestRewardRedemptionRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	f := setupRedemptionFixture(t, testDB, "Night Owls")

	t.Run("held redemption round-trips", func(t *testing.T) {
		expiresAt := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second)
		redemption := testutil.CreateTestHeldRedemption(f.reward.ID, f.wallet.ID, 100, expiresAt)
		redemption.SpendEarned = 40
		redemption.SpendPurchased = 60

		err := f.repo.Create(ctx, redemption)
		require.NoError(t, err)
		assert.NotZero(t, redemption.ID)

		found, err := f.repo.GetByID(ctx, redemption.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entities.RedemptionStateHeld, found.State)
		assert.Equal(t, int64(60), found.SpendPurchased)
		assert.Equal(t, int64(40), found.SpendEarned)
		require.NotNil(t, found.HoldExpiresAt)
		assert.WithinDuration(t, expiresAt, *found.HoldExpiresAt, time.Second)
		assert.Equal(t, entities.RewardKindPresaleLock, found.Details.Kind)
		require.NotNil(t, found.Details.PresaleLock)
		assert.Equal(t, "test-presale-slot", found.Details.PresaleLock.SlotRef)
	})

	t.Run("split must reconcile with the spend", func(t *testing.T) {
		redemption := testutil.CreateTestRedemption(f.reward.ID, f.wallet.ID, 100)
		redemption.SpendEarned = 10 // 10 != 100

		err := f.repo.Create(ctx, redemption)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reward_redemptions_spend_split")
	})
}

func TestRewardRedemptionRepository_UpdateState(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	f := setupRedemptionFixture(t, testDB, "Night Owls")

	redemption := testutil.CreateTestHeldRedemption(f.reward.ID, f.wallet.ID, 100, time.Now().UTC().Add(time.Hour))
	require.NoError(t, f.repo.Create(ctx, redemption))

	t.Run("moves the state", func(t *testing.T) {
		err := f.repo.UpdateState(ctx, redemption.ID, entities.RedemptionStateHeld, entities.RedemptionStateConfirmed)
		require.NoError(t, err)

		found, err := f.repo.GetByID(ctx, redemption.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.RedemptionStateConfirmed, found.State)
	})

	t.Run("stale expected state is rejected", func(t *testing.T) {
		// The row is CONFIRMED now; a caller still holding the HELD snapshot
		// lost the race and must not overwrite.
		err := f.repo.UpdateState(ctx, redemption.ID, entities.RedemptionStateHeld, entities.RedemptionStateRefunded)
		assert.ErrorIs(t, err, entities.ErrInvalidStateTransition)

		found, err := f.repo.GetByID(ctx, redemption.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.RedemptionStateConfirmed, found.State)
	})

	t.Run("unknown redemption", func(t *testing.T) {
		err := f.repo.UpdateState(ctx, 999999, entities.RedemptionStateHeld, entities.RedemptionStateConfirmed)
		assert.ErrorIs(t, err, entities.ErrRedemptionNotFound)
	})
}

func TestRewardRedemptionRepository_ListByWallet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	f := setupRedemptionFixture(t, testDB, "Night Owls")

	for i := 0; i < 4; i++ {
		redemption := testutil.CreateTestRedemption(f.reward.ID, f.wallet.ID, int64(10*(i+1)))
		require.NoError(t, f.repo.Create(ctx, redemption))
	}

	redemptions, err := f.repo.ListByWallet(ctx, f.wallet.ID, 3)
	require.NoError(t, err)
	require.Len(t, redemptions, 3)
	assert.Equal(t, int64(40), redemptions[0].PointsSpent)
	assert.Equal(t, int64(30), redemptions[1].PointsSpent)
	assert.Equal(t, int64(20), redemptions[2].PointsSpent)
}

func TestRewardRedemptionRepository_ListExpiredHolds(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	clubA := setupRedemptionFixture(t, testDB, "Club A")
	clubB := setupRedemptionFixture(t, testDB, "Club B")

	now := time.Now().UTC()

	older := testutil.CreateTestHeldRedemption(clubA.reward.ID, clubA.wallet.ID, 100, now.Add(-2*time.Hour))
	require.NoError(t, clubA.repo.Create(ctx, older))

	newer := testutil.CreateTestHeldRedemption(clubB.reward.ID, clubB.wallet.ID, 100, now.Add(-time.Hour))
	require.NoError(t, clubB.repo.Create(ctx, newer))

	live := testutil.CreateTestHeldRedemption(clubA.reward.ID, clubA.wallet.ID, 100, now.Add(time.Hour))
	require.NoError(t, clubA.repo.Create(ctx, live))

	confirmed := testutil.CreateTestRedemption(clubA.reward.ID, clubA.wallet.ID, 100)
	require.NoError(t, clubA.repo.Create(ctx, confirmed))

	t.Run("sees lapsed holds across clubs, oldest first", func(t *testing.T) {
		expired, err := clubA.repo.ListExpiredHolds(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, expired, 2)
		assert.Equal(t, older.ID, expired[0].ID)
		assert.Equal(t, clubA.club.ID, expired[0].ClubID)
		assert.Equal(t, newer.ID, expired[1].ID)
		assert.Equal(t, clubB.club.ID, expired[1].ClubID)
	})

	t.Run("respects the limit", func(t *testing.T) {
		expired, err := clubA.repo.ListExpiredHolds(ctx, now, 1)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, older.ID, expired[0].ID)
	})
}
