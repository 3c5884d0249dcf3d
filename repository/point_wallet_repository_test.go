package repository

import (
	"context"
	"testing"

	"superfan/domain/entities"
	"superfan/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createClub(t *testing.T, q Queryable, name string) *entities.Club {
	t.Helper()
	club := testutil.CreateTestClub(name)
	require.NoError(t, NewClubRepositoryWithTx(q).Create(context.Background(), club))
	return club
}

func TestPointWalletRepository_GetOrCreate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	repo := NewPointWalletRepositoryScoped(testDB.DB.Pool, club.ID)

	t.Run("creates an empty wallet on first contact", func(t *testing.T) {
		wallet, created, err := repo.GetOrCreate(ctx, 100)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, wallet.ID)
		assert.Equal(t, int64(100), wallet.UserID)
		assert.Equal(t, club.ID, wallet.ClubID)
		assert.Zero(t, wallet.BalancePts)
		assert.Zero(t, wallet.EarnedPts)
		assert.Zero(t, wallet.PurchasedPts)
	})

	t.Run("returns the existing wallet afterwards", func(t *testing.T) {
		first, created, err := repo.GetOrCreate(ctx, 200)
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := repo.GetOrCreate(ctx, 200)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("wallets are scoped per club", func(t *testing.T) {
		otherClub := createClub(t, testDB.DB.Pool, "Day Owls")
		otherRepo := NewPointWalletRepositoryScoped(testDB.DB.Pool, otherClub.ID)

		_, created, err := repo.GetOrCreate(ctx, 300)
		require.NoError(t, err)
		require.True(t, created)

		wallet, err := otherRepo.GetByUser(ctx, 300)
		require.NoError(t, err)
		assert.Nil(t, wallet)

		otherWallet, created, err := otherRepo.GetOrCreate(ctx, 300)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, otherClub.ID, otherWallet.ClubID)
	})
}

func TestPointWalletRepository_ApplyDelta(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	repo := NewPointWalletRepositoryScoped(testDB.DB.Pool, club.ID)

	wallet, _, err := repo.GetOrCreate(ctx, 100)
	require.NoError(t, err)

	t.Run("credit moves balance and sub-ledger together", func(t *testing.T) {
		updated, err := repo.ApplyDelta(ctx, wallet.ID, 500, 500, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(500), updated.BalancePts)
		assert.Equal(t, int64(500), updated.EarnedPts)
		assert.Zero(t, updated.PurchasedPts)
	})

	t.Run("spend only reduces the balance", func(t *testing.T) {
		updated, err := repo.ApplyDelta(ctx, wallet.ID, -200, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(300), updated.BalancePts)
		assert.Equal(t, int64(500), updated.EarnedPts)
	})

	t.Run("overdraft is refused by the database", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, wallet.ID, -10000, 0, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "point_wallets_balance_non_negative")
	})

	t.Run("unknown wallet", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, 999999, 10, 10, 0)
		assert.ErrorIs(t, err, entities.ErrWalletNotFound)
	})
}

func TestPointWalletRepository_ListByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	clubA := createClub(t, testDB.DB.Pool, "Club A")
	clubB := createClub(t, testDB.DB.Pool, "Club B")
	repoA := NewPointWalletRepositoryScoped(testDB.DB.Pool, clubA.ID)
	repoB := NewPointWalletRepositoryScoped(testDB.DB.Pool, clubB.ID)

	walletA, _, err := repoA.GetOrCreate(ctx, 100)
	require.NoError(t, err)
	_, err = repoA.ApplyDelta(ctx, walletA.ID, 120, 100, 20)
	require.NoError(t, err)

	_, _, err = repoB.GetOrCreate(ctx, 100)
	require.NoError(t, err)

	// A different user's wallet must not leak in
	_, _, err = repoA.GetOrCreate(ctx, 200)
	require.NoError(t, err)

	wallets, err := repoA.ListByUser(ctx, 100)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, clubA.ID, wallets[0].ClubID)
	assert.Equal(t, int64(120), wallets[0].BalancePts)
	assert.Equal(t, clubB.ID, wallets[1].ClubID)
	assert.Zero(t, wallets[1].BalancePts)
}

func TestPointWalletRepository_TotalOutstandingByClub(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	otherClub := createClub(t, testDB.DB.Pool, "Day Owls")
	repo := NewPointWalletRepositoryScoped(testDB.DB.Pool, club.ID)
	otherRepo := NewPointWalletRepositoryScoped(testDB.DB.Pool, otherClub.ID)

	t.Run("empty club owes nothing", func(t *testing.T) {
		total, err := repo.TotalOutstandingByClub(ctx)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("sums balances within the club only", func(t *testing.T) {
		walletOne, _, err := repo.GetOrCreate(ctx, 100)
		require.NoError(t, err)
		_, err = repo.ApplyDelta(ctx, walletOne.ID, 700, 700, 0)
		require.NoError(t, err)

		walletTwo, _, err := repo.GetOrCreate(ctx, 200)
		require.NoError(t, err)
		_, err = repo.ApplyDelta(ctx, walletTwo.ID, 300, 0, 300)
		require.NoError(t, err)

		otherWallet, _, err := otherRepo.GetOrCreate(ctx, 100)
		require.NoError(t, err)
		_, err = otherRepo.ApplyDelta(ctx, otherWallet.ID, 5000, 5000, 0)
		require.NoError(t, err)

		total, err := repo.TotalOutstandingByClub(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), total)
	})
}
