package repository

import (
	"context"
	"testing"

	"superfan/domain/entities"
	"superfan/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointTransactionRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	walletRepo := NewPointWalletRepositoryScoped(testDB.DB.Pool, club.ID)
	repo := NewPointTransactionRepositoryScoped(testDB.DB.Pool, club.ID)

	wallet, _, err := walletRepo.GetOrCreate(ctx, 100)
	require.NoError(t, err)

	t.Run("assigns id and timestamp", func(t *testing.T) {
		ref := "scan-1"
		transaction := testutil.CreateTestTransaction(wallet.ID, entities.TransactionTypeBonus, 20, 0)
		transaction.Ref = &ref

		err := repo.Record(ctx, transaction)
		require.NoError(t, err)
		assert.NotZero(t, transaction.ID)
		assert.False(t, transaction.CreatedAt.IsZero())
		assert.Equal(t, club.ID, transaction.ClubID)
	})

	t.Run("rejects a duplicate ref", func(t *testing.T) {
		ref := "scan-1"
		duplicate := testutil.CreateTestTransaction(wallet.ID, entities.TransactionTypeBonus, 20, 20)
		duplicate.Ref = &ref

		err := repo.Record(ctx, duplicate)
		assert.ErrorIs(t, err, entities.ErrDuplicateRef)
	})

	t.Run("nil refs never collide", func(t *testing.T) {
		first := testutil.CreateTestTransaction(wallet.ID, entities.TransactionTypeBonus, 10, 20)
		second := testutil.CreateTestTransaction(wallet.ID, entities.TransactionTypeBonus, 10, 30)

		require.NoError(t, repo.Record(ctx, first))
		require.NoError(t, repo.Record(ctx, second))
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("duplicate ref leaves the transaction usable", func(t *testing.T) {
		tx, err := testDB.DB.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		txRepo := NewPointTransactionRepositoryScoped(tx, club.ID)

		ref := "scan-1"
		duplicate := testutil.CreateTestTransaction(wallet.ID, entities.TransactionTypeBonus, 20, 20)
		duplicate.Ref = &ref
		require.ErrorIs(t, txRepo.Record(ctx, duplicate), entities.ErrDuplicateRef)

		// The conflict must not abort the surrounding transaction
		fresh := testutil.CreateTestTransaction(wallet.ID, entities.TransactionTypeBonus, 5, 40)
		require.NoError(t, txRepo.Record(ctx, fresh))
		require.NoError(t, tx.Commit(ctx))
	})
}

func TestPointTransactionRepository_GetByWallet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	walletRepo := NewPointWalletRepositoryScoped(testDB.DB.Pool, club.ID)
	repo := NewPointTransactionRepositoryScoped(testDB.DB.Pool, club.ID)

	wallet, _, err := walletRepo.GetOrCreate(ctx, 100)
	require.NoError(t, err)

	balance := int64(0)
	for i := 0; i < 5; i++ {
		transaction := testutil.CreateTestTransaction(wallet.ID, entities.TransactionTypeBonus, 10, balance)
		require.NoError(t, repo.Record(ctx, transaction))
		balance += 10
	}

	t.Run("newest first with limit", func(t *testing.T) {
		transactions, err := repo.GetByWallet(ctx, wallet.ID, 3)
		require.NoError(t, err)
		require.Len(t, transactions, 3)
		assert.Equal(t, int64(40), transactions[0].BalanceBefore)
		assert.Equal(t, int64(30), transactions[1].BalanceBefore)
		assert.Equal(t, int64(20), transactions[2].BalanceBefore)
	})

	t.Run("empty wallet history", func(t *testing.T) {
		other, _, err := walletRepo.GetOrCreate(ctx, 200)
		require.NoError(t, err)

		transactions, err := repo.GetByWallet(ctx, other.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, transactions)
	})
}

func TestPointTransactionRepository_GetByRef(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	club := createClub(t, testDB.DB.Pool, "Night Owls")
	walletRepo := NewPointWalletRepositoryScoped(testDB.DB.Pool, club.ID)
	repo := NewPointTransactionRepositoryScoped(testDB.DB.Pool, club.ID)

	wallet, _, err := walletRepo.GetOrCreate(ctx, 100)
	require.NoError(t, err)

	ref := "purchase-session-1"
	transaction := testutil.CreateTestTransaction(wallet.ID, entities.TransactionTypePurchase, 1000, 0)
	transaction.Ref = &ref
	require.NoError(t, repo.Record(ctx, transaction))

	t.Run("found", func(t *testing.T) {
		found, err := repo.GetByRef(ctx, "purchase-session-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, transaction.ID, found.ID)
		assert.Equal(t, entities.TransactionTypePurchase, found.Type)
		assert.Equal(t, true, found.Metadata["test"])
	})

	t.Run("unknown ref", func(t *testing.T) {
		found, err := repo.GetByRef(ctx, "no-such-ref")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
