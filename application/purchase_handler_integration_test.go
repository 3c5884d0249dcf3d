package application_test

import (
	"context"
	"testing"
	"time"

	"superfan/application"
	"superfan/application/dto"
	"superfan/config"
	"superfan/domain/entities"
	"superfan/infrastructure"
	"superfan/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseHandler_EndToEndFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Set up test config
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	// Setup test database
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	// Create no-op event publisher for integration tests
	noopPublisher := infrastructure.NewNoopEventPublisher()

	// Create UoW factory
	uowFactory := infrastructure.NewUnitOfWorkFactory(testDB.DB, noopPublisher)

	// Setup test data
	ctx := context.Background()
	club := setupTestClub(t, ctx, uowFactory, "Neon Circuit")
	userID := int64(55001)

	// Create purchase handler
	handler := application.NewPurchaseHandler(uowFactory)

	t.Run("Verified Purchase Credits Points And Tops Up Reserve", func(t *testing.T) {
		purchase := dto.PurchaseVerifiedDTO{
			UserID:          userID,
			ClubID:          club.ID,
			Points:          1000,
			BonusPoints:     100,
			USDGrossCents:   100000,
			UnitSellCents:   100,
			UnitSettleCents: 50,
			Ref:             "pi_superfan_001",
			VerifiedAt:      time.Now().UTC(),
		}

		err := handler.HandlePurchaseVerified(ctx, purchase)
		require.NoError(t, err)

		wallet := getWallet(t, ctx, uowFactory, club.ID, userID)
		require.NotNil(t, wallet)
		assert.Equal(t, int64(1100), wallet.BalancePts)
		assert.Equal(t, int64(1000), wallet.PurchasedPts)
		assert.Equal(t, int64(100), wallet.EarnedPts)

		// 1000 pts * 50 settle cents * 0.95 reserve factor
		persistedClub := getClub(t, ctx, uowFactory, club.ID)
		assert.Equal(t, int64(47500), persistedClub.ReserveCents)
	})

	t.Run("Duplicate Ref Credits Only Once", func(t *testing.T) {
		purchase := dto.PurchaseVerifiedDTO{
			UserID:          userID,
			ClubID:          club.ID,
			Points:          1000,
			BonusPoints:     100,
			USDGrossCents:   100000,
			UnitSellCents:   100,
			UnitSettleCents: 50,
			Ref:             "pi_superfan_001",
			VerifiedAt:      time.Now().UTC(),
		}

		err := handler.HandlePurchaseVerified(ctx, purchase)
		require.NoError(t, err)

		wallet := getWallet(t, ctx, uowFactory, club.ID, userID)
		assert.Equal(t, int64(1100), wallet.BalancePts)

		// The duplicate rolled back, so the reserve did not double
		persistedClub := getClub(t, ctx, uowFactory, club.ID)
		assert.Equal(t, int64(47500), persistedClub.ReserveCents)
	})

	t.Run("Purchase Without Bonus Credits Only Purchased Points", func(t *testing.T) {
		purchase := dto.PurchaseVerifiedDTO{
			UserID:          userID,
			ClubID:          club.ID,
			Points:          200,
			USDGrossCents:   20000,
			UnitSellCents:   100,
			UnitSettleCents: 50,
			Ref:             "pi_superfan_002",
			VerifiedAt:      time.Now().UTC(),
		}

		err := handler.HandlePurchaseVerified(ctx, purchase)
		require.NoError(t, err)

		wallet := getWallet(t, ctx, uowFactory, club.ID, userID)
		assert.Equal(t, int64(1300), wallet.BalancePts)
		assert.Equal(t, int64(1200), wallet.PurchasedPts)
		assert.Equal(t, int64(100), wallet.EarnedPts)
	})
}

func TestPurchaseHandler_MalformedPurchasesAreDropped(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Set up test config
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	// Setup test database
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	// Create no-op event publisher for integration tests
	noopPublisher := infrastructure.NewNoopEventPublisher()

	// Create UoW factory
	uowFactory := infrastructure.NewUnitOfWorkFactory(testDB.DB, noopPublisher)

	// Setup test data
	ctx := context.Background()
	club := setupTestClub(t, ctx, uowFactory, "Refund City")
	userID := int64(55002)

	handler := application.NewPurchaseHandler(uowFactory)

	// Each of these is permanently malformed: the handler drops them without
	// an error so JetStream does not redeliver them forever
	malformed := []struct {
		name     string
		purchase dto.PurchaseVerifiedDTO
	}{
		{
			name:     "missing user",
			purchase: dto.PurchaseVerifiedDTO{ClubID: club.ID, Points: 100, Ref: "pi_bad_1"},
		},
		{
			name:     "missing club",
			purchase: dto.PurchaseVerifiedDTO{UserID: userID, Points: 100, Ref: "pi_bad_2"},
		},
		{
			name:     "empty ref",
			purchase: dto.PurchaseVerifiedDTO{UserID: userID, ClubID: club.ID, Points: 100},
		},
		{
			name:     "negative points",
			purchase: dto.PurchaseVerifiedDTO{UserID: userID, ClubID: club.ID, Points: -100, Ref: "pi_bad_3"},
		},
		{
			name:     "fractional points",
			purchase: dto.PurchaseVerifiedDTO{UserID: userID, ClubID: club.ID, Points: 99.5, Ref: "pi_bad_4"},
		},
		{
			name:     "zero points",
			purchase: dto.PurchaseVerifiedDTO{UserID: userID, ClubID: club.ID, Points: 0, Ref: "pi_bad_5"},
		},
		{
			name:     "negative bonus",
			purchase: dto.PurchaseVerifiedDTO{UserID: userID, ClubID: club.ID, Points: 100, BonusPoints: -10, Ref: "pi_bad_6"},
		},
		{
			name:     "points above ceiling",
			purchase: dto.PurchaseVerifiedDTO{UserID: userID, ClubID: club.ID, Points: 2_000_000, Ref: "pi_bad_7"},
		},
	}

	for _, tc := range malformed {
		t.Run(tc.name, func(t *testing.T) {
			err := handler.HandlePurchaseVerified(ctx, tc.purchase)
			require.NoError(t, err)
		})
	}

	// None of them created a wallet
	wallet := getWallet(t, ctx, uowFactory, club.ID, userID)
	assert.Nil(t, wallet)
}

// getClub reads a club back outside the handler's transaction
func getClub(t *testing.T, ctx context.Context, uowFactory application.UnitOfWorkFactory, clubID int64) *entities.Club {
	uow := uowFactory.CreateForClub(clubID)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	club, err := uow.ClubRepository().GetByID(ctx, clubID)
	require.NoError(t, err)
	require.NotNil(t, club)
	return club
}
