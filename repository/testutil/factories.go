package testutil

import (
	"time"

	"superfan/domain/entities"
)

// CreateTestClub creates a test club with default pricing inside the
// platform guardrails
func CreateTestClub(name string) *entities.Club {
	return &entities.Club{
		Name:               name,
		PointSellCents:     100,
		PointSettleCents:   50,
		GuardrailMinSell:   1,
		GuardrailMaxSell:   500,
		GuardrailMinSettle: 1,
		GuardrailMaxSettle: 200,
	}
}

// CreateTestClubWithPricing creates a test club with specific pricing
func CreateTestClubWithPricing(name string, sellCents, settleCents int64) *entities.Club {
	club := CreateTestClub(name)
	club.PointSellCents = sellCents
	club.PointSettleCents = settleCents
	return club
}

// CreateTestReward creates an active reward with unlimited inventory
func CreateTestReward(clubID int64, kind entities.RewardKind, pointsPrice int64) *entities.Reward {
	ref := "test-content"
	switch kind {
	case entities.RewardKindPresaleLock:
		ref = "test-presale-slot"
	case entities.RewardKindVariant:
		ref = "test-sku"
	}
	return &entities.Reward{
		ClubID:         clubID,
		Kind:           kind,
		Title:          "Test reward",
		PointsPrice:    pointsPrice,
		FulfillmentRef: ref,
		Status:         entities.RewardStatusActive,
	}
}

// CreateTestRewardWithInventory creates an active reward with finite stock
func CreateTestRewardWithInventory(clubID int64, kind entities.RewardKind, pointsPrice, inventory int64) *entities.Reward {
	reward := CreateTestReward(clubID, kind, pointsPrice)
	reward.Inventory = &inventory
	return reward
}

// CreateTestRewardWithWindow creates an active reward redeemable only
// inside the given window
func CreateTestRewardWithWindow(clubID int64, kind entities.RewardKind, pointsPrice int64, start, end time.Time) *entities.Reward {
	reward := CreateTestReward(clubID, kind, pointsPrice)
	reward.WindowStart = &start
	reward.WindowEnd = &end
	return reward
}

// CreateTestTransaction creates a credit ledger entry with consistent
// before/after balances
func CreateTestTransaction(walletID int64, transactionType entities.TransactionType, pts, balanceBefore int64) *entities.PointTransaction {
	after := balanceBefore + pts
	if transactionType == entities.TransactionTypeSpend {
		after = balanceBefore - pts
	}
	return &entities.PointTransaction{
		WalletID:      walletID,
		Type:          transactionType,
		Pts:           pts,
		BalanceBefore: balanceBefore,
		BalanceAfter:  after,
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestRedemption creates a confirmed redemption paid entirely from
// earned points
func CreateTestRedemption(rewardID, walletID int64, points int64) *entities.RewardRedemption {
	return &entities.RewardRedemption{
		RewardID:    rewardID,
		WalletID:    walletID,
		State:       entities.RedemptionStateConfirmed,
		PointsSpent: points,
		SpendEarned: points,
		Details: entities.RedemptionDetails{
			Kind:   entities.RewardKindAccess,
			Access: &entities.AccessDetails{ContentRef: "test-content"},
		},
	}
}

// CreateTestHeldRedemption creates a HELD redemption with the given expiry
func CreateTestHeldRedemption(rewardID, walletID int64, points int64, expiresAt time.Time) *entities.RewardRedemption {
	redemption := CreateTestRedemption(rewardID, walletID, points)
	redemption.State = entities.RedemptionStateHeld
	redemption.HoldExpiresAt = &expiresAt
	redemption.Details = entities.RedemptionDetails{
		Kind:        entities.RewardKindPresaleLock,
		PresaleLock: &entities.PresaleLockDetails{SlotRef: "test-presale-slot"},
	}
	return redemption
}
