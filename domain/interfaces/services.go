package interfaces

import (
	"context"

	"superfan/domain/entities"
)

// LedgerService defines the interface for wallet credit operations and
// balance reads
type LedgerService interface {
	// RecordTapIn credits earned points for a fan check-in. The award comes
	// from the source table unless pointsOverride is set, and the override
	// is clamped to the configured cap. A duplicate ref is a no-op that
	// returns the current wallet.
	RecordTapIn(ctx context.Context, userID int64, source entities.TapInSource, pointsOverride *int64, ref string) (*entities.PointWallet, error)

	// RecordPurchase credits purchased points from a verified payment,
	// credits any bonus points as earned, and tops up the club reserve.
	// Unit prices are snapshots from the time of sale. A duplicate ref is
	// a no-op that returns the current wallet.
	RecordPurchase(ctx context.Context, userID int64, points, bonusPoints, usdGrossCents, unitSellCents, unitSettleCents int64, ref string) (*entities.PointWallet, error)

	// AwardBonusPoints records an admin grant of earned points
	AwardBonusPoints(ctx context.Context, userID int64, points int64, reason string) (*entities.PointWallet, error)

	// GetOrCreateWallet returns the user's wallet in the current club,
	// creating an empty one on first touch
	GetOrCreateWallet(ctx context.Context, userID int64) (*entities.PointWallet, error)

	// GetGlobalBalance aggregates the user's wallets across all clubs.
	// The USD value uses the fixed display peg, not club pricing.
	GetGlobalBalance(ctx context.Context, userID int64) (*entities.GlobalBalance, error)

	// GetRecentTransactions returns the most recent ledger entries for a
	// wallet
	GetRecentTransactions(ctx context.Context, walletID int64, limit int) ([]*entities.PointTransaction, error)
}

// RedemptionService defines the interface for reward redemption operations
type RedemptionService interface {
	// RedeemReward spends points on a reward and creates the redemption.
	// PRESALE_LOCK redemptions start HELD with a hold deadline; other kinds
	// start CONFIRMED. preserveStatus refuses spends that would drop the
	// fan's tier.
	RedeemReward(ctx context.Context, userID int64, rewardID int64, preserveStatus bool) (*entities.RewardRedemption, error)

	// ConfirmRedemption moves a HELD redemption to CONFIRMED
	ConfirmRedemption(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error)

	// FulfillRedemption moves a CONFIRMED redemption to FULFILLED
	FulfillRedemption(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error)

	// RefundRedemption refunds a HELD or CONFIRMED redemption: points return
	// to the wallet, any inventory debit is restored, and the redemption
	// moves to REFUNDED
	RefundRedemption(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error)

	// ListRedemptions returns the most recent redemptions for a wallet
	ListRedemptions(ctx context.Context, walletID int64, limit int) ([]*entities.RewardRedemption, error)
}

// PricingService defines the interface for club pricing operations
type PricingService interface {
	// ValidateClubPricing checks a proposed price pair against the club's
	// guardrail bounds without persisting anything
	ValidateClubPricing(ctx context.Context, clubID int64, sellCents, settleCents int64) error

	// UpdateClubPricing validates and persists a new price pair
	UpdateClubPricing(ctx context.Context, clubID int64, sellCents, settleCents int64) error
}

// ReserveService defines the interface for club reserve reporting
type ReserveService interface {
	// GetReserveSummary reports the current club's outstanding points,
	// reserve target, accumulated reserve, and coverage ratio
	GetReserveSummary(ctx context.Context, clubID int64) (*entities.ClubReserveSummary, error)
}
