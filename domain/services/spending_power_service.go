package services

import (
	"fmt"

	"superfan/domain/entities"
)

// SpendingPowerService contains pure business logic for spending power
// calculations. Inputs are the wallet's derived remaining sub-ledgers, not
// raw lifetime totals.
type SpendingPowerService struct{}

// NewSpendingPowerService creates a new SpendingPowerService
func NewSpendingPowerService() *SpendingPowerService {
	return &SpendingPowerService{}
}

// SpendingPower describes how much a wallet can spend and where it comes from
type SpendingPower struct {
	PurchasedAvailable    int64
	EarnedAvailable       int64
	EarnedLockedForStatus int64
	TotalSpendable        int64
}

// SpendingBreakdown is the purchased-first split of one spend
type SpendingBreakdown struct {
	SpendPurchased int64
	SpendEarned    int64
}

// Total returns the full amount the breakdown covers
func (b *SpendingBreakdown) Total() int64 {
	return b.SpendPurchased + b.SpendEarned
}

// CalculateSpendingPower computes what a wallet can spend. When
// preserveStatus is set, enough earned points to keep the current tier are
// locked away from spending. Escrowed points are never spendable.
func (s *SpendingPowerService) CalculateSpendingPower(earnedRemaining, purchasedRemaining, escrowedPts int64, currentStatus entities.StatusTier, preserveStatus bool) *SpendingPower {
	var earnedLocked int64
	if preserveStatus {
		earnedLocked = currentStatus.Threshold()
		if earnedLocked > earnedRemaining {
			earnedLocked = earnedRemaining
		}
	}

	earnedAvailable := earnedRemaining - earnedLocked - escrowedPts
	if earnedAvailable < 0 {
		earnedAvailable = 0
	}

	purchasedAvailable := purchasedRemaining
	if purchasedAvailable < 0 {
		purchasedAvailable = 0
	}

	return &SpendingPower{
		PurchasedAvailable:    purchasedAvailable,
		EarnedAvailable:       earnedAvailable,
		EarnedLockedForStatus: earnedLocked,
		TotalSpendable:        purchasedAvailable + earnedAvailable,
	}
}

// CalculateSpendingBreakdown splits a spend across the two sub-ledgers,
// purchased points first. The ordering is business policy: spending drains
// paid points before it erodes the earned points that carry tier standing.
func (s *SpendingPowerService) CalculateSpendingBreakdown(amountToSpend, earnedRemaining, purchasedRemaining, escrowedPts int64, currentStatus entities.StatusTier, preserveStatus bool) (*SpendingBreakdown, error) {
	if amountToSpend < 0 {
		return nil, fmt.Errorf("%w: spend amount is negative", entities.ErrInvalidAmount)
	}

	power := s.CalculateSpendingPower(earnedRemaining, purchasedRemaining, escrowedPts, currentStatus, preserveStatus)
	if amountToSpend > power.TotalSpendable {
		return nil, &entities.InsufficientPointsError{
			Requested:       amountToSpend,
			Available:       power.TotalSpendable,
			StatusProtected: preserveStatus && power.EarnedLockedForStatus > 0,
		}
	}

	spendPurchased := amountToSpend
	if spendPurchased > power.PurchasedAvailable {
		spendPurchased = power.PurchasedAvailable
	}

	return &SpendingBreakdown{
		SpendPurchased: spendPurchased,
		SpendEarned:    amountToSpend - spendPurchased,
	}, nil
}

// CanSpendPoints reports whether the wallet can cover the amount under the
// given protection setting
func (s *SpendingPowerService) CanSpendPoints(amountToSpend, earnedRemaining, purchasedRemaining, escrowedPts int64, currentStatus entities.StatusTier, preserveStatus bool) bool {
	_, err := s.CalculateSpendingBreakdown(amountToSpend, earnedRemaining, purchasedRemaining, escrowedPts, currentStatus, preserveStatus)
	return err == nil
}
