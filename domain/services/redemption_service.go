package services

import (
	"context"
	"fmt"
	"time"

	"superfan/domain/entities"
	"superfan/domain/events"
	"superfan/domain/interfaces"
	"superfan/domain/utils"
	log "github.com/sirupsen/logrus"
)

// redemptionService implements the RedemptionService interface
type redemptionService struct {
	walletRepo      interfaces.PointWalletRepository
	transactionRepo interfaces.PointTransactionRepository
	rewardRepo      interfaces.RewardRepository
	redemptionRepo  interfaces.RewardRedemptionRepository
	eventPublisher  interfaces.EventPublisher
	spendingPower   *SpendingPowerService
	holdTTL         time.Duration
}

// NewRedemptionService creates a new redemption service. holdTTL is how
// long a PRESALE_LOCK redemption stays HELD before the sweep releases it.
func NewRedemptionService(
	walletRepo interfaces.PointWalletRepository,
	transactionRepo interfaces.PointTransactionRepository,
	rewardRepo interfaces.RewardRepository,
	redemptionRepo interfaces.RewardRedemptionRepository,
	eventPublisher interfaces.EventPublisher,
	holdTTL time.Duration,
) interfaces.RedemptionService {
	return &redemptionService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		rewardRepo:      rewardRepo,
		redemptionRepo:  redemptionRepo,
		eventPublisher:  eventPublisher,
		spendingPower:   NewSpendingPowerService(),
		holdTTL:         holdTTL,
	}
}

// RedeemReward spends points on a reward and creates the redemption record.
// Everything happens inside the caller's transaction: the spend, the
// inventory decrement, and the redemption row commit or roll back together.
func (s *redemptionService) RedeemReward(ctx context.Context, userID int64, rewardID int64, preserveStatus bool) (*entities.RewardRedemption, error) {
	reward, err := s.rewardRepo.GetByID(ctx, rewardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reward: %w", err)
	}
	if reward == nil {
		return nil, entities.ErrRewardNotFound
	}

	now := time.Now().UTC()
	if err := reward.CheckAvailability(now); err != nil {
		return nil, err
	}

	wallet, created, err := s.walletRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create wallet: %w", err)
	}
	if created {
		event := events.WalletCreatedEvent{
			WalletID: wallet.ID,
			UserID:   wallet.UserID,
			ClubID:   wallet.ClubID,
		}
		if err := s.eventPublisher.Publish(event); err != nil {
			log.WithError(err).Error("Failed to publish wallet created event")
		}
	}

	// Lock the row so the spendable check and the recorded snapshots stay
	// serialized with the deduction.
	wallet, err = s.walletRepo.GetByIDForUpdate(ctx, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	if wallet == nil {
		return nil, entities.ErrWalletNotFound
	}

	// Escrowed points come from the crowdfunding subsystem, which is not
	// wired into this path; nothing is escrowed here.
	breakdown, err := s.spendingPower.CalculateSpendingBreakdown(
		reward.PointsPrice,
		wallet.EarnedRemaining(),
		wallet.PurchasedRemaining(),
		0,
		wallet.Status(0),
		preserveStatus,
	)
	if err != nil {
		return nil, err
	}

	transaction := &entities.PointTransaction{
		WalletID:      wallet.ID,
		ClubID:        wallet.ClubID,
		Type:          entities.TransactionTypeSpend,
		Pts:           reward.PointsPrice,
		BalanceBefore: wallet.BalancePts,
		BalanceAfter:  wallet.BalancePts - reward.PointsPrice,
		Metadata: map[string]any{
			"reward_id":       reward.ID,
			"spend_purchased": breakdown.SpendPurchased,
			"spend_earned":    breakdown.SpendEarned,
		},
	}

	expected := *wallet
	expected.BalancePts = transaction.BalanceAfter
	if err := utils.RecordPointsChange(ctx, s.transactionRepo, s.eventPublisher, wallet, &expected, transaction); err != nil {
		return nil, err
	}

	after, err := s.walletRepo.ApplyDelta(ctx, wallet.ID, -reward.PointsPrice, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to apply wallet delta: %w", err)
	}

	inventoryDebited := false
	if reward.Inventory != nil {
		debited, err := s.rewardRepo.DecrementInventory(ctx, reward.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement inventory: %w", err)
		}
		if !debited {
			// Lost a race for the last unit
			return nil, &entities.RewardUnavailableError{RewardID: reward.ID, Reason: entities.UnavailableSoldOut}
		}
		inventoryDebited = true
	}

	redemption := &entities.RewardRedemption{
		RewardID:         reward.ID,
		WalletID:         after.ID,
		ClubID:           after.ClubID,
		State:            entities.RedemptionStateConfirmed,
		PointsSpent:      reward.PointsPrice,
		SpendPurchased:   breakdown.SpendPurchased,
		SpendEarned:      breakdown.SpendEarned,
		Details:          reward.BuildRedemptionDetails(),
		InventoryDebited: inventoryDebited,
	}
	if reward.Kind.RequiresHold() {
		expiresAt := now.Add(s.holdTTL)
		redemption.State = entities.RedemptionStateHeld
		redemption.HoldExpiresAt = &expiresAt
	}

	if err := s.redemptionRepo.Create(ctx, redemption); err != nil {
		return nil, fmt.Errorf("failed to create redemption: %w", err)
	}

	event := events.RewardRedeemedEvent{
		RedemptionID:   redemption.ID,
		RewardID:       reward.ID,
		WalletID:       after.ID,
		UserID:         after.UserID,
		ClubID:         after.ClubID,
		PointsSpent:    redemption.PointsSpent,
		SpendPurchased: redemption.SpendPurchased,
		SpendEarned:    redemption.SpendEarned,
		State:          redemption.State,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish reward redeemed event")
	}

	log.WithFields(log.Fields{
		"redemptionID": redemption.ID,
		"rewardID":     reward.ID,
		"userID":       userID,
		"pointsSpent":  redemption.PointsSpent,
		"state":        redemption.State,
	}).Info("Reward redeemed")

	return redemption, nil
}

// ConfirmRedemption moves a HELD redemption to CONFIRMED. A hold whose
// window already lapsed belongs to the sweep and cannot be confirmed.
func (s *redemptionService) ConfirmRedemption(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error) {
	redemption, err := s.redemptionRepo.GetByID(ctx, redemptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption: %w", err)
	}
	if redemption == nil {
		return nil, entities.ErrRedemptionNotFound
	}
	if !redemption.CanConfirm() {
		return nil, fmt.Errorf("%w: %s to %s", entities.ErrInvalidStateTransition, redemption.State, entities.RedemptionStateConfirmed)
	}
	if redemption.IsHoldExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: hold expired", entities.ErrInvalidStateTransition)
	}

	return s.transition(ctx, redemption, entities.RedemptionStateConfirmed)
}

// FulfillRedemption moves a CONFIRMED redemption to FULFILLED. Fulfilled
// redemptions are consumed and can never be refunded.
func (s *redemptionService) FulfillRedemption(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error) {
	redemption, err := s.redemptionRepo.GetByID(ctx, redemptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption: %w", err)
	}
	if redemption == nil {
		return nil, entities.ErrRedemptionNotFound
	}
	if !redemption.CanFulfill() {
		return nil, fmt.Errorf("%w: %s to %s", entities.ErrInvalidStateTransition, redemption.State, entities.RedemptionStateFulfilled)
	}

	return s.transition(ctx, redemption, entities.RedemptionStateFulfilled)
}

// RefundRedemption returns the points to the wallet, restores any
// inventory debit, and moves the redemption to REFUNDED
func (s *redemptionService) RefundRedemption(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error) {
	redemption, err := s.redemptionRepo.GetByID(ctx, redemptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption: %w", err)
	}
	if redemption == nil {
		return nil, entities.ErrRedemptionNotFound
	}
	if !redemption.CanRefund() {
		return nil, fmt.Errorf("%w: %s to %s", entities.ErrInvalidStateTransition, redemption.State, entities.RedemptionStateRefunded)
	}

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, redemption.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	if wallet == nil {
		log.WithFields(log.Fields{
			"redemptionID": redemption.ID,
			"walletID":     redemption.WalletID,
		}).Error("Redemption references a missing wallet")
		return nil, entities.ErrWalletNotFound
	}

	// The balance credit is enough to restore the purchased-first split:
	// lifetime sub-ledgers never moved, so the derived remainders recover
	// in the same order the spend consumed them.
	transaction := &entities.PointTransaction{
		WalletID:      wallet.ID,
		ClubID:        wallet.ClubID,
		Type:          entities.TransactionTypeRefund,
		Pts:           redemption.PointsSpent,
		BalanceBefore: wallet.BalancePts,
		BalanceAfter:  wallet.BalancePts + redemption.PointsSpent,
		Metadata: map[string]any{
			"redemption_id":    redemption.ID,
			"refund_purchased": redemption.SpendPurchased,
			"refund_earned":    redemption.SpendEarned,
		},
	}

	expected := *wallet
	expected.BalancePts = transaction.BalanceAfter
	if err := utils.RecordPointsChange(ctx, s.transactionRepo, s.eventPublisher, wallet, &expected, transaction); err != nil {
		return nil, err
	}
	if _, err := s.walletRepo.ApplyDelta(ctx, wallet.ID, redemption.PointsSpent, 0, 0); err != nil {
		return nil, fmt.Errorf("failed to apply wallet delta: %w", err)
	}

	if redemption.InventoryDebited {
		if err := s.rewardRepo.RestoreInventory(ctx, redemption.RewardID); err != nil {
			return nil, fmt.Errorf("failed to restore inventory: %w", err)
		}
	}

	return s.transition(ctx, redemption, entities.RedemptionStateRefunded)
}

// ListRedemptions returns the most recent redemptions for a wallet
func (s *redemptionService) ListRedemptions(ctx context.Context, walletID int64, limit int) ([]*entities.RewardRedemption, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	redemptions, err := s.redemptionRepo.ListByWallet(ctx, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}
	return redemptions, nil
}

// transition persists a state move and publishes the change
func (s *redemptionService) transition(ctx context.Context, redemption *entities.RewardRedemption, next entities.RedemptionState) (*entities.RewardRedemption, error) {
	oldState := redemption.State
	if err := s.redemptionRepo.UpdateState(ctx, redemption.ID, oldState, next); err != nil {
		return nil, fmt.Errorf("failed to update redemption state: %w", err)
	}
	redemption.State = next

	event := events.RedemptionStateChangedEvent{
		RedemptionID: redemption.ID,
		RewardID:     redemption.RewardID,
		WalletID:     redemption.WalletID,
		OldState:     oldState,
		NewState:     next,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish redemption state changed event")
	}

	log.WithFields(log.Fields{
		"redemptionID": redemption.ID,
		"oldState":     oldState,
		"newState":     next,
	}).Info("Redemption state changed")

	return redemption, nil
}
