package services

import (
	"context"
	"errors"
	"fmt"

	"superfan/domain/entities"
	"superfan/domain/events"
	"superfan/domain/interfaces"
	"superfan/domain/utils"
	log "github.com/sirupsen/logrus"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	walletRepo       interfaces.PointWalletRepository
	transactionRepo  interfaces.PointTransactionRepository
	clubRepo         interfaces.ClubRepository
	eventPublisher   interfaces.EventPublisher
	reserveCalc      *ReserveCalculator
	tapInOverrideCap int64
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	walletRepo interfaces.PointWalletRepository,
	transactionRepo interfaces.PointTransactionRepository,
	clubRepo interfaces.ClubRepository,
	eventPublisher interfaces.EventPublisher,
	tapInOverrideCap int64,
) interfaces.LedgerService {
	return &ledgerService{
		walletRepo:       walletRepo,
		transactionRepo:  transactionRepo,
		clubRepo:         clubRepo,
		eventPublisher:   eventPublisher,
		reserveCalc:      NewReserveCalculator(),
		tapInOverrideCap: tapInOverrideCap,
	}
}

// getOrCreateWallet fetches the user's wallet and announces a fresh one
func (s *ledgerService) getOrCreateWallet(ctx context.Context, userID int64) (*entities.PointWallet, error) {
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

	return wallet, nil
}

// credit applies a single credit to the wallet: one ledger entry plus the
// atomic balance increment. The wallet row is locked first so the recorded
// balance snapshots stay serialized with the increment; the ledger write
// happens before the increment so a duplicate ref stops the flow before
// any balance moves.
func (s *ledgerService) credit(ctx context.Context, wallet *entities.PointWallet, transaction *entities.PointTransaction, deltaEarned, deltaPurchased int64) (*entities.PointWallet, error) {
	locked, err := s.walletRepo.GetByIDForUpdate(ctx, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	if locked == nil {
		return nil, fmt.Errorf("%w: wallet %d", entities.ErrWalletNotFound, wallet.ID)
	}
	transaction.BalanceBefore = locked.BalancePts
	transaction.BalanceAfter = locked.BalancePts + transaction.SignedPts()

	expected := *locked
	expected.BalancePts = transaction.BalanceAfter
	expected.EarnedPts += deltaEarned
	expected.PurchasedPts += deltaPurchased

	if err := utils.RecordPointsChange(ctx, s.transactionRepo, s.eventPublisher, locked, &expected, transaction); err != nil {
		return nil, err
	}

	after, err := s.walletRepo.ApplyDelta(ctx, locked.ID, transaction.SignedPts(), deltaEarned, deltaPurchased)
	if err != nil {
		return nil, fmt.Errorf("failed to apply wallet delta: %w", err)
	}
	return after, nil
}

// RecordTapIn credits earned points for a fan check-in. The same ref seen
// twice leaves the wallet untouched and reports the current state.
func (s *ledgerService) RecordTapIn(ctx context.Context, userID int64, source entities.TapInSource, pointsOverride *int64, ref string) (*entities.PointWallet, error) {
	pts := source.Points()
	if pointsOverride != nil {
		override := *pointsOverride
		if override < 0 {
			return nil, fmt.Errorf("%w: tap-in override is negative", entities.ErrInvalidAmount)
		}
		if override > s.tapInOverrideCap {
			log.WithFields(log.Fields{
				"userID":   userID,
				"source":   source,
				"override": override,
				"cap":      s.tapInOverrideCap,
			}).Warn("Tap-in point override exceeds cap, clamping")
			override = s.tapInOverrideCap
		}
		pts = override
	}

	wallet, err := s.getOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	transaction := &entities.PointTransaction{
		WalletID:      wallet.ID,
		ClubID:        wallet.ClubID,
		Type:          entities.TransactionTypeBonus,
		Pts:           pts,
		Ref:           &ref,
		Metadata: map[string]any{
			"tap_in_source": source.String(),
		},
	}

	after, err := s.credit(ctx, wallet, transaction, pts, 0)
	if err != nil {
		if errors.Is(err, entities.ErrDuplicateRef) {
			log.WithFields(log.Fields{
				"userID": userID,
				"ref":    ref,
			}).Info("Tap-in ref already processed, skipping")
			return wallet, nil
		}
		return nil, err
	}

	event := events.TapInRecordedEvent{
		WalletID: after.ID,
		UserID:   after.UserID,
		ClubID:   after.ClubID,
		Source:   source,
		Points:   pts,
		Ref:      ref,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish tap-in recorded event")
	}

	return after, nil
}

// RecordPurchase credits a verified point purchase, credits any bonus
// points as earned, and tops up the club reserve in the same transaction.
func (s *ledgerService) RecordPurchase(ctx context.Context, userID int64, points, bonusPoints, usdGrossCents, unitSellCents, unitSettleCents int64, ref string) (*entities.PointWallet, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: purchase must credit at least one point", entities.ErrInvalidAmount)
	}
	if bonusPoints < 0 || usdGrossCents < 0 {
		return nil, fmt.Errorf("%w: negative purchase figures", entities.ErrInvalidAmount)
	}
	if points > utils.MaxPointsAmount || bonusPoints > utils.MaxPointsAmount {
		return nil, fmt.Errorf("%w: exceeds ceiling of %d", entities.ErrInvalidAmount, utils.MaxPointsAmount)
	}

	wallet, err := s.getOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	transaction := &entities.PointTransaction{
		WalletID:        wallet.ID,
		ClubID:          wallet.ClubID,
		Type:            entities.TransactionTypePurchase,
		Pts:             points,
		UnitSellCents:   &unitSellCents,
		UnitSettleCents: &unitSettleCents,
		USDGrossCents:   &usdGrossCents,
		Ref:             &ref,
	}

	after, err := s.credit(ctx, wallet, transaction, 0, points)
	if err != nil {
		if errors.Is(err, entities.ErrDuplicateRef) {
			log.WithFields(log.Fields{
				"userID": userID,
				"ref":    ref,
			}).Info("Purchase ref already processed, skipping")
			return wallet, nil
		}
		return nil, err
	}

	if bonusPoints > 0 {
		bonusTransaction := &entities.PointTransaction{
			WalletID:      after.ID,
			ClubID:        after.ClubID,
			Type:          entities.TransactionTypeBonus,
			Pts:           bonusPoints,
			Metadata: map[string]any{
				"purchase_ref": ref,
			},
		}
		after, err = s.credit(ctx, after, bonusTransaction, bonusPoints, 0)
		if err != nil {
			return nil, err
		}
	}

	reserveDelta := s.reserveCalc.CalculateReserveDelta(points, unitSettleCents)
	if reserveDelta > 0 {
		if err := s.clubRepo.AddToReserve(ctx, after.ClubID, reserveDelta); err != nil {
			return nil, fmt.Errorf("failed to top up club reserve: %w", err)
		}
	}
	upfront := s.reserveCalc.CalculateUpfrontAmount(usdGrossCents, reserveDelta)

	event := events.PointsPurchasedEvent{
		WalletID:          after.ID,
		UserID:            after.UserID,
		ClubID:            after.ClubID,
		Points:            points,
		BonusPoints:       bonusPoints,
		USDGrossCents:     usdGrossCents,
		ReserveDeltaCents: reserveDelta,
		UpfrontCents:      upfront,
		Ref:               ref,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish points purchased event")
	}

	log.WithFields(log.Fields{
		"userID":       userID,
		"clubID":       after.ClubID,
		"points":       points,
		"bonusPoints":  bonusPoints,
		"grossCents":   usdGrossCents,
		"reserveCents": reserveDelta,
		"upfrontCents": upfront,
	}).Info("Point purchase recorded")

	return after, nil
}

// AwardBonusPoints records an admin grant of earned points
func (s *ledgerService) AwardBonusPoints(ctx context.Context, userID int64, points int64, reason string) (*entities.PointWallet, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: grant must award at least one point", entities.ErrInvalidAmount)
	}
	if points > utils.MaxPointsAmount {
		return nil, fmt.Errorf("%w: exceeds ceiling of %d", entities.ErrInvalidAmount, utils.MaxPointsAmount)
	}

	wallet, err := s.getOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	transaction := &entities.PointTransaction{
		WalletID:      wallet.ID,
		ClubID:        wallet.ClubID,
		Type:          entities.TransactionTypeBonus,
		Pts:           points,
		Metadata: map[string]any{
			"admin_grant": true,
			"reason":      reason,
		},
	}

	after, err := s.credit(ctx, wallet, transaction, points, 0)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"clubID": after.ClubID,
		"points": points,
		"reason": reason,
	}).Info("Bonus points granted")

	return after, nil
}

// GetOrCreateWallet returns the user's wallet in the current club
func (s *ledgerService) GetOrCreateWallet(ctx context.Context, userID int64) (*entities.PointWallet, error) {
	return s.getOrCreateWallet(ctx, userID)
}

// GetGlobalBalance aggregates the user's wallets across every club. The
// USD value uses the fixed display peg regardless of club pricing.
func (s *ledgerService) GetGlobalBalance(ctx context.Context, userID int64) (*entities.GlobalBalance, error) {
	wallets, err := s.walletRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	balance := &entities.GlobalBalance{
		UserID: userID,
		Clubs:  make([]entities.ClubWalletSummary, 0, len(wallets)),
	}
	for _, w := range wallets {
		balance.TotalPts += w.BalancePts
		balance.EarnedPts += w.EarnedPts
		balance.PurchasedPts += w.PurchasedPts
		balance.SpentPts += w.SpentPts()
		balance.Clubs = append(balance.Clubs, entities.ClubWalletSummary{
			ClubID:       w.ClubID,
			WalletID:     w.ID,
			BalancePts:   w.BalancePts,
			EarnedPts:    w.EarnedPts,
			PurchasedPts: w.PurchasedPts,
			Status:       w.Status(0),
		})
	}
	balance.USDValueCents = balance.TotalPts * 100 / entities.DisplayPointsPerUSD

	return balance, nil
}

// GetRecentTransactions returns the most recent ledger entries for a wallet
func (s *ledgerService) GetRecentTransactions(ctx context.Context, walletID int64, limit int) ([]*entities.PointTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	transactions, err := s.transactionRepo.GetByWallet(ctx, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}
