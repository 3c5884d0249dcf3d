package application

import (
	"context"
	"errors"
	"fmt"

	"superfan/application/dto"
	"superfan/domain/entities"
	"superfan/domain/services"
	"superfan/domain/utils"

	log "github.com/sirupsen/logrus"
)

// PurchaseHandlerImpl implements the PurchaseHandler interface
type PurchaseHandlerImpl struct {
	uowFactory UnitOfWorkFactory
}

// NewPurchaseHandler creates a new purchase event handler
func NewPurchaseHandler(uowFactory UnitOfWorkFactory) PurchaseHandler {
	return &PurchaseHandlerImpl{
		uowFactory: uowFactory,
	}
}

// HandlePurchaseVerified credits a point purchase confirmed by the payment
// service and tops up the club reserve
func (h *PurchaseHandlerImpl) HandlePurchaseVerified(ctx context.Context, purchase dto.PurchaseVerifiedDTO) error {
	log.WithFields(log.Fields{
		"userID":     purchase.UserID,
		"clubID":     purchase.ClubID,
		"points":     purchase.Points,
		"grossCents": purchase.USDGrossCents,
		"ref":        purchase.Ref,
	}).Info("Handling verified purchase")

	// A malformed purchase cannot succeed on redelivery, so drop it instead
	// of returning an error that would trigger a NAK retry loop
	if purchase.UserID <= 0 || purchase.ClubID <= 0 {
		log.WithFields(log.Fields{
			"userID": purchase.UserID,
			"clubID": purchase.ClubID,
		}).Warn("Dropping purchase without user or club")
		return nil
	}
	if purchase.Ref == "" {
		// Empty refs would all collide on the ledger's idempotency index
		log.WithFields(log.Fields{
			"userID": purchase.UserID,
			"clubID": purchase.ClubID,
		}).Warn("Dropping purchase without a ref")
		return nil
	}
	if err := utils.ValidatePointsAmount(purchase.Points); err != nil {
		log.WithFields(log.Fields{
			"userID": purchase.UserID,
			"points": purchase.Points,
			"error":  err,
		}).Warn("Dropping purchase with invalid point count")
		return nil
	}
	if err := utils.ValidatePointsAmount(purchase.BonusPoints); err != nil {
		log.WithFields(log.Fields{
			"userID": purchase.UserID,
			"bonus":  purchase.BonusPoints,
			"error":  err,
		}).Warn("Dropping purchase with invalid bonus point count")
		return nil
	}

	uow := h.uowFactory.CreateForClub(purchase.ClubID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := recover(); err != nil {
			uow.Rollback()
			panic(err)
		}
	}()

	ledgerService := services.NewLedgerService(
		uow.PointWalletRepository(),
		uow.PointTransactionRepository(),
		uow.ClubRepository(),
		uow.EventBus(),
		0, // purchases never use the tap-in override cap
	)

	wallet, err := ledgerService.RecordPurchase(
		ctx,
		purchase.UserID,
		int64(purchase.Points),
		int64(purchase.BonusPoints),
		purchase.USDGrossCents,
		purchase.UnitSellCents,
		purchase.UnitSettleCents,
		purchase.Ref,
	)
	if err != nil {
		uow.Rollback()
		if errors.Is(err, entities.ErrInvalidAmount) {
			log.WithFields(log.Fields{
				"userID": purchase.UserID,
				"ref":    purchase.Ref,
				"error":  err,
			}).Warn("Dropping invalid purchase")
			return nil
		}
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":  purchase.UserID,
		"clubID":  purchase.ClubID,
		"points":  purchase.Points,
		"balance": wallet.BalancePts,
	}).Info("Purchase recorded")

	return nil
}
