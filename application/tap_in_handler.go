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

// TapInHandlerImpl implements the TapInHandler interface
type TapInHandlerImpl struct {
	uowFactory       UnitOfWorkFactory
	tapInOverrideCap int64
}

// NewTapInHandler creates a new tap-in event handler
func NewTapInHandler(uowFactory UnitOfWorkFactory, tapInOverrideCap int64) TapInHandler {
	return &TapInHandlerImpl{
		uowFactory:       uowFactory,
		tapInOverrideCap: tapInOverrideCap,
	}
}

// HandleTapInScan credits earned points for a fan check-in
func (h *TapInHandlerImpl) HandleTapInScan(ctx context.Context, scan dto.TapInScanDTO) error {
	log.WithFields(log.Fields{
		"userID": scan.UserID,
		"clubID": scan.ClubID,
		"source": scan.Source,
		"ref":    scan.Ref,
	}).Info("Handling tap-in scan")

	// A malformed scan cannot succeed on redelivery, so drop it instead of
	// returning an error that would trigger a NAK retry loop
	if scan.UserID <= 0 || scan.ClubID <= 0 {
		log.WithFields(log.Fields{
			"userID": scan.UserID,
			"clubID": scan.ClubID,
		}).Warn("Dropping tap-in scan without user or club")
		return nil
	}
	if scan.Ref == "" {
		// Empty refs would all collide on the ledger's idempotency index
		log.WithFields(log.Fields{
			"userID": scan.UserID,
			"clubID": scan.ClubID,
		}).Warn("Dropping tap-in scan without a ref")
		return nil
	}

	var override *int64
	if scan.PointsOverride != nil {
		if err := utils.ValidatePointsAmount(*scan.PointsOverride); err != nil {
			log.WithFields(log.Fields{
				"userID":   scan.UserID,
				"override": *scan.PointsOverride,
				"error":    err,
			}).Warn("Dropping tap-in scan with invalid point override")
			return nil
		}
		pts := int64(*scan.PointsOverride)
		override = &pts
	}

	uow := h.uowFactory.CreateForClub(scan.ClubID)
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
		h.tapInOverrideCap,
	)

	wallet, err := ledgerService.RecordTapIn(ctx, scan.UserID, entities.TapInSource(scan.Source), override, scan.Ref)
	if err != nil {
		uow.Rollback()
		if errors.Is(err, entities.ErrInvalidAmount) {
			log.WithFields(log.Fields{
				"userID": scan.UserID,
				"ref":    scan.Ref,
				"error":  err,
			}).Warn("Dropping invalid tap-in scan")
			return nil
		}
		return fmt.Errorf("failed to record tap-in: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":  scan.UserID,
		"clubID":  scan.ClubID,
		"source":  scan.Source,
		"balance": wallet.BalancePts,
	}).Info("Tap-in recorded")

	return nil
}
