package application

import (
	"context"
	"fmt"

	"superfan/domain/entities"
	"superfan/domain/events"

	log "github.com/sirupsen/logrus"
)

// statusChangeEventHandler implements the StatusChangeHandler interface
type statusChangeEventHandler struct {
	uowFactory UnitOfWorkFactory
}

// NewStatusChangeHandler creates a new StatusChangeHandler
func NewStatusChangeHandler(uowFactory UnitOfWorkFactory) StatusChangeHandler {
	return &statusChangeEventHandler{
		uowFactory: uowFactory,
	}
}

// HandleStatusChange handles StatusChangedEvent and logs the fan's new
// standing with progress toward the next tier, so support can trace tier
// movement questions from the service logs alone.
func (h *statusChangeEventHandler) HandleStatusChange(ctx context.Context, event interface{}) error {
	e, err := AssertEventType[*events.StatusChangedEvent](event, "StatusChangedEvent")
	if err != nil {
		return err
	}

	log.Infof("StatusChangeEventHandler: handling status change for wallet %d (tier: %s -> %s)",
		e.WalletID, e.OldStatus, e.NewStatus)

	// Create club-scoped unit of work using ClubID from event
	uow := h.uowFactory.CreateForClub(e.ClubID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wallet, err := uow.PointWalletRepository().GetByID(ctx, e.WalletID)
	if err != nil {
		return fmt.Errorf("failed to get wallet for ID %d: %w", e.WalletID, err)
	}

	if wallet == nil {
		return fmt.Errorf("wallet with ID %d not found", e.WalletID)
	}

	// We don't need to commit this transaction since we're only reading
	// But we need to properly close it
	if err := uow.Commit(); err != nil {
		log.Warnf("Failed to commit read-only transaction for wallet %d: %v", e.WalletID, err)
	}

	progress := entities.CalculateStatusProgress(wallet.StatusPoints(0))

	fields := log.Fields{
		"userID":    e.UserID,
		"clubID":    e.ClubID,
		"walletID":  e.WalletID,
		"oldStatus": e.OldStatus,
		"newStatus": e.NewStatus,
	}
	if progress.Next != nil {
		fields["nextStatus"] = *progress.Next
		fields["pointsToNext"] = progress.PointsToNext
	}

	if e.NewStatus.Threshold() > e.OldStatus.Threshold() {
		log.WithFields(fields).Info("Fan reached a new status tier")
	} else {
		log.WithFields(fields).Info("Fan dropped a status tier")
	}

	return nil
}
