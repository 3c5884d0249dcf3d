package utils

import (
	"context"
	"fmt"

	"superfan/domain/entities"
	"superfan/domain/events"
	"superfan/domain/interfaces"
	log "github.com/sirupsen/logrus"
)

// RecordPointsChange appends a ledger entry and emits the events that follow
// from it. This is the single entry point for all wallet mutations in the
// system: the transaction must already reflect the move from before to after.
func RecordPointsChange(ctx context.Context, transactionRepo interfaces.PointTransactionRepository, eventPublisher interfaces.EventPublisher, before, after *entities.PointWallet, transaction *entities.PointTransaction) error {
	if err := transaction.Validate(); err != nil {
		return fmt.Errorf("invalid point transaction: %w", err)
	}

	// Record the ledger entry. A duplicate idempotency ref surfaces here
	// as entities.ErrDuplicateRef and the caller decides what to do.
	if err := transactionRepo.Record(ctx, transaction); err != nil {
		return fmt.Errorf("failed to record point transaction: %w", err)
	}

	// Emit balance change event
	event := events.PointsBalanceChangedEvent{
		WalletID:        after.ID,
		UserID:          after.UserID,
		ClubID:          after.ClubID,
		OldBalance:      transaction.BalanceBefore,
		NewBalance:      transaction.BalanceAfter,
		ChangeAmount:    transaction.SignedPts(),
		TransactionType: transaction.Type,
	}
	log.WithFields(log.Fields{
		"walletID":        event.WalletID,
		"userID":          event.UserID,
		"clubID":          event.ClubID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"changeAmount":    event.ChangeAmount,
		"transactionType": event.TransactionType,
	}).Debug("Publishing PointsBalanceChangedEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish points balance changed event")
	}

	// Also emit a status change event when the mutation crossed a tier
	// threshold. Status derives from earned points only, so purchases never
	// trigger this.
	oldStatus := before.Status(0)
	newStatus := after.Status(0)
	if oldStatus != newStatus {
		statusEvent := events.StatusChangedEvent{
			WalletID:  after.ID,
			UserID:    after.UserID,
			ClubID:    after.ClubID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		}
		log.WithFields(log.Fields{
			"walletID":  after.ID,
			"userID":    after.UserID,
			"oldStatus": oldStatus,
			"newStatus": newStatus,
		}).Info("Status tier changed")
		if err := eventPublisher.Publish(statusEvent); err != nil {
			log.WithError(err).Error("Failed to publish status changed event")
		}
	}

	return nil
}
