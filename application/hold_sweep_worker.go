package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"superfan/domain/entities"
	"superfan/domain/services"

	log "github.com/sirupsen/logrus"
)

// holdSweepBatchSize caps how many expired holds a single sweep picks up.
// Anything beyond the cap waits for the next interval.
const holdSweepBatchSize = 100

// HoldSweepWorker releases presale holds whose window lapsed without a
// confirmation, refunding the points and restoring any inventory debit
type HoldSweepWorker struct {
	uowFactory UnitOfWorkFactory
	interval   time.Duration
	holdTTL    time.Duration
}

// NewHoldSweepWorker creates a new hold sweep worker
func NewHoldSweepWorker(uowFactory UnitOfWorkFactory, interval, holdTTL time.Duration) *HoldSweepWorker {
	return &HoldSweepWorker{
		uowFactory: uowFactory,
		interval:   interval,
		holdTTL:    holdTTL,
	}
}

// Start begins the hold sweep worker
func (w *HoldSweepWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	// Start the worker goroutine
	go func() {
		log.Infof("Hold sweep worker started, sweeping every %v", w.interval)

		for {
			if err := w.releaseExpiredHolds(ctx); err != nil {
				log.Errorf("Error releasing expired holds: %v", err)
			}

			select {
			case <-ctx.Done():
				log.Info("Hold sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Hold sweep worker shutting down (stop requested)...")
				return
			case <-time.After(w.interval):
				// Timer fired, loop to sweep
			}
		}
	}()

	// Return cleanup function
	return func() {
		close(stopChan)
	}
}

// releaseExpiredHolds refunds every HELD redemption whose hold window has
// passed, each in its own transaction
func (w *HoldSweepWorker) releaseExpiredHolds(ctx context.Context) error {
	// Create a simple UoW just to query expired holds across all clubs
	uow := w.uowFactory.CreateForClub(0) // 0 clubID for cross-club query
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	expired, err := uow.RewardRedemptionRepository().ListExpiredHolds(ctx, time.Now().UTC(), holdSweepBatchSize)
	if err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to list expired holds: %w", err)
	}
	uow.Rollback() // Close the read transaction

	if len(expired) == 0 {
		log.Debug("No expired holds to release")
		return nil
	}

	log.Infof("Found %d expired holds to release", len(expired))

	// Track results
	var successCount, failureCount int

	// Refund each hold in its own transaction
	for _, redemption := range expired {
		if err := w.refundExpiredHold(ctx, redemption); err != nil {
			log.Errorf("Error refunding expired hold %d for club %d: %v", redemption.ID, redemption.ClubID, err)
			failureCount++
		} else {
			successCount++
		}
	}

	log.WithFields(log.Fields{
		"total_holds": len(expired),
		"successful":  successCount,
		"failed":      failureCount,
	}).Info("Completed expired hold release")

	return nil
}

// refundExpiredHold refunds a single expired hold
func (w *HoldSweepWorker) refundExpiredHold(ctx context.Context, redemption *entities.RewardRedemption) error {
	// Create UoW for this club
	uow := w.uowFactory.CreateForClub(redemption.ClubID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	redemptionService := services.NewRedemptionService(
		uow.PointWalletRepository(),
		uow.PointTransactionRepository(),
		uow.RewardRepository(),
		uow.RewardRedemptionRepository(),
		uow.EventBus(),
		w.holdTTL,
	)

	refunded, err := redemptionService.RefundRedemption(ctx, redemption.ID)
	if err != nil {
		// The hold was resolved between the read and this transaction
		if errors.Is(err, entities.ErrInvalidStateTransition) {
			log.WithFields(log.Fields{
				"redemptionID": redemption.ID,
			}).Info("Expired hold already resolved, skipping")
			return nil
		}
		return fmt.Errorf("failed to refund redemption: %w", err)
	}

	// Commit the transaction
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"redemption_id": refunded.ID,
		"club_id":       redemption.ClubID,
		"wallet_id":     refunded.WalletID,
		"points":        refunded.PointsSpent,
		"source":        "hold_sweep",
	}).Info("Expired hold refunded")

	return nil
}
