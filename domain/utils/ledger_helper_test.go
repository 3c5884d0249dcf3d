package utils

import (
	"context"
	"testing"

	"superfan/domain/entities"
	"superfan/domain/events"
	"superfan/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestRecordPointsChange tests that ledger entries are recorded and events are published
func TestRecordPointsChange(t *testing.T) {
	ctx := context.Background()

	mockTransactionRepo := new(testhelpers.MockPointTransactionRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	mockTransactionRepo.On("Record", ctx, mock.Anything).Return(nil)
	mockEventPublisher.On("Publish", mock.MatchedBy(func(event interface{}) bool {
		_, ok := event.(events.PointsBalanceChangedEvent)
		return ok
	})).Return(nil)

	before := &entities.PointWallet{
		ID:         1,
		UserID:     123456,
		ClubID:     789,
		BalancePts: 1000,
		EarnedPts:  1000,
	}
	after := &entities.PointWallet{
		ID:         1,
		UserID:     123456,
		ClubID:     789,
		BalancePts: 1020,
		EarnedPts:  1020,
	}
	transaction := &entities.PointTransaction{
		WalletID:      1,
		Type:          entities.TransactionTypeBonus,
		Pts:           20,
		BalanceBefore: 1000,
		BalanceAfter:  1020,
	}

	err := RecordPointsChange(ctx, mockTransactionRepo, mockEventPublisher, before, after, transaction)
	assert.NoError(t, err)

	mockTransactionRepo.AssertExpectations(t)
	mockEventPublisher.AssertExpectations(t)
}

// TestRecordPointsChangeStatusEvent tests that crossing a tier threshold publishes a status change
func TestRecordPointsChangeStatusEvent(t *testing.T) {
	ctx := context.Background()

	mockTransactionRepo := new(testhelpers.MockPointTransactionRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	mockTransactionRepo.On("Record", ctx, mock.Anything).Return(nil)
	// Expect both the balance change and the status change
	mockEventPublisher.On("Publish", mock.MatchedBy(func(event interface{}) bool {
		_, ok := event.(events.PointsBalanceChangedEvent)
		return ok
	})).Return(nil)
	mockEventPublisher.On("Publish", mock.MatchedBy(func(event interface{}) bool {
		statusEvent, ok := event.(events.StatusChangedEvent)
		if !ok {
			return false
		}
		return statusEvent.OldStatus == entities.StatusTierCadet &&
			statusEvent.NewStatus == entities.StatusTierResident
	})).Return(nil)

	before := &entities.PointWallet{
		ID:         1,
		UserID:     123456,
		ClubID:     789,
		BalancePts: 4990,
		EarnedPts:  4990,
	}
	after := &entities.PointWallet{
		ID:         1,
		UserID:     123456,
		ClubID:     789,
		BalancePts: 5010,
		EarnedPts:  5010,
	}
	transaction := &entities.PointTransaction{
		WalletID:      1,
		Type:          entities.TransactionTypeBonus,
		Pts:           20,
		BalanceBefore: 4990,
		BalanceAfter:  5010,
	}

	err := RecordPointsChange(ctx, mockTransactionRepo, mockEventPublisher, before, after, transaction)
	assert.NoError(t, err)

	mockTransactionRepo.AssertExpectations(t)
	mockEventPublisher.AssertExpectations(t)
}

// TestRecordPointsChangePurchaseKeepsStatus tests that purchased points never move the tier
func TestRecordPointsChangePurchaseKeepsStatus(t *testing.T) {
	ctx := context.Background()

	mockTransactionRepo := new(testhelpers.MockPointTransactionRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	mockTransactionRepo.On("Record", ctx, mock.Anything).Return(nil)
	mockEventPublisher.On("Publish", mock.MatchedBy(func(event interface{}) bool {
		_, ok := event.(events.PointsBalanceChangedEvent)
		return ok
	})).Return(nil)

	// A large purchase that would cross a threshold if purchased points counted
	before := &entities.PointWallet{
		ID:         1,
		UserID:     123456,
		ClubID:     789,
		BalancePts: 100,
		EarnedPts:  100,
	}
	after := &entities.PointWallet{
		ID:           1,
		UserID:       123456,
		ClubID:       789,
		BalancePts:   10100,
		EarnedPts:    100,
		PurchasedPts: 10000,
	}
	transaction := &entities.PointTransaction{
		WalletID:      1,
		Type:          entities.TransactionTypePurchase,
		Pts:           10000,
		BalanceBefore: 100,
		BalanceAfter:  10100,
	}

	err := RecordPointsChange(ctx, mockTransactionRepo, mockEventPublisher, before, after, transaction)
	assert.NoError(t, err)

	mockTransactionRepo.AssertExpectations(t)
	mockEventPublisher.AssertExpectations(t)
	// No StatusChangedEvent expectation was registered, so AssertExpectations
	// above would fail if one had been published.
	assert.Len(t, mockEventPublisher.Calls, 1)
}

// TestRecordPointsChangeInvalidTransaction tests that inconsistent entries are rejected before recording
func TestRecordPointsChangeInvalidTransaction(t *testing.T) {
	ctx := context.Background()

	mockTransactionRepo := new(testhelpers.MockPointTransactionRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	before := &entities.PointWallet{ID: 1, BalancePts: 1000, EarnedPts: 1000}
	after := &entities.PointWallet{ID: 1, BalancePts: 1500, EarnedPts: 1500}
	transaction := &entities.PointTransaction{
		WalletID:      1,
		Type:          entities.TransactionTypeBonus,
		Pts:           500,
		BalanceBefore: 1000,
		BalanceAfter:  9999,
	}

	err := RecordPointsChange(ctx, mockTransactionRepo, mockEventPublisher, before, after, transaction)
	assert.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInconsistentBalance)

	mockTransactionRepo.AssertNotCalled(t, "Record")
	mockEventPublisher.AssertNotCalled(t, "Publish")
}

// TestRecordPointsChangeRepositoryError tests error handling when the ledger write fails
func TestRecordPointsChangeRepositoryError(t *testing.T) {
	ctx := context.Background()

	mockTransactionRepo := new(testhelpers.MockPointTransactionRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	mockTransactionRepo.On("Record", ctx, mock.Anything).Return(assert.AnError)

	before := &entities.PointWallet{ID: 1, BalancePts: 1000, EarnedPts: 1000}
	after := &entities.PointWallet{ID: 1, BalancePts: 1100, EarnedPts: 1100}
	transaction := &entities.PointTransaction{
		WalletID:      1,
		Type:          entities.TransactionTypeBonus,
		Pts:           100,
		BalanceBefore: 1000,
		BalanceAfter:  1100,
	}

	err := RecordPointsChange(ctx, mockTransactionRepo, mockEventPublisher, before, after, transaction)
	assert.Error(t, err)

	// Events should not be published when the ledger write fails
	mockEventPublisher.AssertNotCalled(t, "Publish")
	mockTransactionRepo.AssertExpectations(t)
}

// TestRecordPointsChangeDuplicateRef tests that a duplicate idempotency ref passes through unwrapped
func TestRecordPointsChangeDuplicateRef(t *testing.T) {
	ctx := context.Background()

	mockTransactionRepo := new(testhelpers.MockPointTransactionRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	mockTransactionRepo.On("Record", ctx, mock.Anything).Return(entities.ErrDuplicateRef)

	ref := "scan-abc-123"
	before := &entities.PointWallet{ID: 1, BalancePts: 1000, EarnedPts: 1000}
	after := &entities.PointWallet{ID: 1, BalancePts: 1020, EarnedPts: 1020}
	transaction := &entities.PointTransaction{
		WalletID:      1,
		Type:          entities.TransactionTypeBonus,
		Pts:           20,
		BalanceBefore: 1000,
		BalanceAfter:  1020,
		Ref:           &ref,
	}

	err := RecordPointsChange(ctx, mockTransactionRepo, mockEventPublisher, before, after, transaction)
	assert.ErrorIs(t, err, entities.ErrDuplicateRef)

	mockEventPublisher.AssertNotCalled(t, "Publish")
}
