package testhelpers

import (
	"context"
	"time"

	"superfan/domain/entities"
	"superfan/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockPointWalletRepository is a mock implementation of PointWalletRepository
type MockPointWalletRepository struct {
	mock.Mock
}

func (m *MockPointWalletRepository) GetByUser(ctx context.Context, userID int64) (*entities.PointWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PointWallet), args.Error(1)
}

func (m *MockPointWalletRepository) GetByID(ctx context.Context, walletID int64) (*entities.PointWallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PointWallet), args.Error(1)
}

func (m *MockPointWalletRepository) GetByIDForUpdate(ctx context.Context, walletID int64) (*entities.PointWallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PointWallet), args.Error(1)
}

func (m *MockPointWalletRepository) GetOrCreate(ctx context.Context, userID int64) (*entities.PointWallet, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.PointWallet), args.Bool(1), args.Error(2)
}

func (m *MockPointWalletRepository) ApplyDelta(ctx context.Context, walletID int64, deltaBalance, deltaEarned, deltaPurchased int64) (*entities.PointWallet, error) {
	args := m.Called(ctx, walletID, deltaBalance, deltaEarned, deltaPurchased)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PointWallet), args.Error(1)
}

func (m *MockPointWalletRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.PointWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PointWallet), args.Error(1)
}

func (m *MockPointWalletRepository) TotalOutstandingByClub(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPointTransactionRepository is a mock implementation of PointTransactionRepository
type MockPointTransactionRepository struct {
	mock.Mock
}

func (m *MockPointTransactionRepository) Record(ctx context.Context, transaction *entities.PointTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockPointTransactionRepository) GetByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.PointTransaction, error) {
	args := m.Called(ctx, walletID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PointTransaction), args.Error(1)
}

func (m *MockPointTransactionRepository) GetByRef(ctx context.Context, ref string) (*entities.PointTransaction, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PointTransaction), args.Error(1)
}

// MockClubRepository is a mock implementation of ClubRepository
type MockClubRepository struct {
	mock.Mock
}

func (m *MockClubRepository) GetByID(ctx context.Context, clubID int64) (*entities.Club, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Club), args.Error(1)
}

func (m *MockClubRepository) Create(ctx context.Context, club *entities.Club) error {
	args := m.Called(ctx, club)
	return args.Error(0)
}

func (m *MockClubRepository) UpdatePricing(ctx context.Context, clubID int64, sellCents, settleCents int64) error {
	args := m.Called(ctx, clubID, sellCents, settleCents)
	return args.Error(0)
}

func (m *MockClubRepository) AddToReserve(ctx context.Context, clubID int64, deltaCents int64) error {
	args := m.Called(ctx, clubID, deltaCents)
	return args.Error(0)
}

// MockRewardRepository is a mock implementation of RewardRepository
type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) GetByID(ctx context.Context, rewardID int64) (*entities.Reward, error) {
	args := m.Called(ctx, rewardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reward), args.Error(1)
}

func (m *MockRewardRepository) ListActiveByClub(ctx context.Context) ([]*entities.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reward), args.Error(1)
}

func (m *MockRewardRepository) Create(ctx context.Context, reward *entities.Reward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockRewardRepository) DecrementInventory(ctx context.Context, rewardID int64) (bool, error) {
	args := m.Called(ctx, rewardID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRewardRepository) RestoreInventory(ctx context.Context, rewardID int64) error {
	args := m.Called(ctx, rewardID)
	return args.Error(0)
}

// MockRewardRedemptionRepository is a mock implementation of RewardRedemptionRepository
type MockRewardRedemptionRepository struct {
	mock.Mock
}

func (m *MockRewardRedemptionRepository) Create(ctx context.Context, redemption *entities.RewardRedemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

func (m *MockRewardRedemptionRepository) GetByID(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error) {
	args := m.Called(ctx, redemptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RewardRedemption), args.Error(1)
}

func (m *MockRewardRedemptionRepository) UpdateState(ctx context.Context, redemptionID int64, from, to entities.RedemptionState) error {
	args := m.Called(ctx, redemptionID, from, to)
	return args.Error(0)
}

func (m *MockRewardRedemptionRepository) ListByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.RewardRedemption, error) {
	args := m.Called(ctx, walletID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RewardRedemption), args.Error(1)
}

func (m *MockRewardRedemptionRepository) ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]*entities.RewardRedemption, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RewardRedemption), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// RecordingEventPublisher collects published events for assertions. It
// implements TransactionalEventPublisher so unit of work tests can observe
// flush and discard behavior without a broker.
type RecordingEventPublisher struct {
	Pending []events.Event
	Flushed []events.Event
}

func (p *RecordingEventPublisher) Publish(event events.Event) error {
	p.Pending = append(p.Pending, event)
	return nil
}

func (p *RecordingEventPublisher) Flush(ctx context.Context) error {
	p.Flushed = append(p.Flushed, p.Pending...)
	p.Pending = nil
	return nil
}

func (p *RecordingEventPublisher) Discard() {
	p.Pending = nil
}
