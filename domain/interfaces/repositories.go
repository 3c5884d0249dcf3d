package interfaces

import (
	"context"
	"time"

	"superfan/domain/entities"
	"superfan/domain/events"
)

// PointWalletRepository defines the interface for wallet data access.
// Implementations are scoped to a single club except where noted.
type PointWalletRepository interface {
	// GetByUser retrieves the wallet for a user in the current club, or nil
	// when none exists yet
	GetByUser(ctx context.Context, userID int64) (*entities.PointWallet, error)

	// GetByID retrieves a wallet by its ID
	GetByID(ctx context.Context, walletID int64) (*entities.PointWallet, error)

	// GetByIDForUpdate retrieves a wallet by its ID under a row lock, so a
	// balance snapshot taken for the ledger stays serialized with the
	// increment that follows it inside the same transaction
	GetByIDForUpdate(ctx context.Context, walletID int64) (*entities.PointWallet, error)

	// GetOrCreate fetches the user's wallet, creating it if missing. Racing
	// creations must resolve through the storage uniqueness constraint so
	// exactly one wallet survives. The bool reports whether a row was created.
	GetOrCreate(ctx context.Context, userID int64) (*entities.PointWallet, bool, error)

	// ApplyDelta atomically increments the wallet's balance and sub-ledgers
	// and stamps last_activity_at, returning the updated wallet. Returns
	// ErrWalletNotFound for an unknown ID.
	ApplyDelta(ctx context.Context, walletID int64, deltaBalance, deltaEarned, deltaPurchased int64) (*entities.PointWallet, error)

	// ListByUser returns all of a user's wallets across clubs, for global
	// balance aggregation. Not scoped to the current club.
	ListByUser(ctx context.Context, userID int64) ([]*entities.PointWallet, error)

	// TotalOutstandingByClub returns the sum of balances across the current
	// club's wallets, the club's outstanding point liability
	TotalOutstandingByClub(ctx context.Context) (int64, error)
}

// PointTransactionRepository defines the interface for the append-only
// ledger log
type PointTransactionRepository interface {
	// Record appends a ledger entry. A colliding idempotency ref returns
	// ErrDuplicateRef.
	Record(ctx context.Context, transaction *entities.PointTransaction) error

	// GetByWallet returns the most recent entries for a wallet
	GetByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.PointTransaction, error)

	// GetByRef returns the entry recorded under an idempotency ref, or nil
	GetByRef(ctx context.Context, ref string) (*entities.PointTransaction, error)
}

// ClubRepository defines the interface for club pricing and reserve data
type ClubRepository interface {
	// GetByID retrieves a club by its ID, or nil when unknown
	GetByID(ctx context.Context, clubID int64) (*entities.Club, error)

	// Create creates a new club
	Create(ctx context.Context, club *entities.Club) error

	// UpdatePricing persists a validated sell/settle price pair
	UpdatePricing(ctx context.Context, clubID int64, sellCents, settleCents int64) error

	// AddToReserve atomically increments the club's reserve accumulator
	AddToReserve(ctx context.Context, clubID int64, deltaCents int64) error
}

// RewardRepository defines the interface for reward catalog data
type RewardRepository interface {
	// GetByID retrieves a reward by its ID, or nil when unknown
	GetByID(ctx context.Context, rewardID int64) (*entities.Reward, error)

	// ListActiveByClub returns the active rewards for the current club
	ListActiveByClub(ctx context.Context) ([]*entities.Reward, error)

	// Create creates a new reward
	Create(ctx context.Context, reward *entities.Reward) error

	// DecrementInventory takes one unit of a finite inventory. The bool is
	// false when stock was already exhausted; unlimited inventory always
	// succeeds without a decrement.
	DecrementInventory(ctx context.Context, rewardID int64) (bool, error)

	// RestoreInventory returns one unit to a finite inventory
	RestoreInventory(ctx context.Context, rewardID int64) error
}

// RewardRedemptionRepository defines the interface for redemption records
type RewardRedemptionRepository interface {
	// Create persists a new redemption and assigns its ID
	Create(ctx context.Context, redemption *entities.RewardRedemption) error

	// GetByID retrieves a redemption by its ID, or nil when unknown
	GetByID(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error)

	// UpdateState moves a redemption from one state to another as a guarded
	// compare-and-set. Returns ErrInvalidStateTransition when the redemption
	// is no longer in the expected state.
	UpdateState(ctx context.Context, redemptionID int64, from, to entities.RedemptionState) error

	// ListByWallet returns the most recent redemptions for a wallet
	ListByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.RewardRedemption, error)

	// ListExpiredHolds returns HELD redemptions whose hold window passed
	// before now, oldest first
	ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]*entities.RewardRedemption, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes an event
	Publish(event events.Event) error
}

// TransactionalEventPublisher extends EventPublisher with transaction
// lifecycle hooks: events queue until Flush after a successful commit and
// are dropped by Discard on rollback
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events
	Flush(ctx context.Context) error

	// Discard drops all pending events without publishing
	Discard()
}
