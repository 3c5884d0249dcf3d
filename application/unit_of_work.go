package application

import (
	"context"

	"superfan/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// All repositories returned by one instance share a single database
// transaction scoped to one club.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	PointWalletRepository() interfaces.PointWalletRepository
	PointTransactionRepository() interfaces.PointTransactionRepository
	ClubRepository() interfaces.ClubRepository
	RewardRepository() interfaces.RewardRepository
	RewardRedemptionRepository() interfaces.RewardRedemptionRepository

	// EventBus returns the publisher whose events flush on commit and
	// vanish on rollback
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForClub creates a new UnitOfWork instance scoped to a specific club
	CreateForClub(clubID int64) UnitOfWork
}
