package repository

import (
	"context"
	"fmt"

	"superfan/application"
	"superfan/database"
	"superfan/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	clubID                 int64
	transactionalPublisher interfaces.TransactionalEventPublisher
	walletRepo             interfaces.PointWalletRepository
	transactionRepo        interfaces.PointTransactionRepository
	clubRepo               interfaces.ClubRepository
	rewardRepo             interfaces.RewardRepository
	redemptionRepo         interfaces.RewardRedemptionRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db: db,
	}
}

// CreateForClubWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateForClubWithPublisher(clubID int64, transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		clubID:                 clubID,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create club-scoped repositories with the transaction
	u.walletRepo = NewPointWalletRepositoryScoped(tx, u.clubID)
	u.transactionRepo = NewPointTransactionRepositoryScoped(tx, u.clubID)
	u.clubRepo = NewClubRepositoryWithTx(tx) // Clubs are the scope axis, no scoping
	u.rewardRepo = NewRewardRepositoryScoped(tx, u.clubID)
	u.redemptionRepo = NewRewardRedemptionRepositoryScoped(tx, u.clubID)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events only after a successful commit
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// PointWalletRepository returns the wallet repository for this unit of work
func (u *unitOfWork) PointWalletRepository() interfaces.PointWalletRepository {
	u.mustBeStarted()
	return u.walletRepo
}

// PointTransactionRepository returns the ledger repository for this unit of work
func (u *unitOfWork) PointTransactionRepository() interfaces.PointTransactionRepository {
	u.mustBeStarted()
	return u.transactionRepo
}

// ClubRepository returns the club repository for this unit of work
func (u *unitOfWork) ClubRepository() interfaces.ClubRepository {
	u.mustBeStarted()
	return u.clubRepo
}

// RewardRepository returns the reward repository for this unit of work
func (u *unitOfWork) RewardRepository() interfaces.RewardRepository {
	u.mustBeStarted()
	return u.rewardRepo
}

// RewardRedemptionRepository returns the redemption repository for this unit of work
func (u *unitOfWork) RewardRedemptionRepository() interfaces.RewardRedemptionRepository {
	u.mustBeStarted()
	return u.redemptionRepo
}

// EventBus returns the transactional publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalPublisher
}

func (u *unitOfWork) mustBeStarted() {
	if u.tx == nil {
		panic("unit of work not started - call Begin() first")
	}
}
