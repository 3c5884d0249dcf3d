package repository

import (
	"context"
	"fmt"
	"time"

	"superfan/domain/entities"
	"superfan/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// RewardRedemptionRepository implements redemption record data access
type RewardRedemptionRepository struct {
	q      Queryable
	clubID int64
}

// NewRewardRedemptionRepositoryScoped creates a new redemption repository with club scope
func NewRewardRedemptionRepositoryScoped(tx Queryable, clubID int64) *RewardRedemptionRepository {
	return &RewardRedemptionRepository{
		q:      tx,
		clubID: clubID,
	}
}

const redemptionColumns = `id, reward_id, wallet_id, club_id, state, points_spent, spend_purchased, spend_earned, details, hold_expires_at, inventory_debited, created_at, updated_at`

func scanRedemption(row pgx.Row) (*entities.RewardRedemption, error) {
	var redemption entities.RewardRedemption
	err := row.Scan(
		&redemption.ID,
		&redemption.RewardID,
		&redemption.WalletID,
		&redemption.ClubID,
		&redemption.State,
		&redemption.PointsSpent,
		&redemption.SpendPurchased,
		&redemption.SpendEarned,
		&redemption.Details,
		&redemption.HoldExpiresAt,
		&redemption.InventoryDebited,
		&redemption.CreatedAt,
		&redemption.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

// Create persists a new redemption and assigns its ID
func (r *RewardRedemptionRepository) Create(ctx context.Context, redemption *entities.RewardRedemption) error {
	query := `
		INSERT INTO reward_redemptions (
			reward_id, wallet_id, club_id, state, points_spent,
			spend_purchased, spend_earned, details, hold_expires_at, inventory_debited
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		redemption.RewardID,
		redemption.WalletID,
		r.clubID,
		redemption.State,
		redemption.PointsSpent,
		redemption.SpendPurchased,
		redemption.SpendEarned,
		redemption.Details,
		redemption.HoldExpiresAt,
		redemption.InventoryDebited,
	).Scan(&redemption.ID, &redemption.CreatedAt, &redemption.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create redemption: %w", err)
	}

	redemption.ClubID = r.clubID
	return nil
}

// GetByID retrieves a redemption by its ID within this repository's club
func (r *RewardRedemptionRepository) GetByID(ctx context.Context, redemptionID int64) (*entities.RewardRedemption, error) {
	query := fmt.Sprintf(`SELECT %s FROM reward_redemptions WHERE id = $1 AND club_id = $2`, redemptionColumns)

	redemption, err := scanRedemption(r.q.QueryRow(ctx, query, redemptionID, r.clubID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption %d: %w", redemptionID, err)
	}
	return redemption, nil
}

// UpdateState moves a redemption from one state to another as a guarded
// compare-and-set. Zero affected rows means another actor moved the
// redemption first, never a silent overwrite.
func (r *RewardRedemptionRepository) UpdateState(ctx context.Context, redemptionID int64, from, to entities.RedemptionState) error {
	query := `
		UPDATE reward_redemptions
		SET state = $1, updated_at = NOW()
		WHERE id = $2 AND club_id = $3 AND state = $4
	`

	result, err := r.q.Exec(ctx, query, to, redemptionID, r.clubID, from)
	if err != nil {
		return fmt.Errorf("failed to update state for redemption %d: %w", redemptionID, err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM reward_redemptions WHERE id = $1 AND club_id = $2)`
		if err := r.q.QueryRow(ctx, checkQuery, redemptionID, r.clubID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check redemption %d: %w", redemptionID, err)
		}
		if !exists {
			return fmt.Errorf("%w: redemption %d", entities.ErrRedemptionNotFound, redemptionID)
		}
		return fmt.Errorf("%w: redemption %d is no longer %s", entities.ErrInvalidStateTransition, redemptionID, from)
	}
	return nil
}

// ListByWallet returns the wallet's most recent redemptions
func (r *RewardRedemptionRepository) ListByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.RewardRedemption, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reward_redemptions
		WHERE wallet_id = $1 AND club_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, redemptionColumns)

	rows, err := r.q.Query(ctx, query, walletID, r.clubID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions for wallet %d: %w", walletID, err)
	}
	defer rows.Close()

	return collectRedemptions(rows)
}

// ListExpiredHolds returns HELD redemptions whose hold window passed before
// now, oldest first. Scans across every club so the sweep worker can fan
// out per-club releases.
func (r *RewardRedemptionRepository) ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]*entities.RewardRedemption, error) {
	defer observability.MeasureQuery("reward_redemption", "ListExpiredHolds")()

	query := fmt.Sprintf(`
		SELECT %s FROM reward_redemptions
		WHERE state = $1 AND hold_expires_at <= $2
		ORDER BY hold_expires_at ASC
		LIMIT $3
	`, redemptionColumns)

	rows, err := r.q.Query(ctx, query, entities.RedemptionStateHeld, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired holds: %w", err)
	}
	defer rows.Close()

	return collectRedemptions(rows)
}

func collectRedemptions(rows pgx.Rows) ([]*entities.RewardRedemption, error) {
	var redemptions []*entities.RewardRedemption
	for rows.Next() {
		redemption, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}
		redemptions = append(redemptions, redemption)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate redemptions: %w", err)
	}
	return redemptions, nil
}
