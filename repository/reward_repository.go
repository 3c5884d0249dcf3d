package repository

import (
	"context"
	"fmt"

	"superfan/domain/entities"

	"github.com/jackc/pgx/v5"
)

// RewardRepository implements reward catalog data access
type RewardRepository struct {
	q      Queryable
	clubID int64
}

// NewRewardRepositoryScoped creates a new reward repository with club scope
func NewRewardRepositoryScoped(tx Queryable, clubID int64) *RewardRepository {
	return &RewardRepository{
		q:      tx,
		clubID: clubID,
	}
}

const rewardColumns = `id, club_id, kind, title, points_price, inventory, window_start, window_end, fulfillment_ref, status, created_at, updated_at`

func scanReward(row pgx.Row) (*entities.Reward, error) {
	var reward entities.Reward
	err := row.Scan(
		&reward.ID,
		&reward.ClubID,
		&reward.Kind,
		&reward.Title,
		&reward.PointsPrice,
		&reward.Inventory,
		&reward.WindowStart,
		&reward.WindowEnd,
		&reward.FulfillmentRef,
		&reward.Status,
		&reward.CreatedAt,
		&reward.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// GetByID retrieves a reward by its ID within this repository's club
func (r *RewardRepository) GetByID(ctx context.Context, rewardID int64) (*entities.Reward, error) {
	query := fmt.Sprintf(`SELECT %s FROM rewards WHERE id = $1 AND club_id = $2`, rewardColumns)

	reward, err := scanReward(r.q.QueryRow(ctx, query, rewardID, r.clubID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reward %d: %w", rewardID, err)
	}
	return reward, nil
}

// ListActiveByClub returns the club's active rewards, newest first
func (r *RewardRepository) ListActiveByClub(ctx context.Context) ([]*entities.Reward, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rewards
		WHERE club_id = $1 AND status = $2
		ORDER BY created_at DESC
	`, rewardColumns)

	rows, err := r.q.Query(ctx, query, r.clubID, entities.RewardStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards for club %d: %w", r.clubID, err)
	}
	defer rows.Close()

	var rewards []*entities.Reward
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, reward)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rewards: %w", err)
	}
	return rewards, nil
}

// Create creates a new reward in this repository's club
func (r *RewardRepository) Create(ctx context.Context, reward *entities.Reward) error {
	query := `
		INSERT INTO rewards (
			club_id, kind, title, points_price, inventory,
			window_start, window_end, fulfillment_ref, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		r.clubID,
		reward.Kind,
		reward.Title,
		reward.PointsPrice,
		reward.Inventory,
		reward.WindowStart,
		reward.WindowEnd,
		reward.FulfillmentRef,
		reward.Status,
	).Scan(&reward.ID, &reward.CreatedAt, &reward.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create reward: %w", err)
	}

	reward.ClubID = r.clubID
	return nil
}

// DecrementInventory takes one unit of a finite inventory. The guarded
// update makes concurrent redemptions of the last unit race safely: exactly
// one caller sees true. Unlimited inventory matches without decrementing.
func (r *RewardRepository) DecrementInventory(ctx context.Context, rewardID int64) (bool, error) {
	query := `
		UPDATE rewards
		SET inventory = CASE WHEN inventory IS NULL THEN NULL ELSE inventory - 1 END,
		    updated_at = NOW()
		WHERE id = $1 AND club_id = $2 AND (inventory IS NULL OR inventory > 0)
	`

	result, err := r.q.Exec(ctx, query, rewardID, r.clubID)
	if err != nil {
		return false, fmt.Errorf("failed to decrement inventory for reward %d: %w", rewardID, err)
	}
	return result.RowsAffected() > 0, nil
}

// RestoreInventory returns one unit to a finite inventory
func (r *RewardRepository) RestoreInventory(ctx context.Context, rewardID int64) error {
	query := `
		UPDATE rewards
		SET inventory = inventory + 1, updated_at = NOW()
		WHERE id = $1 AND club_id = $2 AND inventory IS NOT NULL
	`

	if _, err := r.q.Exec(ctx, query, rewardID, r.clubID); err != nil {
		return fmt.Errorf("failed to restore inventory for reward %d: %w", rewardID, err)
	}
	return nil
}
