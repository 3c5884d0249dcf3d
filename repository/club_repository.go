package repository

import (
	"context"
	"fmt"

	"superfan/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ClubRepository implements club pricing and reserve data access. Clubs are
// the scoping axis themselves, so the repository is unscoped.
type ClubRepository struct {
	q Queryable
}

// NewClubRepositoryWithTx creates a new club repository bound to a transaction
func NewClubRepositoryWithTx(tx Queryable) *ClubRepository {
	return &ClubRepository{q: tx}
}

const clubColumns = `id, name, point_sell_cents, point_settle_cents, guardrail_min_sell, guardrail_max_sell, guardrail_min_settle, guardrail_max_settle, reserve_cents, created_at, updated_at`

func scanClub(row pgx.Row) (*entities.Club, error) {
	var club entities.Club
	err := row.Scan(
		&club.ID,
		&club.Name,
		&club.PointSellCents,
		&club.PointSettleCents,
		&club.GuardrailMinSell,
		&club.GuardrailMaxSell,
		&club.GuardrailMinSettle,
		&club.GuardrailMaxSettle,
		&club.ReserveCents,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// GetByID retrieves a club by its ID
func (r *ClubRepository) GetByID(ctx context.Context, clubID int64) (*entities.Club, error) {
	query := fmt.Sprintf(`SELECT %s FROM clubs WHERE id = $1`, clubColumns)

	club, err := scanClub(r.q.QueryRow(ctx, query, clubID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club %d: %w", clubID, err)
	}
	return club, nil
}

// Create creates a new club
func (r *ClubRepository) Create(ctx context.Context, club *entities.Club) error {
	query := `
		INSERT INTO clubs (
			name, point_sell_cents, point_settle_cents,
			guardrail_min_sell, guardrail_max_sell, guardrail_min_settle, guardrail_max_settle
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, reserve_cents, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		club.Name,
		club.PointSellCents,
		club.PointSettleCents,
		club.GuardrailMinSell,
		club.GuardrailMaxSell,
		club.GuardrailMinSettle,
		club.GuardrailMaxSettle,
	).Scan(&club.ID, &club.ReserveCents, &club.CreatedAt, &club.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	return nil
}

// UpdatePricing persists a new sell/settle price pair
func (r *ClubRepository) UpdatePricing(ctx context.Context, clubID int64, sellCents, settleCents int64) error {
	query := `
		UPDATE clubs
		SET point_sell_cents = $1, point_settle_cents = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, sellCents, settleCents, clubID)
	if err != nil {
		return fmt.Errorf("failed to update pricing for club %d: %w", clubID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: club %d", entities.ErrClubNotFound, clubID)
	}
	return nil
}

// AddToReserve atomically increments the club's reserve accumulator
func (r *ClubRepository) AddToReserve(ctx context.Context, clubID int64, deltaCents int64) error {
	query := `
		UPDATE clubs
		SET reserve_cents = reserve_cents + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, deltaCents, clubID)
	if err != nil {
		return fmt.Errorf("failed to add to reserve for club %d: %w", clubID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: club %d", entities.ErrClubNotFound, clubID)
	}
	return nil
}
