package repository

import (
	"context"
	"fmt"

	"superfan/domain/entities"
	"superfan/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// PointWalletRepository implements point wallet data access
type PointWalletRepository struct {
	q      Queryable
	clubID int64
}

// NewPointWalletRepositoryScoped creates a new point wallet repository with club scope
func NewPointWalletRepositoryScoped(tx Queryable, clubID int64) *PointWalletRepository {
	return &PointWalletRepository{
		q:      tx,
		clubID: clubID,
	}
}

const walletColumns = `id, user_id, club_id, balance_pts, earned_pts, purchased_pts, last_activity_at, created_at, updated_at`

func scanWallet(row pgx.Row) (*entities.PointWallet, error) {
	var wallet entities.PointWallet
	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.ClubID,
		&wallet.BalancePts,
		&wallet.EarnedPts,
		&wallet.PurchasedPts,
		&wallet.LastActivityAt,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetByUser retrieves the user's wallet in this repository's club
func (r *PointWalletRepository) GetByUser(ctx context.Context, userID int64) (*entities.PointWallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM point_wallets WHERE user_id = $1 AND club_id = $2`, walletColumns)

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, userID, r.clubID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	return wallet, nil
}

// GetByID retrieves a wallet by its ID within this repository's club
func (r *PointWalletRepository) GetByID(ctx context.Context, walletID int64) (*entities.PointWallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM point_wallets WHERE id = $1 AND club_id = $2`, walletColumns)

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, walletID, r.clubID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet %d: %w", walletID, err)
	}
	return wallet, nil
}

// GetByIDForUpdate retrieves a wallet by its ID and takes a row lock, so
// the balance snapshot recorded in the ledger stays serialized with the
// increment that follows it.
func (r *PointWalletRepository) GetByIDForUpdate(ctx context.Context, walletID int64) (*entities.PointWallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM point_wallets WHERE id = $1 AND club_id = $2 FOR UPDATE`, walletColumns)

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, walletID, r.clubID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet %d: %w", walletID, err)
	}
	return wallet, nil
}

// GetOrCreate returns the user's wallet, creating an empty one on first
// contact. The second return reports whether a new wallet was created.
func (r *PointWalletRepository) GetOrCreate(ctx context.Context, userID int64) (*entities.PointWallet, bool, error) {
	existing, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	// Concurrent first tap-ins race here; the loser of the unique
	// constraint falls back to the winner's row.
	query := fmt.Sprintf(`
		INSERT INTO point_wallets (user_id, club_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, club_id) DO NOTHING
		RETURNING %s
	`, walletColumns)

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, userID, r.clubID))
	if err == pgx.ErrNoRows {
		wallet, err := r.GetByUser(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if wallet == nil {
			return nil, false, fmt.Errorf("wallet for user %d vanished after conflict", userID)
		}
		return wallet, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create wallet for user %d: %w", userID, err)
	}
	return wallet, true, nil
}

// ApplyDelta atomically moves the wallet's balance and lifetime sub-ledgers
// and returns the updated row. The balance check constraint refuses
// overdrafts at the database level.
func (r *PointWalletRepository) ApplyDelta(ctx context.Context, walletID int64, deltaBalance, deltaEarned, deltaPurchased int64) (*entities.PointWallet, error) {
	defer observability.MeasureQuery("point_wallet", "ApplyDelta")()

	query := fmt.Sprintf(`
		UPDATE point_wallets
		SET balance_pts = balance_pts + $1,
		    earned_pts = earned_pts + $2,
		    purchased_pts = purchased_pts + $3,
		    last_activity_at = NOW(),
		    updated_at = NOW()
		WHERE id = $4 AND club_id = $5
		RETURNING %s
	`, walletColumns)

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, deltaBalance, deltaEarned, deltaPurchased, walletID, r.clubID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%w: wallet %d", entities.ErrWalletNotFound, walletID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply delta to wallet %d: %w", walletID, err)
	}
	return wallet, nil
}

// ListByUser returns all of the user's wallets across every club, ignoring
// this repository's club scope. Used for the global balance view.
func (r *PointWalletRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.PointWallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM point_wallets WHERE user_id = $1 ORDER BY club_id`, walletColumns)

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets for user %d: %w", userID, err)
	}
	defer rows.Close()

	var wallets []*entities.PointWallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallets: %w", err)
	}
	return wallets, nil
}

// TotalOutstandingByClub sums the circulating point balances in this
// repository's club. Reserve coverage is computed against this figure.
func (r *PointWalletRepository) TotalOutstandingByClub(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(balance_pts), 0) FROM point_wallets WHERE club_id = $1`

	var total int64
	if err := r.q.QueryRow(ctx, query, r.clubID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum outstanding points for club %d: %w", r.clubID, err)
	}
	return total, nil
}
