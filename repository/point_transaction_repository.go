package repository

import (
	"context"
	"fmt"

	"superfan/domain/entities"
	"superfan/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// PointTransactionRepository implements ledger entry data access
type PointTransactionRepository struct {
	q      Queryable
	clubID int64
}

// NewPointTransactionRepositoryScoped creates a new point transaction repository with club scope
func NewPointTransactionRepositoryScoped(tx Queryable, clubID int64) *PointTransactionRepository {
	return &PointTransactionRepository{
		q:      tx,
		clubID: clubID,
	}
}

// Record appends a ledger entry. An entry whose ref was already recorded
// returns entities.ErrDuplicateRef without writing anything; the conflict
// resolves inside the statement so the surrounding transaction stays usable.
func (r *PointTransactionRepository) Record(ctx context.Context, transaction *entities.PointTransaction) error {
	defer observability.MeasureQuery("point_transaction", "Record")()

	metadata := transaction.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	query := `
		INSERT INTO point_transactions (
			wallet_id, club_id, type, pts, balance_before, balance_after,
			unit_sell_cents, unit_settle_cents, usd_gross_cents, ref, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (ref) WHERE ref IS NOT NULL DO NOTHING
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transaction.WalletID,
		r.clubID,
		transaction.Type,
		transaction.Pts,
		transaction.BalanceBefore,
		transaction.BalanceAfter,
		transaction.UnitSellCents,
		transaction.UnitSettleCents,
		transaction.USDGrossCents,
		transaction.Ref,
		metadata,
	).Scan(&transaction.ID, &transaction.CreatedAt)

	if err == pgx.ErrNoRows {
		return entities.ErrDuplicateRef
	}
	if err != nil {
		return fmt.Errorf("failed to record point transaction: %w", err)
	}

	transaction.ClubID = r.clubID
	return nil
}

const transactionColumns = `id, wallet_id, club_id, type, pts, balance_before, balance_after, unit_sell_cents, unit_settle_cents, usd_gross_cents, ref, metadata, created_at`

func scanTransaction(row pgx.Row) (*entities.PointTransaction, error) {
	var transaction entities.PointTransaction
	err := row.Scan(
		&transaction.ID,
		&transaction.WalletID,
		&transaction.ClubID,
		&transaction.Type,
		&transaction.Pts,
		&transaction.BalanceBefore,
		&transaction.BalanceAfter,
		&transaction.UnitSellCents,
		&transaction.UnitSettleCents,
		&transaction.USDGrossCents,
		&transaction.Ref,
		&transaction.Metadata,
		&transaction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// GetByWallet returns the wallet's most recent ledger entries
func (r *PointTransactionRepository) GetByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.PointTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM point_transactions
		WHERE wallet_id = $1 AND club_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, transactionColumns)

	rows, err := r.q.Query(ctx, query, walletID, r.clubID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for wallet %d: %w", walletID, err)
	}
	defer rows.Close()

	var transactions []*entities.PointTransaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// GetByRef returns the ledger entry recorded under the external ref, or nil
func (r *PointTransactionRepository) GetByRef(ctx context.Context, ref string) (*entities.PointTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM point_transactions
		WHERE ref = $1 AND club_id = $2
	`, transactionColumns)

	transaction, err := scanTransaction(r.q.QueryRow(ctx, query, ref, r.clubID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by ref %s: %w", ref, err)
	}
	return transaction, nil
}
