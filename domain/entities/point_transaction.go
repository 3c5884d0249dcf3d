package entities

import "time"

// PointTransaction is an immutable ledger entry. Pts is always a
// non-negative magnitude; the sign is implied by Type. Ref carries the
// idempotency key of the originating external event when one exists and is
// unique across the ledger.
type PointTransaction struct {
	ID              int64           `db:"id"`
	WalletID        int64           `db:"wallet_id"`
	ClubID          int64           `db:"club_id"`
	Type            TransactionType `db:"type"`
	Pts             int64           `db:"pts"`
	BalanceBefore   int64           `db:"balance_before"`
	BalanceAfter    int64           `db:"balance_after"`
	UnitSellCents   *int64          `db:"unit_sell_cents"`
	UnitSettleCents *int64          `db:"unit_settle_cents"`
	USDGrossCents   *int64          `db:"usd_gross_cents"`
	Ref             *string         `db:"ref"`
	Metadata        map[string]any  `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}

// SignedPts returns the balance delta this entry represents.
func (t *PointTransaction) SignedPts() int64 {
	return t.Type.SignedAmount(t.Pts)
}

// HasRef returns true when the entry carries an idempotency key.
func (t *PointTransaction) HasRef() bool {
	return t.Ref != nil && *t.Ref != ""
}

// Validate checks the internal consistency of the entry before it is
// recorded.
func (t *PointTransaction) Validate() error {
	if t.Pts < 0 {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if t.BalanceAfter != t.BalanceBefore+t.SignedPts() {
		return ErrInconsistentBalance
	}
	return nil
}
