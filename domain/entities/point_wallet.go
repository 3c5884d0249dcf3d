package entities

import "time"

// PointWallet holds a fan's point balances within a single club. There is
// exactly one wallet per (user, club) pair, created lazily on first tap-in
// or purchase. EarnedPts and PurchasedPts are lifetime sub-ledgers; only
// BalancePts decreases when points are spent, so the remaining split is
// derived rather than stored.
type PointWallet struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	ClubID         int64     `db:"club_id"`
	BalancePts     int64     `db:"balance_pts"`
	EarnedPts      int64     `db:"earned_pts"`
	PurchasedPts   int64     `db:"purchased_pts"`
	LastActivityAt time.Time `db:"last_activity_at"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// SpentPts returns the lifetime total of points spent from this wallet.
func (w *PointWallet) SpentPts() int64 {
	spent := w.EarnedPts + w.PurchasedPts - w.BalancePts
	if spent < 0 {
		return 0
	}
	return spent
}

// PurchasedRemaining returns the purchased points still spendable. Spends
// consume purchased points first, so the lifetime spend total is charged
// against the purchased sub-ledger before touching earned points.
func (w *PointWallet) PurchasedRemaining() int64 {
	remaining := w.PurchasedPts - w.SpentPts()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EarnedRemaining returns the earned points still spendable.
func (w *PointWallet) EarnedRemaining() int64 {
	remaining := w.BalancePts - w.PurchasedRemaining()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StatusPoints returns the points that count toward tier standing: earned
// points still held, minus anything escrowed outside the wallet.
func (w *PointWallet) StatusPoints(escrowedPts int64) int64 {
	pts := w.EarnedRemaining() - escrowedPts
	if pts < 0 {
		return 0
	}
	return pts
}

// Status returns the wallet's current tier given externally escrowed points.
func (w *PointWallet) Status(escrowedPts int64) StatusTier {
	return ComputeStatus(w.StatusPoints(escrowedPts))
}

// HasSufficientBalance checks the raw balance against an amount, before any
// status-protection math.
func (w *PointWallet) HasSufficientBalance(amount int64) bool {
	return w.BalancePts >= amount
}
