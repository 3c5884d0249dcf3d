package entities

// DisplayPointsPerUSD is the fixed display peg: 100 points render as $1.
// It is a UI convention only and is independent of any club's pricing.
const DisplayPointsPerUSD int64 = 100

// ClubWalletSummary is one club's slice of a fan's global balance.
type ClubWalletSummary struct {
	ClubID       int64
	WalletID     int64
	BalancePts   int64
	EarnedPts    int64
	PurchasedPts int64
	Status       StatusTier
}

// GlobalBalance aggregates a fan's wallets across every club
type GlobalBalance struct {
	UserID        int64
	TotalPts      int64
	EarnedPts     int64
	PurchasedPts  int64
	SpentPts      int64
	USDValueCents int64
	Clubs         []ClubWalletSummary
}

// ClubReserveSummary reports a club's redemption-reserve position
type ClubReserveSummary struct {
	ClubID         int64
	OutstandingPts int64
	TargetCents    int64
	ReserveCents   int64
	CoverageRatio  float64
}
