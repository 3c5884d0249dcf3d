package dto

import "time"

// TapInScanDTO represents a fan check-in reported by the scanner service.
// Point counts arrive as float64 because the payload is JSON; handlers
// validate before narrowing.
type TapInScanDTO struct {
	UserID         int64     `json:"user_id"`
	ClubID         int64     `json:"club_id"`
	Source         string    `json:"source"`
	PointsOverride *float64  `json:"points_override,omitempty"`
	Ref            string    `json:"ref"`
	ScannedAt      time.Time `json:"scanned_at"`
}

// PurchaseVerifiedDTO represents a point purchase confirmed by the payment
// webhook service. Unit prices are the club's pricing at the time of sale.
type PurchaseVerifiedDTO struct {
	UserID          int64     `json:"user_id"`
	ClubID          int64     `json:"club_id"`
	Points          float64   `json:"points"`
	BonusPoints     float64   `json:"bonus_points"`
	USDGrossCents   int64     `json:"usd_gross_cents"`
	UnitSellCents   int64     `json:"unit_sell_cents"`
	UnitSettleCents int64     `json:"unit_settle_cents"`
	Ref             string    `json:"ref"`
	VerifiedAt      time.Time `json:"verified_at"`
}
