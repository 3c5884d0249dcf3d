package entities

import "time"

// Pricing constants applied platform-wide. Guardrail validation and reserve
// accounting both depend on these fractions.
const (
	// PlatformFeeRate is the platform's cut of every point sale.
	PlatformFeeRate = 0.10

	// ReserveRatioRate is the fraction of sale proceeds withheld for the
	// redemption reserve when checking sell price solvency.
	ReserveRatioRate = 0.25

	// BreakageRate is the fraction of outstanding points assumed never to
	// be redeemed when sizing the reserve target.
	BreakageRate = 0.15

	// ReserveBufferRate is the safety margin added back on top of the
	// breakage-discounted reserve target.
	ReserveBufferRate = 0.10
)

// GuardrailBounds are the configured limits a club's pricing must fall
// within. Bounds come from platform configuration, not from the club itself.
type GuardrailBounds struct {
	MinSellCents   int64
	MaxSellCents   int64
	MinSettleCents int64
	MaxSettleCents int64
}

// DefaultGuardrailBounds returns the platform defaults used when a club has
// no bespoke bounds.
func DefaultGuardrailBounds() GuardrailBounds {
	return GuardrailBounds{
		MinSellCents:   1,
		MaxSellCents:   500,
		MinSettleCents: 1,
		MaxSettleCents: 200,
	}
}

// Club carries the pricing-relevant state of an artist club. ReserveCents
// accumulates the redemption reserve topped up on every point purchase.
type Club struct {
	ID                 int64     `db:"id"`
	Name               string    `db:"name"`
	PointSellCents     int64     `db:"point_sell_cents"`
	PointSettleCents   int64     `db:"point_settle_cents"`
	GuardrailMinSell   int64     `db:"guardrail_min_sell"`
	GuardrailMaxSell   int64     `db:"guardrail_max_sell"`
	GuardrailMinSettle int64     `db:"guardrail_min_settle"`
	GuardrailMaxSettle int64     `db:"guardrail_max_settle"`
	ReserveCents       int64     `db:"reserve_cents"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Bounds returns the club's guardrail bounds.
func (c *Club) Bounds() GuardrailBounds {
	return GuardrailBounds{
		MinSellCents:   c.GuardrailMinSell,
		MaxSellCents:   c.GuardrailMaxSell,
		MinSettleCents: c.GuardrailMinSettle,
		MaxSettleCents: c.GuardrailMaxSettle,
	}
}
