package entities

import "time"

// RedemptionState tracks a redemption through its lifecycle. Transitions
// are one-directional: HELD -> CONFIRMED -> FULFILLED, with HELD and
// CONFIRMED able to move to REFUNDED. FULFILLED and REFUNDED are terminal;
// a fulfilled reward is consumed and cannot be refunded.
type RedemptionState string

const (
	RedemptionStateHeld      RedemptionState = "HELD"
	RedemptionStateConfirmed RedemptionState = "CONFIRMED"
	RedemptionStateFulfilled RedemptionState = "FULFILLED"
	RedemptionStateRefunded  RedemptionState = "REFUNDED"
)

// IsTerminal returns true for states with no outgoing transitions.
func (s RedemptionState) IsTerminal() bool {
	return s == RedemptionStateFulfilled || s == RedemptionStateRefunded
}

// CanTransitionTo reports whether the state machine allows moving from s to
// next.
func (s RedemptionState) CanTransitionTo(next RedemptionState) bool {
	switch s {
	case RedemptionStateHeld:
		return next == RedemptionStateConfirmed || next == RedemptionStateRefunded
	case RedemptionStateConfirmed:
		return next == RedemptionStateFulfilled || next == RedemptionStateRefunded
	}
	return false
}

// AccessDetails describe an ACCESS redemption: what the fan unlocked.
type AccessDetails struct {
	ContentRef string `json:"content_ref"`
}

// PresaleLockDetails describe a PRESALE_LOCK redemption: the slot reserved
// while the hold is open.
type PresaleLockDetails struct {
	SlotRef string `json:"slot_ref"`
}

// VariantDetails describe a VARIANT redemption: the item variant claimed.
type VariantDetails struct {
	SKU string `json:"sku"`
}

// RedemptionDetails is a tagged variant keyed by the reward kind. Exactly
// one branch matching Kind is set, so fulfillment logic can switch
// exhaustively instead of digging through an untyped bag.
type RedemptionDetails struct {
	Kind        RewardKind          `json:"kind"`
	Access      *AccessDetails      `json:"access,omitempty"`
	PresaleLock *PresaleLockDetails `json:"presale_lock,omitempty"`
	Variant     *VariantDetails     `json:"variant,omitempty"`
}

// Validate checks that the populated branch matches the declared kind.
func (d RedemptionDetails) Validate() error {
	if !d.Kind.IsValid() {
		return ErrInvalidRewardKind
	}
	switch d.Kind {
	case RewardKindAccess:
		if d.Access == nil || d.PresaleLock != nil || d.Variant != nil {
			return ErrInvalidRedemptionDetails
		}
	case RewardKindPresaleLock:
		if d.PresaleLock == nil || d.Access != nil || d.Variant != nil {
			return ErrInvalidRedemptionDetails
		}
	case RewardKindVariant:
		if d.Variant == nil || d.Access != nil || d.PresaleLock != nil {
			return ErrInvalidRedemptionDetails
		}
	}
	return nil
}

// RewardRedemption records one fan spending points on a reward.
// SpendPurchased and SpendEarned preserve the purchased-first split the
// spend was made with so a refund restores exactly what was taken.
// InventoryDebited remembers whether this redemption decremented a finite
// inventory, so release logic knows whether to restore stock.
type RewardRedemption struct {
	ID               int64             `db:"id"`
	RewardID         int64             `db:"reward_id"`
	WalletID         int64             `db:"wallet_id"`
	ClubID           int64             `db:"club_id"`
	State            RedemptionState   `db:"state"`
	PointsSpent      int64             `db:"points_spent"`
	SpendPurchased   int64             `db:"spend_purchased"`
	SpendEarned      int64             `db:"spend_earned"`
	Details          RedemptionDetails `db:"details"`
	HoldExpiresAt    *time.Time        `db:"hold_expires_at"`
	InventoryDebited bool              `db:"inventory_debited"`
	CreatedAt        time.Time         `db:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at"`
}

// IsHoldExpired returns true for a HELD redemption whose hold window has
// passed. Expired holds are eligible for automatic release back to
// REFUNDED.
func (r *RewardRedemption) IsHoldExpired(now time.Time) bool {
	return r.State == RedemptionStateHeld &&
		r.HoldExpiresAt != nil &&
		now.After(*r.HoldExpiresAt)
}

// CanConfirm returns true when the redemption may move to CONFIRMED.
func (r *RewardRedemption) CanConfirm() bool {
	return r.State.CanTransitionTo(RedemptionStateConfirmed)
}

// CanFulfill returns true when the redemption may move to FULFILLED.
func (r *RewardRedemption) CanFulfill() bool {
	return r.State.CanTransitionTo(RedemptionStateFulfilled)
}

// CanRefund returns true when the redemption may move to REFUNDED.
func (r *RewardRedemption) CanRefund() bool {
	return r.State.CanTransitionTo(RedemptionStateRefunded)
}
