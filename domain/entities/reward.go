package entities

import "time"

// RewardKind determines what fulfilling a redemption means and which
// details shape the redemption carries.
type RewardKind string

const (
	// RewardKindAccess grants entry to gated content or spaces.
	RewardKindAccess RewardKind = "ACCESS"

	// RewardKindPresaleLock reserves a presale slot for a limited hold window.
	RewardKindPresaleLock RewardKind = "PRESALE_LOCK"

	// RewardKindVariant is a physical or digital item variant claim.
	RewardKindVariant RewardKind = "VARIANT"
)

// IsValid returns true if the kind is one of the known reward kinds.
func (k RewardKind) IsValid() bool {
	switch k {
	case RewardKindAccess, RewardKindPresaleLock, RewardKindVariant:
		return true
	}
	return false
}

// RequiresHold returns true when redemptions of this kind start in HELD
// rather than CONFIRMED.
func (k RewardKind) RequiresHold() bool {
	return k == RewardKindPresaleLock
}

// RewardStatus is the admin-controlled on/off switch for a reward.
type RewardStatus string

const (
	RewardStatusActive   RewardStatus = "active"
	RewardStatusInactive RewardStatus = "inactive"
)

// Reward is something a club offers for points. Inventory is nil for
// unlimited stock; a finite inventory decrements on redemption and never
// goes below zero. When a window is set, redemption must happen inside it.
type Reward struct {
	ID          int64      `db:"id"`
	ClubID      int64      `db:"club_id"`
	Kind        RewardKind `db:"kind"`
	Title       string     `db:"title"`
	PointsPrice int64      `db:"points_price"`
	Inventory   *int64     `db:"inventory"`
	WindowStart *time.Time `db:"window_start"`
	WindowEnd   *time.Time `db:"window_end"`
	// FulfillmentRef names what the reward grants: a content ref for
	// ACCESS, a presale slot ref for PRESALE_LOCK, a SKU for VARIANT.
	FulfillmentRef string       `db:"fulfillment_ref"`
	Status         RewardStatus `db:"status"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

// BuildRedemptionDetails shapes the redemption details for this reward's
// kind from its fulfillment ref.
func (r *Reward) BuildRedemptionDetails() RedemptionDetails {
	details := RedemptionDetails{Kind: r.Kind}
	switch r.Kind {
	case RewardKindAccess:
		details.Access = &AccessDetails{ContentRef: r.FulfillmentRef}
	case RewardKindPresaleLock:
		details.PresaleLock = &PresaleLockDetails{SlotRef: r.FulfillmentRef}
	case RewardKindVariant:
		details.Variant = &VariantDetails{SKU: r.FulfillmentRef}
	}
	return details
}

// IsActive returns true if the reward is switched on.
func (r *Reward) IsActive() bool {
	return r.Status == RewardStatusActive
}

// IsSoldOut returns true when a finite inventory is exhausted. Unlimited
// inventory is never sold out.
func (r *Reward) IsSoldOut() bool {
	return r.Inventory != nil && *r.Inventory <= 0
}

// CheckAvailability returns nil when the reward can be redeemed at the
// given time, or a RewardUnavailableError naming the first failing reason.
// It is a pure check with no side effects, safe to call speculatively.
func (r *Reward) CheckAvailability(now time.Time) error {
	if !r.IsActive() {
		return &RewardUnavailableError{RewardID: r.ID, Reason: UnavailableInactive}
	}
	if r.WindowStart != nil && now.Before(*r.WindowStart) {
		return &RewardUnavailableError{RewardID: r.ID, Reason: UnavailableNotYetOpen}
	}
	if r.WindowEnd != nil && now.After(*r.WindowEnd) {
		return &RewardUnavailableError{RewardID: r.ID, Reason: UnavailableClosed}
	}
	if r.IsSoldOut() {
		return &RewardUnavailableError{RewardID: r.ID, Reason: UnavailableSoldOut}
	}
	return nil
}

// IsAvailable is the boolean convenience form of CheckAvailability.
func (r *Reward) IsAvailable(now time.Time) bool {
	return r.CheckAvailability(now) == nil
}
