package events

import "superfan/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePointsBalanceChanged  EventType = "points_balance_changed"
	EventTypeWalletCreated         EventType = "wallet_created"
	EventTypeTapInRecorded         EventType = "tap_in_recorded"
	EventTypePointsPurchased       EventType = "points_purchased"
	EventTypeRewardRedeemed        EventType = "reward_redeemed"
	EventTypeRedemptionStateChange EventType = "redemption_state_change"
	EventTypeStatusChanged         EventType = "status_changed"
	EventTypeClubPricingUpdated    EventType = "club_pricing_updated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PointsBalanceChangedEvent represents a wallet balance mutation
type PointsBalanceChangedEvent struct {
	WalletID        int64
	UserID          int64
	ClubID          int64
	OldBalance      int64
	NewBalance      int64
	ChangeAmount    int64
	TransactionType entities.TransactionType
}

func (e PointsBalanceChangedEvent) Type() EventType {
	return EventTypePointsBalanceChanged
}

// WalletCreatedEvent represents a wallet lazily created on first activity
type WalletCreatedEvent struct {
	WalletID int64
	UserID   int64
	ClubID   int64
}

func (e WalletCreatedEvent) Type() EventType {
	return EventTypeWalletCreated
}

// TapInRecordedEvent represents an earned-point credit from a tap-in
type TapInRecordedEvent struct {
	WalletID int64
	UserID   int64
	ClubID   int64
	Source   entities.TapInSource
	Points   int64
	Ref      string
}

func (e TapInRecordedEvent) Type() EventType {
	return EventTypeTapInRecorded
}

// PointsPurchasedEvent represents a verified point purchase, including the
// reserve accounting applied to the sale
type PointsPurchasedEvent struct {
	WalletID          int64
	UserID            int64
	ClubID            int64
	Points            int64
	BonusPoints       int64
	USDGrossCents     int64
	ReserveDeltaCents int64
	UpfrontCents      int64
	Ref               string
}

func (e PointsPurchasedEvent) Type() EventType {
	return EventTypePointsPurchased
}

// RewardRedeemedEvent represents a completed redemption request
type RewardRedeemedEvent struct {
	RedemptionID   int64
	RewardID       int64
	WalletID       int64
	UserID         int64
	ClubID         int64
	PointsSpent    int64
	SpendPurchased int64
	SpendEarned    int64
	State          entities.RedemptionState
}

func (e RewardRedeemedEvent) Type() EventType {
	return EventTypeRewardRedeemed
}

// RedemptionStateChangedEvent represents a redemption lifecycle transition
type RedemptionStateChangedEvent struct {
	RedemptionID int64
	RewardID     int64
	WalletID     int64
	OldState     entities.RedemptionState
	NewState     entities.RedemptionState
}

func (e RedemptionStateChangedEvent) Type() EventType {
	return EventTypeRedemptionStateChange
}

// StatusChangedEvent represents a tier change caused by a ledger mutation
type StatusChangedEvent struct {
	WalletID  int64
	UserID    int64
	ClubID    int64
	OldStatus entities.StatusTier
	NewStatus entities.StatusTier
}

func (e StatusChangedEvent) Type() EventType {
	return EventTypeStatusChanged
}

// ClubPricingUpdatedEvent represents an accepted pricing update
type ClubPricingUpdatedEvent struct {
	ClubID      int64
	SellCents   int64
	SettleCents int64
}

func (e ClubPricingUpdatedEvent) Type() EventType {
	return EventTypeClubPricingUpdated
}
