package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the domain. Repositories translate driver
// failures into these so services never match on pgx errors.
var (
	// ErrInvalidAmount reports a malformed or out-of-range point amount.
	// Always recoverable by the caller re-prompting.
	ErrInvalidAmount = errors.New("invalid points amount")

	// ErrInsufficientPoints reports a spend exceeding spendable points.
	// Carried by InsufficientPointsError; match with errors.Is.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrWalletNotFound reports a mutation against an unknown wallet. Given
	// get-or-create discipline this is a data-integrity fault and is logged
	// loudly, never shown verbatim to end users.
	ErrWalletNotFound = errors.New("point wallet not found")

	// ErrDuplicateRef reports an idempotency key collision in the ledger.
	// Callers treat it as success-no-op since upstream delivery is
	// at-least-once.
	ErrDuplicateRef = errors.New("duplicate transaction ref")

	// ErrGuardrailViolation reports a rejected pricing update. Carried by
	// GuardrailViolationError.
	ErrGuardrailViolation = errors.New("pricing guardrails violated")

	// ErrRewardUnavailable reports a reward failing eligibility. Carried by
	// RewardUnavailableError.
	ErrRewardUnavailable = errors.New("reward unavailable")

	ErrClubNotFound             = errors.New("club not found")
	ErrRewardNotFound           = errors.New("reward not found")
	ErrRedemptionNotFound       = errors.New("redemption not found")
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidRewardKind        = errors.New("invalid reward kind")
	ErrInvalidRedemptionDetails = errors.New("redemption details do not match reward kind")
	ErrInconsistentBalance      = errors.New("balance snapshot does not match change amount")
	ErrInvalidStateTransition   = errors.New("invalid redemption state transition")
)

// InsufficientPointsError carries the structured detail the UI needs to
// offer a next action, such as buying more points.
type InsufficientPointsError struct {
	Requested       int64
	Available       int64
	StatusProtected bool
}

func (e *InsufficientPointsError) Error() string {
	if e.StatusProtected {
		return fmt.Sprintf("insufficient points: %d requested, %d spendable with status protection on", e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient points: %d requested, %d available", e.Requested, e.Available)
}

func (e *InsufficientPointsError) Is(target error) bool {
	return target == ErrInsufficientPoints
}

// Shortfall returns how many more points the caller needs.
func (e *InsufficientPointsError) Shortfall() int64 {
	return e.Requested - e.Available
}

// UnavailabilityReason identifies why a reward failed the eligibility check.
type UnavailabilityReason string

const (
	UnavailableInactive   UnavailabilityReason = "inactive"
	UnavailableNotYetOpen UnavailabilityReason = "not_yet_open"
	UnavailableClosed     UnavailabilityReason = "closed"
	UnavailableSoldOut    UnavailabilityReason = "sold_out"
)

// RewardUnavailableError reports the first failing eligibility reason.
type RewardUnavailableError struct {
	RewardID int64
	Reason   UnavailabilityReason
}

func (e *RewardUnavailableError) Error() string {
	return fmt.Sprintf("reward %d unavailable: %s", e.RewardID, e.Reason)
}

func (e *RewardUnavailableError) Is(target error) bool {
	return target == ErrRewardUnavailable
}

// GuardrailViolationError lists every violated pricing rule. Admin UIs show
// them all at once, so a rejected update never reports only the first
// problem.
type GuardrailViolationError struct {
	Violations []string
}

func (e *GuardrailViolationError) Error() string {
	return fmt.Sprintf("pricing guardrails violated: %s", strings.Join(e.Violations, "; "))
}

func (e *GuardrailViolationError) Is(target error) bool {
	return target == ErrGuardrailViolation
}
