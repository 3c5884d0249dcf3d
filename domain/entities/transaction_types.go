package entities

// TransactionType represents the type of a point ledger entry
type TransactionType string

// All transaction types recorded by the wallet ledger
const (
	// TransactionTypePurchase credits points bought for cash
	TransactionTypePurchase TransactionType = "PURCHASE"

	// TransactionTypeBonus credits earned points (tap-ins, purchase bonuses, grants)
	TransactionTypeBonus TransactionType = "BONUS"

	// TransactionTypeSpend debits points for a redemption
	TransactionTypeSpend TransactionType = "SPEND"

	// TransactionTypeRefund credits points back after a released or refunded redemption
	TransactionTypeRefund TransactionType = "REFUND"
)

// IsCredit returns true if the transaction type adds points to a wallet
func (tt TransactionType) IsCredit() bool {
	return tt == TransactionTypePurchase ||
		tt == TransactionTypeBonus ||
		tt == TransactionTypeRefund
}

// IsDebit returns true if the transaction type removes points from a wallet
func (tt TransactionType) IsDebit() bool {
	return tt == TransactionTypeSpend
}

// IsValid returns true if the transaction type is one of the known types
func (tt TransactionType) IsValid() bool {
	switch tt {
	case TransactionTypePurchase, TransactionTypeBonus, TransactionTypeSpend, TransactionTypeRefund:
		return true
	}
	return false
}

// SignedAmount applies the sign implied by the type to a point magnitude
func (tt TransactionType) SignedAmount(pts int64) int64 {
	if tt.IsDebit() {
		return -pts
	}
	return pts
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
