package domain

import "time"

// TransactionType classifies a balance-changing event.
type TransactionType string

const (
	TxnDeposit          TransactionType = "deposit"
	TxnWithdrawal       TransactionType = "withdrawal"
	TxnReferralBonus    TransactionType = "referral_bonus"
	TxnSystemAdjustment TransactionType = "system_adjustment"
	TxnTransfer         TransactionType = "transfer"
)

// AdminAdjustmentTypes are the transaction types an administrator may apply
// directly. referral_bonus and transfer are reserved for internal flows.
var AdminAdjustmentTypes = map[TransactionType]bool{
	TxnDeposit:          true,
	TxnWithdrawal:       true,
	TxnSystemAdjustment: true,
}

// TransactionStatus indicates the settlement state of a transaction.
// Only completed transactions count toward reporting aggregates and the
// ledger chain.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "pending"
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
	TxnCancelled TransactionStatus = "cancelled"
)

// TransactionMetadata carries optional attribution for a transaction.
type TransactionMetadata struct {
	ReferralUserID string `json:"referralUserID,omitempty"` // Related user for referral_bonus entries
	AdminID        string `json:"adminID,omitempty"`        // Acting administrator
	ExternalID     string `json:"externalID,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Transaction is one immutable ledger entry for a single user. Amount holds
// non-negative magnitudes; direction is carried by Type (withdrawals are
// stored as positive magnitudes with a withdrawal type).
//
// For a given user, completed transactions in creation order form a chain:
// each entry's BalanceBefore equals the previous completed entry's
// BalanceAfter (the zero balance if none precede it), and the user's
// materialized balance equals the most recent completed entry's
// BalanceAfter.
type Transaction struct {
	TransactionID string              `json:"transactionID"` // Primary key (UUID)
	UserID        string              `json:"userID"`        // FK -> users.user_id
	Type          TransactionType     `json:"type"`
	Amount        Balance             `json:"amount"` // Magnitudes, both components >= 0
	BalanceBefore Balance             `json:"balanceBefore"`
	BalanceAfter  Balance             `json:"balanceAfter"`
	Description   string              `json:"description"`
	Status        TransactionStatus   `json:"status"`
	Metadata      TransactionMetadata `json:"metadata"`
	CreatedAt     time.Time           `json:"createdAt"`
}
