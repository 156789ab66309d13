package dto

import (
	"time"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountPayload carries an adjustment delta. Omitted components default to
// zero; components may be negative (the engine enforces the floor-zero
// result).
type AmountPayload struct {
	Coins *decimal.Decimal `json:"coins"`
	Usd   *decimal.Decimal `json:"usd"`
}

// AdjustBalanceRequest is the administrative balance adjustment input.
type AdjustBalanceRequest struct {
	Amount      AmountPayload `json:"amount" binding:"required"`
	Type        string        `json:"type" binding:"required,oneof=deposit withdrawal system_adjustment"`
	Description string        `json:"description" binding:"required,min=5,max=200"`
}

// Delta folds the payload into a domain balance, defaulting omitted
// components to zero.
func (r AdjustBalanceRequest) Delta() domain.Balance {
	delta := domain.ZeroBalance()
	if r.Amount.Coins != nil {
		delta.Coins = *r.Amount.Coins
	}
	if r.Amount.Usd != nil {
		delta.Usd = *r.Amount.Usd
	}
	return delta
}

// TransactionResponse is the public rendering of a ledger entry.
type TransactionResponse struct {
	TransactionID string         `json:"transactionID"`
	UserID        string         `json:"userID"`
	Type          string         `json:"type"`
	Amount        BalancePayload `json:"amount"`
	BalanceBefore BalancePayload `json:"balanceBefore"`
	BalanceAfter  BalancePayload `json:"balanceAfter"`
	Description   string         `json:"description"`
	Status        string         `json:"status"`
	AdminID       string         `json:"adminID,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// ToTransactionResponse converts a domain transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		Amount:        BalancePayload{Coins: t.Amount.Coins, Usd: t.Amount.Usd},
		BalanceBefore: BalancePayload{Coins: t.BalanceBefore.Coins, Usd: t.BalanceBefore.Usd},
		BalanceAfter:  BalancePayload{Coins: t.BalanceAfter.Coins, Usd: t.BalanceAfter.Usd},
		Description:   t.Description,
		Status:        string(t.Status),
		AdminID:       t.Metadata.AdminID,
		Notes:         t.Metadata.Notes,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// AdjustBalanceResponse is returned after a successful adjustment.
type AdjustBalanceResponse struct {
	Message     string              `json:"message"`
	User        UserResponse        `json:"user"`
	Transaction TransactionResponse `json:"transaction"`
}

// BalanceTotalsPayload renders balance aggregates.
type BalanceTotalsPayload struct {
	TotalCoins decimal.Decimal `json:"totalCoins"`
	TotalUsd   decimal.Decimal `json:"totalUsd"`
	AvgCoins   decimal.Decimal `json:"avgCoins"`
	AvgUsd     decimal.Decimal `json:"avgUsd"`
}

// ListBalancesResponse wraps the balances listing.
type ListBalancesResponse struct {
	Users      []UserResponse       `json:"users"`
	Pagination Pagination           `json:"pagination"`
	Totals     BalanceTotalsPayload `json:"totals"`
}

// UserBalanceDetailResponse wraps one user's balance with their ledger.
type UserBalanceDetailResponse struct {
	User         UserResponse              `json:"user"`
	Transactions []TransactionResponse     `json:"transactions"`
	Pagination   Pagination                `json:"pagination"`
	Summary      []domain.LedgerSummaryRow `json:"transactionSummary"`
}

// BalanceStatisticsResponse wraps the balance statistics report.
type BalanceStatisticsResponse struct {
	MonthlyStats        []domain.MonthlyStatsRow `json:"monthlyStats"`
	BalanceDistribution []domain.BalanceBucket   `json:"balanceDistribution"`
	TopBalances         []UserResponse           `json:"topBalances"`
	RecentChanges       []RecentChangeResponse   `json:"recentChanges"`
}

// RecentChangeResponse is a recent ledger entry joined with user names.
type RecentChangeResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Username    string              `json:"username"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
}

// ToRecentChangeResponses converts domain recent changes.
func ToRecentChangeResponses(changes []domain.RecentChange) []RecentChangeResponse {
	out := make([]RecentChangeResponse, len(changes))
	for i, c := range changes {
		out[i] = RecentChangeResponse{
			Transaction: ToTransactionResponse(&changes[i].Transaction),
			Username:    c.Username,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
		}
	}
	return out
}
