package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSummaryRow aggregates a user's completed transactions of one type.
type LedgerSummaryRow struct {
	Type       TransactionType `json:"type"`
	TotalCoins decimal.Decimal `json:"totalCoins"`
	TotalUsd   decimal.Decimal `json:"totalUsd"`
	Count      int64           `json:"count"`
}

// MonthlyStatsRow aggregates completed transactions of one type within a
// calendar month.
type MonthlyStatsRow struct {
	Type       TransactionType `json:"type"`
	TotalCoins decimal.Decimal `json:"totalCoins"`
	TotalUsd   decimal.Decimal `json:"totalUsd"`
	Count      int64           `json:"count"`
}

// BalanceTotals aggregates materialized balances across active users.
type BalanceTotals struct {
	TotalCoins decimal.Decimal `json:"totalCoins"`
	TotalUsd   decimal.Decimal `json:"totalUsd"`
	AvgCoins   decimal.Decimal `json:"avgCoins"`
	AvgUsd     decimal.Decimal `json:"avgUsd"`
}

// BalanceBucket is one row of the balance distribution report: active users
// whose coin balance falls within [Lower, Upper). The final bucket is
// open-ended and carries a nil Upper bound.
type BalanceBucket struct {
	Lower      decimal.Decimal  `json:"lower"`
	Upper      *decimal.Decimal `json:"upper,omitempty"`
	Count      int64            `json:"count"`
	TotalCoins decimal.Decimal  `json:"totalCoins"`
	TotalUsd   decimal.Decimal  `json:"totalUsd"`
}

// RecentChange is one recent completed transaction joined with its user,
// for the balance statistics and dashboard feeds.
type RecentChange struct {
	Transaction Transaction `json:"transaction"`
	Username    string      `json:"username"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
}

// BalanceStatistics is the balance-statistics report: current-month ledger
// aggregates plus distribution and activity feeds.
type BalanceStatistics struct {
	MonthlyStats  []MonthlyStatsRow `json:"monthlyStats"`
	Distribution  []BalanceBucket   `json:"balanceDistribution"`
	TopBalances   []User            `json:"topBalances"`
	RecentChanges []RecentChange    `json:"recentChanges"`
}

// DashboardStats is the admin landing-page report.
type DashboardStats struct {
	TotalUsers        int64           `json:"totalUsers"`
	NewUsersThisMonth int64           `json:"newUsersThisMonth"`
	GrowthRatePercent decimal.Decimal `json:"growthRatePercent"`
	TotalBalance      BalanceTotals   `json:"totalBalance"`
	RecentChanges     []RecentChange  `json:"recentChanges"`
	TopUsers          []User          `json:"topUsers"`
	GeneratedAt       time.Time       `json:"generatedAt"`
}
