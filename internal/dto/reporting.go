package dto

import (
	"time"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardStatsResponse wraps the admin landing-page report.
type DashboardStatsResponse struct {
	TotalUsers        int64                  `json:"totalUsers"`
	NewUsersThisMonth int64                  `json:"newUsersThisMonth"`
	GrowthRatePercent decimal.Decimal        `json:"growthRatePercent"`
	TotalBalance      BalanceTotalsPayload   `json:"totalBalance"`
	RecentChanges     []RecentChangeResponse `json:"recentTransactions"`
	TopUsers          []UserResponse         `json:"topUsers"`
	GeneratedAt       time.Time              `json:"generatedAt"`
}

// ToDashboardStatsResponse converts the domain report.
func ToDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		TotalUsers:        s.TotalUsers,
		NewUsersThisMonth: s.NewUsersThisMonth,
		GrowthRatePercent: s.GrowthRatePercent,
		TotalBalance: BalanceTotalsPayload{
			TotalCoins: s.TotalBalance.TotalCoins,
			TotalUsd:   s.TotalBalance.TotalUsd,
			AvgCoins:   s.TotalBalance.AvgCoins,
			AvgUsd:     s.TotalBalance.AvgUsd,
		},
		RecentChanges: ToRecentChangeResponses(s.RecentChanges),
		TopUsers:      ToUserResponses(s.TopUsers),
		GeneratedAt:   s.GeneratedAt,
	}
}

// MonthlyStatsParams are the query parameters of the monthly ledger stats
// endpoint.
type MonthlyStatsParams struct {
	Year  int `form:"year" binding:"required,min=2000,max=2200"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}
