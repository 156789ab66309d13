package services

import (
	"context"

	"github.com/coinadmin/backend/internal/core/domain"
)

// ReportingSvcFacade produces the dashboard and balance statistics reports.
type ReportingSvcFacade interface {
	// GetDashboardStats returns the admin landing-page report.
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)

	// GetBalanceStatistics returns monthly ledger stats for the current
	// month, the balance distribution, top balances, and recent changes.
	GetBalanceStatistics(ctx context.Context) (*domain.BalanceStatistics, error)

	// GetBalanceTotals aggregates materialized balances across active users.
	GetBalanceTotals(ctx context.Context) (domain.BalanceTotals, error)
}
