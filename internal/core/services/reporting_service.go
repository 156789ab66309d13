package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
)

// zeroTime marks an unbounded side of a time window in repository calls.
var zeroTime time.Time

// balanceBucketBoundaries are the coin boundaries of the balance
// distribution report; the last bucket is open-ended.
var balanceBucketBoundaries = []decimal.Decimal{
	decimal.NewFromInt(0),
	decimal.NewFromInt(100),
	decimal.NewFromInt(500),
	decimal.NewFromInt(1000),
	decimal.NewFromInt(5000),
	decimal.NewFromInt(10000),
	decimal.NewFromInt(50000),
}

// currentMonthWindow returns [start of this month, start of next month).
func currentMonthWindow() (time.Time, time.Time) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// reportingService produces the dashboard and balance statistics reports.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	txnRepo       portsrepo.TransactionRepository

	topUsersLimit int
	recentLimit   int
}

// ReportingServiceOption is a functional option for the reporting service.
type ReportingServiceOption func(*reportingService)

// WithTopUsersLimit overrides how many users the dashboard's top-balances
// list carries.
func WithTopUsersLimit(limit int) ReportingServiceOption {
	return func(s *reportingService) {
		if limit > 0 {
			s.topUsersLimit = limit
		}
	}
}

// WithRecentChangesLimit overrides how many entries the recent-changes
// feeds carry.
func WithRecentChangesLimit(limit int) ReportingServiceOption {
	return func(s *reportingService) {
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}

// NewReportingService creates the reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, txnRepo portsrepo.TransactionRepository, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		reportingRepo: reportingRepo,
		txnRepo:       txnRepo,
		topUsersLimit: 5,
		recentLimit:   10,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetDashboardStats returns the admin landing-page report.
func (s *reportingService) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	monthStart, monthEnd := currentMonthWindow()
	prevStart := monthStart.AddDate(0, -1, 0)

	totalUsers, err := s.reportingRepo.CountActiveUsers(ctx, zeroTime, zeroTime)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	newThisMonth, err := s.reportingRepo.CountActiveUsers(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}
	prevMonth, err := s.reportingRepo.CountActiveUsers(ctx, prevStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous month users: %w", err)
	}

	totals, err := s.reportingRepo.GetBalanceTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}

	recent, err := s.txnRepo.FindRecentCompleted(ctx, s.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}

	topUsers, err := s.reportingRepo.FindTopBalances(ctx, s.topUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top users: %w", err)
	}

	return &domain.DashboardStats{
		TotalUsers:        totalUsers,
		NewUsersThisMonth: newThisMonth,
		GrowthRatePercent: growthRate(newThisMonth, prevMonth),
		TotalBalance:      totals,
		RecentChanges:     recent,
		TopUsers:          topUsers,
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

// growthRate computes month-over-month growth in percent. With no previous
// month baseline it reports 100 when there is any growth and 0 otherwise.
func growthRate(current, previous int64) decimal.Decimal {
	if previous == 0 {
		if current > 0 {
			return decimal.NewFromInt(100)
		}
		return decimal.Zero
	}
	return decimal.NewFromInt(current - previous).
		Div(decimal.NewFromInt(previous)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// GetBalanceStatistics returns the balance statistics report.
func (s *reportingService) GetBalanceStatistics(ctx context.Context) (*domain.BalanceStatistics, error) {
	monthStart, monthEnd := currentMonthWindow()

	monthly, err := s.txnRepo.GetMonthlyStats(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly stats: %w", err)
	}
	distribution, err := s.reportingRepo.GetBalanceDistribution(ctx, balanceBucketBoundaries)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance distribution: %w", err)
	}
	topBalances, err := s.reportingRepo.FindTopBalances(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load top balances: %w", err)
	}
	recent, err := s.txnRepo.FindRecentCompleted(ctx, s.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent changes: %w", err)
	}

	return &domain.BalanceStatistics{
		MonthlyStats:  monthly,
		Distribution:  distribution,
		TopBalances:   topBalances,
		RecentChanges: recent,
	}, nil
}

// GetBalanceTotals aggregates materialized balances across active users.
func (s *reportingService) GetBalanceTotals(ctx context.Context) (domain.BalanceTotals, error) {
	return s.reportingRepo.GetBalanceTotals(ctx)
}
