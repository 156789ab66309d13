package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/coinadmin/backend/internal/core/domain"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockTxnRepo       *MockTransactionRepository
	service           portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockTxnRepo)
}

func (suite *ReportingServiceTestSuite) expectDashboardCounts(total, thisMonth, prevMonth int64) {
	// CountActiveUsers is called three times: all-time, this month, previous
	// month, in that order.
	suite.mockReportingRepo.On("CountActiveUsers", mock.Anything, mock.Anything, mock.Anything).Return(total, nil).Once()
	suite.mockReportingRepo.On("CountActiveUsers", mock.Anything, mock.Anything, mock.Anything).Return(thisMonth, nil).Once()
	suite.mockReportingRepo.On("CountActiveUsers", mock.Anything, mock.Anything, mock.Anything).Return(prevMonth, nil).Once()
	suite.mockReportingRepo.On("GetBalanceTotals", mock.Anything).
		Return(domain.BalanceTotals{TotalCoins: decimal.NewFromInt(900), AvgCoins: decimal.NewFromInt(90)}, nil).Once()
	suite.mockTxnRepo.On("FindRecentCompleted", mock.Anything, 10).Return([]domain.RecentChange{}, nil).Once()
	suite.mockReportingRepo.On("FindTopBalances", mock.Anything, 5).Return([]domain.User{}, nil).Once()
}

func (suite *ReportingServiceTestSuite) TestGetDashboardStats_GrowthRate() {
	ctx := context.Background()
	suite.expectDashboardCounts(100, 30, 20)

	stats, err := suite.service.GetDashboardStats(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(100), stats.TotalUsers)
	suite.Equal(int64(30), stats.NewUsersThisMonth)
	// (30 - 20) / 20 * 100 = 50%
	suite.True(stats.GrowthRatePercent.Equal(decimal.NewFromInt(50)),
		"expected 50, got %s", stats.GrowthRatePercent)
	suite.True(stats.TotalBalance.TotalCoins.Equal(decimal.NewFromInt(900)))
	suite.WithinDuration(time.Now().UTC(), stats.GeneratedAt, time.Minute)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetDashboardStats_GrowthFromEmptyBaseline() {
	ctx := context.Background()
	suite.expectDashboardCounts(5, 5, 0)

	stats, err := suite.service.GetDashboardStats(ctx)

	suite.Require().NoError(err)
	suite.True(stats.GrowthRatePercent.Equal(decimal.NewFromInt(100)),
		"expected 100, got %s", stats.GrowthRatePercent)
}

func (suite *ReportingServiceTestSuite) TestGetDashboardStats_NoActivity() {
	ctx := context.Background()
	suite.expectDashboardCounts(0, 0, 0)

	stats, err := suite.service.GetDashboardStats(ctx)

	suite.Require().NoError(err)
	suite.True(stats.GrowthRatePercent.IsZero())
}

func (suite *ReportingServiceTestSuite) TestGetDashboardStats_NegativeGrowthRounded() {
	ctx := context.Background()
	suite.expectDashboardCounts(50, 2, 3)

	stats, err := suite.service.GetDashboardStats(ctx)

	suite.Require().NoError(err)
	// (2 - 3) / 3 * 100 rounded to two places
	suite.True(stats.GrowthRatePercent.Equal(decimal.RequireFromString("-33.33")),
		"expected -33.33, got %s", stats.GrowthRatePercent)
}

func (suite *ReportingServiceTestSuite) TestGetDashboardStats_ConfigurableFeedLimits() {
	ctx := context.Background()
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockTxnRepo,
		services.WithTopUsersLimit(3), services.WithRecentChangesLimit(25))

	suite.mockReportingRepo.On("CountActiveUsers", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Times(3)
	suite.mockReportingRepo.On("GetBalanceTotals", mock.Anything).Return(domain.BalanceTotals{}, nil).Once()
	suite.mockTxnRepo.On("FindRecentCompleted", mock.Anything, 25).Return([]domain.RecentChange{}, nil).Once()
	suite.mockReportingRepo.On("FindTopBalances", mock.Anything, 3).Return([]domain.User{}, nil).Once()

	_, err := suite.service.GetDashboardStats(ctx)

	suite.Require().NoError(err)
	suite.mockReportingRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetBalanceStatistics_Assembly() {
	ctx := context.Background()

	monthly := []domain.MonthlyStatsRow{{Type: domain.TxnDeposit, Count: 4, TotalCoins: decimal.NewFromInt(400)}}
	upper := decimal.NewFromInt(100)
	buckets := []domain.BalanceBucket{{Lower: decimal.Zero, Upper: &upper, Count: 3}}
	top := []domain.User{*makeUser(9000)}
	recent := []domain.RecentChange{{Username: "alice"}}

	suite.mockTxnRepo.On("GetMonthlyStats", mock.Anything, mock.MatchedBy(func(start time.Time) bool {
		return start.Day() == 1 && start.Hour() == 0
	}), mock.Anything).Return(monthly, nil).Once()
	suite.mockReportingRepo.On("GetBalanceDistribution", mock.Anything, mock.MatchedBy(func(boundaries []decimal.Decimal) bool {
		return len(boundaries) > 0 && boundaries[0].IsZero()
	})).Return(buckets, nil).Once()
	suite.mockReportingRepo.On("FindTopBalances", mock.Anything, 10).Return(top, nil).Once()
	suite.mockTxnRepo.On("FindRecentCompleted", mock.Anything, 10).Return(recent, nil).Once()

	stats, err := suite.service.GetBalanceStatistics(ctx)

	suite.Require().NoError(err)
	suite.Equal(monthly, stats.MonthlyStats)
	suite.Equal(buckets, stats.Distribution)
	suite.Equal(top, stats.TopBalances)
	suite.Equal(recent, stats.RecentChanges)
	suite.mockReportingRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetBalanceTotals_Delegates() {
	ctx := context.Background()
	totals := domain.BalanceTotals{TotalCoins: decimal.NewFromInt(1234), TotalUsd: decimal.NewFromInt(12)}

	suite.mockReportingRepo.On("GetBalanceTotals", ctx).Return(totals, nil).Once()

	got, err := suite.service.GetBalanceTotals(ctx)

	suite.Require().NoError(err)
	suite.True(got.TotalCoins.Equal(totals.TotalCoins))
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
