package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/dto"
)

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByReferrer(ctx context.Context, referrerID string) ([]domain.User, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByReferrers(ctx context.Context, referrerIDs []string) ([]domain.User, error) {
	args := m.Called(ctx, referrerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, params portsrepo.ListUsersParams) ([]domain.User, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, userID, status, updatedBy, now)
	return args.Error(0)
}

var _ portsrepo.UserRepository = (*MockUserRepository)(nil)

// MockTransactionRepository is a mock type for the TransactionRepository
// interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ApplyAdjustment(ctx context.Context, params portsrepo.ApplyAdjustmentParams) (*domain.User, *domain.Transaction, error) {
	args := m.Called(ctx, params)
	var user *domain.User
	var txn *domain.Transaction
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	if args.Get(1) != nil {
		txn = args.Get(1).(*domain.Transaction)
	}
	return user, txn, args.Error(2)
}

func (m *MockTransactionRepository) FindTransactionsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) FindCompletedTransactionsAsc(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetLedgerSummary(ctx context.Context, userID string) ([]domain.LedgerSummaryRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerSummaryRow), args.Error(1)
}

func (m *MockTransactionRepository) GetMonthlyStats(ctx context.Context, start, end time.Time) ([]domain.MonthlyStatsRow, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyStatsRow), args.Error(1)
}

func (m *MockTransactionRepository) FindRecentCompleted(ctx context.Context, limit int) ([]domain.RecentChange, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecentChange), args.Error(1)
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

// MockReportingRepository is a mock type for the ReportingRepository
// interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetBalanceTotals(ctx context.Context) (domain.BalanceTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.BalanceTotals), args.Error(1)
}

func (m *MockReportingRepository) GetBalanceDistribution(ctx context.Context, boundaries []decimal.Decimal) ([]domain.BalanceBucket, error) {
	args := m.Called(ctx, boundaries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceBucket), args.Error(1)
}

func (m *MockReportingRepository) FindTopBalances(ctx context.Context, limit int) ([]domain.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockReportingRepository) CountActiveUsers(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportingRepository) CountReferredUsers(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportingRepository) GetLevelDistribution(ctx context.Context) ([]domain.LevelCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LevelCount), args.Error(1)
}

func (m *MockReportingRepository) FindTopReferrers(ctx context.Context, limit int) ([]domain.TopReferrer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopReferrer), args.Error(1)
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

// MockNetworkCache is a mock type for the NetworkCache interface
type MockNetworkCache struct {
	mock.Mock
}

func (m *MockNetworkCache) GetNetwork(ctx context.Context, rootID string, levels int) (*domain.ReferralNetwork, error) {
	args := m.Called(ctx, rootID, levels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralNetwork), args.Error(1)
}

func (m *MockNetworkCache) SetNetwork(ctx context.Context, rootID string, levels int, network *domain.ReferralNetwork) error {
	args := m.Called(ctx, rootID, levels, network)
	return args.Error(0)
}

func (m *MockNetworkCache) GetTree(ctx context.Context, rootID string, maxLevels int) (*domain.ReferralTreeNode, error) {
	args := m.Called(ctx, rootID, maxLevels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralTreeNode), args.Error(1)
}

func (m *MockNetworkCache) SetTree(ctx context.Context, rootID string, maxLevels int, tree *domain.ReferralTreeNode) error {
	args := m.Called(ctx, rootID, maxLevels, tree)
	return args.Error(0)
}

func (m *MockNetworkCache) InvalidateUser(ctx context.Context, userIDs ...string) error {
	callArgs := make([]interface{}, 0, len(userIDs)+1)
	callArgs = append(callArgs, ctx)
	for _, id := range userIDs {
		callArgs = append(callArgs, id)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

var _ portsrepo.NetworkCache = (*MockNetworkCache)(nil)

// MockLedgerPublisher is a mock type for the LedgerEventPublisher interface
type MockLedgerPublisher struct {
	mock.Mock
}

func (m *MockLedgerPublisher) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

var _ portsrepo.LedgerEventPublisher = (*MockLedgerPublisher)(nil)

// MockAdminRepository is a mock type for the AdminRepository interface
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) SaveAdmin(ctx context.Context, admin domain.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) UpdateAdminProfile(ctx context.Context, adminID, name, email string, now time.Time) error {
	args := m.Called(ctx, adminID, name, email, now)
	return args.Error(0)
}

func (m *MockAdminRepository) UpdateAdminPassword(ctx context.Context, adminID, passwordHash string, now time.Time) error {
	args := m.Called(ctx, adminID, passwordHash, now)
	return args.Error(0)
}

func (m *MockAdminRepository) UpdateAdminLastLogin(ctx context.Context, adminID string, now time.Time) error {
	args := m.Called(ctx, adminID, now)
	return args.Error(0)
}

var _ portsrepo.AdminRepository = (*MockAdminRepository)(nil)

// MockReferralFacade is a mock type for the ReferralSvcFacade interface
type MockReferralFacade struct {
	mock.Mock
}

func (m *MockReferralFacade) GetReferralNetwork(ctx context.Context, rootID string, levels int) (*domain.ReferralNetwork, error) {
	args := m.Called(ctx, rootID, levels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralNetwork), args.Error(1)
}

func (m *MockReferralFacade) GetReferralTree(ctx context.Context, rootID string, maxLevels int) (*domain.ReferralTreeNode, error) {
	args := m.Called(ctx, rootID, maxLevels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralTreeNode), args.Error(1)
}

func (m *MockReferralFacade) ListReferralNetworks(ctx context.Context, params portsrepo.ListUsersParams) ([]domain.User, map[string]domain.User, int64, error) {
	args := m.Called(ctx, params)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	var referrers map[string]domain.User
	if args.Get(1) != nil {
		referrers = args.Get(1).(map[string]domain.User)
	}
	return users, referrers, args.Get(2).(int64), args.Error(3)
}

func (m *MockReferralFacade) GetReferralStatistics(ctx context.Context) (*domain.ReferralStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralStatistics), args.Error(1)
}

func (m *MockReferralFacade) ValidateReferrerAttachment(ctx context.Context, candidateID, referrerID string) error {
	args := m.Called(ctx, candidateID, referrerID)
	return args.Error(0)
}

var _ portssvc.ReferralSvcFacade = (*MockReferralFacade)(nil)

// MockBalanceFacade is a mock type for the BalanceSvcFacade interface
type MockBalanceFacade struct {
	mock.Mock
}

func (m *MockBalanceFacade) AdjustBalance(ctx context.Context, userID string, req dto.AdjustBalanceRequest, actorAdminID string) (*domain.User, *domain.Transaction, error) {
	args := m.Called(ctx, userID, req, actorAdminID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	var txn *domain.Transaction
	if args.Get(1) != nil {
		txn = args.Get(1).(*domain.Transaction)
	}
	return user, txn, args.Error(2)
}

func (m *MockBalanceFacade) CreditReferralBonus(ctx context.Context, referrerID, refereeID string) (*domain.Transaction, error) {
	args := m.Called(ctx, referrerID, refereeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockBalanceFacade) GetUserTransactions(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Get(1).(int64), args.Error(2)
}

func (m *MockBalanceFacade) GetLedgerSummary(ctx context.Context, userID string) ([]domain.LedgerSummaryRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerSummaryRow), args.Error(1)
}

func (m *MockBalanceFacade) GetMonthlyLedgerStats(ctx context.Context, year int, month int) ([]domain.MonthlyStatsRow, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyStatsRow), args.Error(1)
}

func (m *MockBalanceFacade) VerifyLedger(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceFacade)(nil)
