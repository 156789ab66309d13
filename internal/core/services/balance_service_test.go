package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/core/services"
	"github.com/coinadmin/backend/internal/dto"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func makeUser(coins int64) *domain.User {
	return &domain.User{
		UserID:        uuid.NewString(),
		Username:      "tester",
		Email:         "tester@example.com",
		FirstName:     "Test",
		LastName:      "User",
		ReferralCode:  "TESTER123456",
		ReferralLevel: 1,
		Balance:       domain.Balance{Coins: decimal.NewFromInt(coins), Usd: decimal.Zero},
		Status:        domain.UserActive,
	}
}

type BalanceServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockTxnRepo  *MockTransactionRepository
	service      portssvc.BalanceSvcFacade
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.service = services.NewBalanceService(suite.mockUserRepo, suite.mockTxnRepo, nil, nil)
}

func (suite *BalanceServiceTestSuite) TestAdjustBalance_DepositSuccess() {
	ctx := context.Background()
	user := makeUser(1000)
	adminID := uuid.NewString()

	req := dto.AdjustBalanceRequest{
		Amount:      dto.AmountPayload{Coins: decPtr(50)},
		Type:        "deposit",
		Description: "Promotional deposit",
	}

	after := *user
	after.Balance = domain.Balance{Coins: decimal.NewFromInt(1050), Usd: decimal.Zero}
	expectedTxn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        user.UserID,
		Type:          domain.TxnDeposit,
		Amount:        domain.Balance{Coins: decimal.NewFromInt(50), Usd: decimal.Zero},
		BalanceBefore: user.Balance,
		BalanceAfter:  after.Balance,
		Status:        domain.TxnCompleted,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockTxnRepo.On("ApplyAdjustment", ctx, mock.MatchedBy(func(p portsrepo.ApplyAdjustmentParams) bool {
		return p.UserID == user.UserID &&
			p.Type == domain.TxnDeposit &&
			p.Delta.Coins.Equal(decimal.NewFromInt(50)) &&
			p.Metadata.AdminID == adminID
	})).Return(&after, expectedTxn, nil).Once()

	updated, txn, err := suite.service.AdjustBalance(ctx, user.UserID, req, adminID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Require().NotNil(txn)
	suite.True(updated.Balance.Coins.Equal(decimal.NewFromInt(1050)))
	suite.True(txn.BalanceBefore.Coins.Equal(decimal.NewFromInt(1000)))
	suite.True(txn.BalanceAfter.Coins.Equal(decimal.NewFromInt(1050)))
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestAdjustBalance_RejectsReservedType() {
	ctx := context.Background()
	req := dto.AdjustBalanceRequest{
		Amount:      dto.AmountPayload{Coins: decPtr(10)},
		Type:        "referral_bonus",
		Description: "Not allowed through admin path",
	}

	_, _, err := suite.service.AdjustBalance(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ApplyAdjustment", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestAdjustBalance_RejectsShortDescription() {
	ctx := context.Background()
	req := dto.AdjustBalanceRequest{
		Amount:      dto.AmountPayload{Coins: decPtr(10)},
		Type:        "deposit",
		Description: "abc",
	}

	_, _, err := suite.service.AdjustBalance(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ApplyAdjustment", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestAdjustBalance_RejectsNegativeResult() {
	ctx := context.Background()
	user := makeUser(30)

	req := dto.AdjustBalanceRequest{
		Amount:      dto.AmountPayload{Coins: decPtr(-50)},
		Type:        "withdrawal",
		Description: "Withdrawal beyond balance",
	}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	_, _, err := suite.service.AdjustBalance(ctx, user.UserID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ApplyAdjustment", mock.Anything, mock.Anything)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestAdjustBalance_PropagatesConflict() {
	ctx := context.Background()
	user := makeUser(500)

	req := dto.AdjustBalanceRequest{
		Amount:      dto.AmountPayload{Coins: decPtr(-100)},
		Type:        "withdrawal",
		Description: "Concurrent withdrawal",
	}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockTxnRepo.On("ApplyAdjustment", ctx, mock.Anything).Return(nil, nil, apperrors.ErrConflict).Once()

	_, _, err := suite.service.AdjustBalance(ctx, user.UserID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestCreditReferralBonus() {
	ctx := context.Background()
	referrer := makeUser(0)
	refereeID := uuid.NewString()

	after := *referrer
	after.Balance = domain.Balance{Coins: decimal.NewFromInt(100), Usd: decimal.Zero}
	bonusTxn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        referrer.UserID,
		Type:          domain.TxnReferralBonus,
		Amount:        domain.Balance{Coins: decimal.NewFromInt(100), Usd: decimal.Zero},
		Status:        domain.TxnCompleted,
		Metadata:      domain.TransactionMetadata{ReferralUserID: refereeID},
	}

	suite.mockTxnRepo.On("ApplyAdjustment", ctx, mock.MatchedBy(func(p portsrepo.ApplyAdjustmentParams) bool {
		return p.UserID == referrer.UserID &&
			p.Type == domain.TxnReferralBonus &&
			p.Delta.Coins.Equal(decimal.NewFromInt(100)) &&
			p.Delta.Usd.IsZero() &&
			p.Metadata.ReferralUserID == refereeID
	})).Return(&after, bonusTxn, nil).Once()

	txn, err := suite.service.CreditReferralBonus(ctx, referrer.UserID, refereeID)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnReferralBonus, txn.Type)
	suite.Equal(refereeID, txn.Metadata.ReferralUserID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestAdjustBalance_InvalidatesAncestorViews() {
	ctx := context.Background()
	cache := new(MockNetworkCache)
	publisher := new(MockLedgerPublisher)
	suite.service = services.NewBalanceService(suite.mockUserRepo, suite.mockTxnRepo, cache, publisher)

	grandparent := makeUser(0)
	parent := makeUser(0)
	parent.ReferredBy = grandparent.UserID
	user := makeUser(200)
	user.ReferredBy = parent.UserID

	req := dto.AdjustBalanceRequest{
		Amount:      dto.AmountPayload{Coins: decPtr(25)},
		Type:        "deposit",
		Description: "Deposit with cached ancestors",
	}

	after := *user
	after.Balance = domain.Balance{Coins: decimal.NewFromInt(225), Usd: decimal.Zero}
	txn := &domain.Transaction{TransactionID: uuid.NewString(), UserID: user.UserID, Type: domain.TxnDeposit, Status: domain.TxnCompleted}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockTxnRepo.On("ApplyAdjustment", ctx, mock.Anything).Return(&after, txn, nil).Once()
	publisher.On("PublishTransaction", ctx, *txn).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, parent.UserID).Return(parent, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, grandparent.UserID).Return(grandparent, nil).Once()
	cache.On("InvalidateUser", ctx, user.UserID, parent.UserID, grandparent.UserID).Return(nil).Once()

	_, _, err := suite.service.AdjustBalance(ctx, user.UserID, req, uuid.NewString())

	suite.Require().NoError(err)
	cache.AssertExpectations(suite.T())
	publisher.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGetMonthlyLedgerStats_RejectsBadMonth() {
	_, err := suite.service.GetMonthlyLedgerStats(context.Background(), 2026, 13)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BalanceServiceTestSuite) TestGetMonthlyLedgerStats_UsesCalendarWindow() {
	ctx := context.Background()
	start := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTxnRepo.On("GetMonthlyStats", ctx, start, end).
		Return([]domain.MonthlyStatsRow{}, nil).Once()

	_, err := suite.service.GetMonthlyLedgerStats(ctx, 2026, 2)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// chainEntry builds one completed ledger entry from before to after coins.
func chainEntry(userID string, beforeCoins, afterCoins int64) domain.Transaction {
	before := decimal.NewFromInt(beforeCoins)
	after := decimal.NewFromInt(afterCoins)
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Type:          domain.TxnDeposit,
		Amount:        domain.Balance{Coins: after.Sub(before).Abs(), Usd: decimal.Zero},
		BalanceBefore: domain.Balance{Coins: before, Usd: decimal.Zero},
		BalanceAfter:  domain.Balance{Coins: after, Usd: decimal.Zero},
		Status:        domain.TxnCompleted,
	}
}

func (suite *BalanceServiceTestSuite) TestVerifyLedger_ValidChain() {
	ctx := context.Background()
	user := makeUser(150)

	entries := []domain.Transaction{
		chainEntry(user.UserID, 0, 100),
		chainEntry(user.UserID, 100, 70),
		chainEntry(user.UserID, 70, 150),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockTxnRepo.On("FindCompletedTransactionsAsc", ctx, user.UserID).Return(entries, nil).Once()

	err := suite.service.VerifyLedger(ctx, user.UserID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestVerifyLedger_BrokenChain() {
	ctx := context.Background()
	user := makeUser(150)

	// Second entry's before-snapshot does not match the first's after.
	entries := []domain.Transaction{
		chainEntry(user.UserID, 0, 100),
		chainEntry(user.UserID, 90, 150),
	}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockTxnRepo.On("FindCompletedTransactionsAsc", ctx, user.UserID).Return(entries, nil).Once()

	err := suite.service.VerifyLedger(ctx, user.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *BalanceServiceTestSuite) TestVerifyLedger_AmountSnapshotMismatch() {
	ctx := context.Background()
	user := makeUser(100)

	entry := chainEntry(user.UserID, 0, 100)
	entry.Amount.Coins = decimal.NewFromInt(90)

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockTxnRepo.On("FindCompletedTransactionsAsc", ctx, user.UserID).Return([]domain.Transaction{entry}, nil).Once()

	err := suite.service.VerifyLedger(ctx, user.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *BalanceServiceTestSuite) TestVerifyLedger_MaterializedMismatch() {
	ctx := context.Background()
	user := makeUser(999)

	entries := []domain.Transaction{chainEntry(user.UserID, 0, 100)}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockTxnRepo.On("FindCompletedTransactionsAsc", ctx, user.UserID).Return(entries, nil).Once()

	err := suite.service.VerifyLedger(ctx, user.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *BalanceServiceTestSuite) TestVerifyLedger_EmptyLedgerZeroBalance() {
	ctx := context.Background()
	user := makeUser(0)

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockTxnRepo.On("FindCompletedTransactionsAsc", ctx, user.UserID).Return([]domain.Transaction{}, nil).Once()

	err := suite.service.VerifyLedger(ctx, user.UserID)

	suite.Require().NoError(err)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
