package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/core/services"
	"github.com/coinadmin/backend/internal/dto"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockReferral *MockReferralFacade
	mockBalance  *MockBalanceFacade
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockReferral = new(MockReferralFacade)
	suite.mockBalance = new(MockBalanceFacade)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockReferral, suite.mockBalance)
}

func createReq(referralCode string) dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Username:     "newuser",
		Email:        " NewUser@Example.COM ",
		FirstName:    "New",
		LastName:     "User",
		Phone:        "+1555000111",
		ReferralCode: referralCode,
	}
}

func (suite *UserServiceTestSuite) TestCreateUser_WithoutReferralCode() {
	ctx := context.Background()
	adminID := uuid.NewString()

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "newuser" &&
			u.Email == "newuser@example.com" &&
			u.ReferralLevel == 1 &&
			u.ReferredBy == "" &&
			u.Balance.Coins.IsZero() &&
			u.Status == domain.UserActive &&
			u.CreatedBy == adminID
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, createReq(""), adminID)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.NotEmpty(user.ReferralCode)
	suite.Equal(1, user.ReferralLevel)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockBalance.AssertNotCalled(suite.T(), "CreditReferralBonus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_WithReferralCode() {
	ctx := context.Background()
	adminID := uuid.NewString()

	referrer := makeUser(0)
	referrer.ReferralLevel = 2
	referrer.ReferralCode = "ALICE123"

	suite.mockUserRepo.On("FindUserByReferralCode", ctx, "ALICE123").Return(referrer, nil).Once()
	suite.mockReferral.On("ValidateReferrerAttachment", ctx, mock.AnythingOfType("string"), referrer.UserID).Return(nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.ReferredBy == referrer.UserID && u.ReferralLevel == 3
	})).Return(nil).Once()
	suite.mockBalance.On("CreditReferralBonus", ctx, referrer.UserID, mock.AnythingOfType("string")).
		Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()

	user, err := suite.service.CreateUser(ctx, createReq("ALICE123"), adminID)

	suite.Require().NoError(err)
	suite.Equal(referrer.UserID, user.ReferredBy)
	suite.Equal(3, user.ReferralLevel)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockBalance.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_UnknownReferralCode() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByReferralCode", ctx, "NOPE").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.CreateUser(ctx, createReq("NOPE"), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_CyclicReferrerRejected() {
	ctx := context.Background()

	referrer := makeUser(0)
	suite.mockUserRepo.On("FindUserByReferralCode", ctx, "LOOP").Return(referrer, nil).Once()
	suite.mockReferral.On("ValidateReferrerAttachment", ctx, mock.AnythingOfType("string"), referrer.UserID).
		Return(apperrors.ErrCycle).Once()

	user, err := suite.service.CreateUser(ctx, createReq("LOOP"), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrCycle)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

// A bonus credit failure is logged but does not undo the registration.
func (suite *UserServiceTestSuite) TestCreateUser_BonusFailureNonFatal() {
	ctx := context.Background()

	referrer := makeUser(0)
	referrer.ReferralCode = "ALICE123"

	suite.mockUserRepo.On("FindUserByReferralCode", ctx, "ALICE123").Return(referrer, nil).Once()
	suite.mockReferral.On("ValidateReferrerAttachment", ctx, mock.AnythingOfType("string"), referrer.UserID).Return(nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).Return(nil).Once()
	suite.mockBalance.On("CreditReferralBonus", ctx, referrer.UserID, mock.AnythingOfType("string")).
		Return(nil, errors.New("ledger unavailable")).Once()

	user, err := suite.service.CreateUser(ctx, createReq("ALICE123"), uuid.NewString())

	suite.Require().NoError(err)
	suite.NotNil(user)
	suite.mockBalance.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()

	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.CreateUser(ctx, createReq(""), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestUpdateUserStatus_RejectsUnknownStatus() {
	err := suite.service.UpdateUserStatus(context.Background(), uuid.NewString(), domain.UserStatus("deleted"), uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUserStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUserStatus_Suspends() {
	ctx := context.Background()
	user := makeUser(0)
	adminID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUserStatus", ctx, user.UserID, domain.UserSuspended, adminID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.UpdateUserStatus(ctx, user.UserID, domain.UserSuspended, adminID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUserStatus_UnknownUser() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.UpdateUserStatus(ctx, userID, domain.UserInactive, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
