package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/core/services"
	"github.com/coinadmin/backend/internal/dto"
	"github.com/coinadmin/backend/internal/middleware"
	"github.com/coinadmin/backend/internal/utils"
)

const testJWTSecret = "test-signing-secret"

type AuthServiceTestSuite struct {
	suite.Suite
	mockAdminRepo *MockAdminRepository
	service       portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockAdminRepo = new(MockAdminRepository)
	suite.service = services.NewAuthService(suite.mockAdminRepo, services.AuthConfig{
		JWTSecret: testJWTSecret,
		JWTExpiry: time.Hour,
		JWTIssuer: "coinadmin-test",
	})
}

func (suite *AuthServiceTestSuite) makeAdmin(password string) *domain.Admin {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &domain.Admin{
		AdminID:      uuid.NewString(),
		Name:         "Test Admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	admin := suite.makeAdmin("correct-horse")

	suite.mockAdminRepo.On("FindAdminByEmail", ctx, "admin@example.com").Return(admin, nil).Once()
	suite.mockAdminRepo.On("UpdateAdminLastLogin", ctx, admin.AdminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	token, got, err := suite.service.Login(ctx, dto.LoginRequest{
		Email:    " Admin@Example.COM ",
		Password: "correct-horse",
	})

	suite.Require().NoError(err)
	suite.Equal(admin.AdminID, got.AdminID)
	suite.NotNil(got.LastLogin)

	claims := &middleware.AdminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.True(parsed.Valid)
	suite.Equal(admin.AdminID, claims.Subject)
	suite.Equal(string(domain.RoleAdmin), claims.Role)
	suite.Equal("coinadmin-test", claims.Issuer)
	suite.mockAdminRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	admin := suite.makeAdmin("correct-horse")

	suite.mockAdminRepo.On("FindAdminByEmail", ctx, admin.Email).Return(admin, nil).Once()

	token, got, err := suite.service.Login(ctx, dto.LoginRequest{Email: admin.Email, Password: "battery-staple"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Empty(token)
	suite.Nil(got)
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveAccount() {
	ctx := context.Background()
	admin := suite.makeAdmin("correct-horse")
	admin.IsActive = false

	suite.mockAdminRepo.On("FindAdminByEmail", ctx, admin.Email).Return(admin, nil).Once()

	_, _, err := suite.service.Login(ctx, dto.LoginRequest{Email: admin.Email, Password: "correct-horse"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// An unknown email reports the same unauthorized error as a bad password.
func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()

	suite.mockAdminRepo.On("FindAdminByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile_DuplicateEmail() {
	ctx := context.Background()
	admin := suite.makeAdmin("correct-horse")
	newEmail := "taken@example.com"

	suite.mockAdminRepo.On("FindAdminByID", ctx, admin.AdminID).Return(admin, nil).Once()
	suite.mockAdminRepo.On("UpdateAdminProfile", ctx, admin.AdminID, admin.Name, newEmail, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrDuplicate).Once()

	got, err := suite.service.UpdateProfile(ctx, admin.AdminID, dto.UpdateProfileRequest{Email: &newEmail})

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile_TrimsAndLowercases() {
	ctx := context.Background()
	admin := suite.makeAdmin("correct-horse")
	name := "  Renamed Admin  "
	email := " Renamed@Example.COM "

	suite.mockAdminRepo.On("FindAdminByID", ctx, admin.AdminID).Return(admin, nil).Once()
	suite.mockAdminRepo.On("UpdateAdminProfile", ctx, admin.AdminID, "Renamed Admin", "renamed@example.com", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	got, err := suite.service.UpdateProfile(ctx, admin.AdminID, dto.UpdateProfileRequest{Name: &name, Email: &email})

	suite.Require().NoError(err)
	suite.Equal("Renamed Admin", got.Name)
	suite.Equal("renamed@example.com", got.Email)
	suite.mockAdminRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestChangePassword_WrongCurrent() {
	ctx := context.Background()
	admin := suite.makeAdmin("correct-horse")

	suite.mockAdminRepo.On("FindAdminByID", ctx, admin.AdminID).Return(admin, nil).Once()

	err := suite.service.ChangePassword(ctx, admin.AdminID, dto.ChangePasswordRequest{
		CurrentPassword: "battery-staple",
		NewPassword:     "a-new-secret",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAdminRepo.AssertNotCalled(suite.T(), "UpdateAdminPassword",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestChangePassword_StoresNewHash() {
	ctx := context.Background()
	admin := suite.makeAdmin("correct-horse")

	suite.mockAdminRepo.On("FindAdminByID", ctx, admin.AdminID).Return(admin, nil).Once()
	suite.mockAdminRepo.On("UpdateAdminPassword", ctx, admin.AdminID, mock.MatchedBy(func(hash string) bool {
		return utils.CheckPasswordHash("a-new-secret", hash)
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ChangePassword(ctx, admin.AdminID, dto.ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "a-new-secret",
	})

	suite.Require().NoError(err)
	suite.mockAdminRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
