package services

import (
	"context"

	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/coinadmin/backend/internal/dto"
)

// UserReaderSvc defines read operations over users.
type UserReaderSvc interface {
	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a filtered page of users plus the total match count.
	ListUsers(ctx context.Context, params portsrepo.ListUsersParams) ([]domain.User, int64, error)
}

// UserWriterSvc defines account creation and lifecycle operations.
type UserWriterSvc interface {
	// CreateUser registers a new user. When the request carries a referrer's
	// referral code the new user is linked to that referrer, assigned
	// referrer.ReferralLevel+1, and a signup referral bonus is credited to
	// the referrer.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorAdminID string) (*domain.User, error)

	// UpdateUserStatus changes a user's lifecycle status.
	UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus, actorAdminID string) error
}

// UserSvcFacade combines all user service operations.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
