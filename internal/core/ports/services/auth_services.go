package services

import (
	"context"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/coinadmin/backend/internal/dto"
)

// AuthSvcFacade handles administrator authentication and profile management.
type AuthSvcFacade interface {
	// Login verifies credentials for an active admin, records the login time
	// and returns a signed JWT plus the admin.
	Login(ctx context.Context, req dto.LoginRequest) (string, *domain.Admin, error)

	// GetProfile retrieves the authenticated admin.
	GetProfile(ctx context.Context, adminID string) (*domain.Admin, error)

	// UpdateProfile updates name and/or email of the authenticated admin.
	UpdateProfile(ctx context.Context, adminID string, req dto.UpdateProfileRequest) (*domain.Admin, error)

	// ChangePassword verifies the current password and stores a new hash.
	ChangePassword(ctx context.Context, adminID string, req dto.ChangePasswordRequest) error
}
