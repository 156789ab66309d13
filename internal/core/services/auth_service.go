package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/dto"
	"github.com/coinadmin/backend/internal/middleware"
	"github.com/coinadmin/backend/internal/utils"
)

// AuthConfig carries the token-signing parameters of the auth service.
type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	JWTIssuer string
}

// authService authenticates administrators and manages their profiles.
type authService struct {
	adminRepo portsrepo.AdminRepository
	cfg       AuthConfig
}

// NewAuthService creates the auth service.
func NewAuthService(adminRepo portsrepo.AdminRepository, cfg AuthConfig) portssvc.AuthSvcFacade {
	return &authService{adminRepo: adminRepo, cfg: cfg}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies credentials for an active admin and returns a signed JWT.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (string, *domain.Admin, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := s.adminRepo.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials or account disabled", apperrors.ErrUnauthorized)
		}
		return "", nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if !admin.IsActive {
		return "", nil, fmt.Errorf("%w: invalid credentials or account disabled", apperrors.ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(req.Password, admin.PasswordHash) {
		logger.Warn("Failed login attempt", slog.String("email", email))
		return "", nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	now := time.Now().UTC()
	if err := s.adminRepo.UpdateAdminLastLogin(ctx, admin.AdminID, now); err != nil {
		logger.Warn("Failed to record last login", slog.String("admin_id", admin.AdminID), slog.String("error", err.Error()))
	}
	admin.LastLogin = &now

	claims := middleware.AdminClaims{
		Email: admin.Email,
		Role:  string(admin.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.AdminID,
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("Admin logged in", slog.String("admin_id", admin.AdminID))
	return token, admin, nil
}

// GetProfile retrieves the authenticated admin.
func (s *authService) GetProfile(ctx context.Context, adminID string) (*domain.Admin, error) {
	return s.adminRepo.FindAdminByID(ctx, adminID)
}

// UpdateProfile updates name and/or email of the authenticated admin.
func (s *authService) UpdateProfile(ctx context.Context, adminID string, req dto.UpdateProfileRequest) (*domain.Admin, error) {
	admin, err := s.adminRepo.FindAdminByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	name := admin.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	email := admin.Email
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	now := time.Now().UTC()
	if err := s.adminRepo.UpdateAdminProfile(ctx, adminID, name, email, now); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already in use", apperrors.ErrValidation)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	admin.Name = name
	admin.Email = email
	admin.LastUpdatedAt = now
	return admin, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *authService) ChangePassword(ctx context.Context, adminID string, req dto.ChangePasswordRequest) error {
	admin, err := s.adminRepo.FindAdminByID(ctx, adminID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, admin.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.adminRepo.UpdateAdminPassword(ctx, adminID, hash, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Admin password changed", slog.String("admin_id", adminID))
	return nil
}
