package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/dto"
	"github.com/coinadmin/backend/internal/middleware"
)

// userService manages user accounts: registration with referral linkage and
// lifecycle status. Balances are owned by the balance service.
type userService struct {
	userRepo   portsrepo.UserRepository
	referral   portssvc.ReferralSvcFacade
	balanceSvc portssvc.BalanceSvcFacade
}

// NewUserService creates the user service.
func NewUserService(
	userRepo portsrepo.UserRepository,
	referral portssvc.ReferralSvcFacade,
	balanceSvc portssvc.BalanceSvcFacade,
) portssvc.UserSvcFacade {
	return &userService{
		userRepo:   userRepo,
		referral:   referral,
		balanceSvc: balanceSvc,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// newReferralCode derives a unique referral code for a new user. The unique
// index on referral_code is the final arbiter.
func newReferralCode(username string) string {
	base := strings.ToUpper(strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, username))
	if len(base) > 6 {
		base = base[:6]
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return base + suffix
}

// CreateUser registers a new user, linking them to a referrer when the
// request carries a referral code. The referral level is fixed here, at
// creation time, and never recomputed.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorAdminID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("username", req.Username))
	now := time.Now().UTC()

	user := domain.User{
		UserID:        uuid.NewString(),
		Username:      req.Username,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         strings.TrimSpace(req.Phone),
		ReferralCode:  newReferralCode(req.Username),
		ReferralLevel: 1,
		Balance:       domain.ZeroBalance(),
		Status:        domain.UserActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorAdminID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorAdminID,
		},
	}

	var referrer *domain.User
	if req.ReferralCode != "" {
		found, err := s.userRepo.FindUserByReferralCode(ctx, req.ReferralCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: referral code %q does not exist", apperrors.ErrValidation, req.ReferralCode)
			}
			return nil, fmt.Errorf("failed to resolve referral code: %w", err)
		}
		if err := s.referral.ValidateReferrerAttachment(ctx, user.UserID, found.UserID); err != nil {
			return nil, err
		}
		referrer = found
		user.ReferredBy = referrer.UserID
		user.ReferralLevel = referrer.ReferralLevel + 1
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created",
		slog.String("user_id", user.UserID),
		slog.Int("referral_level", user.ReferralLevel))

	// The signup bonus is its own atomic ledger unit. A failure here leaves
	// the registration standing and is surfaced in logs only.
	if referrer != nil {
		if _, err := s.balanceSvc.CreditReferralBonus(ctx, referrer.UserID, user.UserID); err != nil {
			logger.Error("Failed to credit referral signup bonus",
				slog.String("referrer_id", referrer.UserID),
				slog.String("error", err.Error()))
		}
	}

	return &user, nil
}

// GetUserByID retrieves a user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers retrieves a filtered page of users.
func (s *userService) ListUsers(ctx context.Context, params portsrepo.ListUsersParams) ([]domain.User, int64, error) {
	return s.userRepo.ListUsers(ctx, params)
}

// UpdateUserStatus changes a user's lifecycle status. Users are never
// deleted; suspension and deactivation are the only removal mechanisms.
func (s *userService) UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus, actorAdminID string) error {
	switch status {
	case domain.UserActive, domain.UserInactive, domain.UserSuspended:
	default:
		return fmt.Errorf("%w: unknown user status %q", apperrors.ErrValidation, status)
	}

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.UpdateUserStatus(ctx, userID, status, actorAdminID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update status of user %s: %w", userID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("User status updated",
		slog.String("user_id", userID),
		slog.String("status", string(status)),
		slog.String("admin_id", actorAdminID))
	return nil
}
