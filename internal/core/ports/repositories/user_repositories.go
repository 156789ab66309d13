package repositories

import (
	"context"
	"time"

	"github.com/coinadmin/backend/internal/core/domain"
)

// ListUsersParams narrows and orders a user listing.
type ListUsersParams struct {
	Status    domain.UserStatus // Empty means all statuses
	Search    string            // Matches username, first/last name, email (case-insensitive)
	SortBy    string            // One of: balance_coins, balance_usd, username, created_at
	SortDesc  bool
	Limit     int
	Offset    int
}

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByReferralCode retrieves a user by their unique referral code.
	FindUserByReferralCode(ctx context.Context, code string) (*domain.User, error)

	// FindUsersByIDs retrieves the given users keyed by ID. Missing IDs are
	// simply absent from the result.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// FindUsersByReferrer retrieves the direct referees of one user in
	// creation order.
	FindUsersByReferrer(ctx context.Context, referrerID string) ([]domain.User, error)

	// FindUsersByReferrers retrieves the direct referees of any of the given
	// users in creation order. Used to advance a breadth-first frontier.
	FindUsersByReferrers(ctx context.Context, referrerIDs []string) ([]domain.User, error)

	// ListUsers retrieves a filtered page of users plus the total match count.
	ListUsers(ctx context.Context, params ListUsersParams) ([]domain.User, int64, error)
}

// UserWriter defines write operations for user data. Balance columns are
// never written here; the adjustment path owns them.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUserStatus changes a user's lifecycle status.
	UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus, updatedBy string, now time.Time) error
}

// UserRepository combines all user repository operations.
type UserRepository interface {
	UserReader
	UserWriter
}
