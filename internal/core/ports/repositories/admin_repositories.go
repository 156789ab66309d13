package repositories

import (
	"context"
	"time"

	"github.com/coinadmin/backend/internal/core/domain"
)

// AdminRepository defines persistence operations for back-office operators.
type AdminRepository interface {
	// FindAdminByID retrieves an admin by ID.
	FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error)

	// FindAdminByEmail retrieves an admin by email.
	FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)

	// SaveAdmin persists a new admin.
	SaveAdmin(ctx context.Context, admin domain.Admin) error

	// UpdateAdminProfile updates name and email.
	UpdateAdminProfile(ctx context.Context, adminID, name, email string, now time.Time) error

	// UpdateAdminPassword replaces the stored password hash.
	UpdateAdminPassword(ctx context.Context, adminID, passwordHash string, now time.Time) error

	// UpdateAdminLastLogin records a successful login.
	UpdateAdminLastLogin(ctx context.Context, adminID string, now time.Time) error
}
