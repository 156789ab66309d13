package domain

import (
	"errors"
	"time"
)

var (
	// ErrWrongPassword indicates a failed credential check.
	ErrWrongPassword = errors.New("wrong password")
)

// AdminRole controls which back-office operations an admin may perform.
type AdminRole string

const (
	RoleViewer     AdminRole = "viewer"
	RoleAdmin      AdminRole = "admin"
	RoleSuperAdmin AdminRole = "super_admin"
)

// CanAdjustBalances reports whether the role may apply balance adjustments
// and mutate user status.
func (r AdminRole) CanAdjustBalances() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Admin is a back-office operator. Admins authenticate with email and
// password and act on users; they hold no balance themselves.
type Admin struct {
	AdminID      string     `json:"adminID"` // Primary key (UUID)
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         AdminRole  `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	AuditFields
}
