package domain

import "time"

// UserStatus indicates the lifecycle state of a user account.
// Only active users participate in reporting aggregates and referral
// statistics by default.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// User represents a participant in the coin economy. Users are never
// deleted; status changes cover the whole lifecycle.
//
// ReferralLevel is assigned once at creation: 1 for users without a
// referrer, referrer.ReferralLevel+1 otherwise. ReferredBy is written once
// at creation (after the cycle check) and never updated, so level and
// parent cannot drift apart through any exposed operation.
type User struct {
	UserID        string     `json:"userID"` // Primary key (UUID)
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Phone         string     `json:"phone,omitempty"`
	ReferralCode  string     `json:"referralCode"`
	ReferredBy    string     `json:"referredBy,omitempty"` // Nullable FK -> users.user_id
	ReferralLevel int        `json:"referralLevel"`
	Balance       Balance    `json:"balance"` // Materialized; must equal the ledger's cumulative effect
	Status        UserStatus `json:"status"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	Version       int64      `json:"-"` // Bumped on every balance write
	AuditFields
}

// FullName returns the display name used in admin listings.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsActive reports whether the user participates in aggregates.
func (u User) IsActive() bool {
	return u.Status == UserActive
}
