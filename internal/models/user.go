package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// User is the persistence shape of a user row.
type User struct {
	UserID        string          `db:"user_id"`
	Username      string          `db:"username"`
	Email         string          `db:"email"`
	FirstName     string          `db:"first_name"`
	LastName      string          `db:"last_name"`
	Phone         sql.NullString  `db:"phone"`
	ReferralCode  string          `db:"referral_code"`
	ReferredBy    sql.NullString  `db:"referred_by"`
	ReferralLevel int             `db:"referral_level"`
	BalanceCoins  decimal.Decimal `db:"balance_coins"`
	BalanceUsd    decimal.Decimal `db:"balance_usd"`
	Status        string          `db:"status"`
	LastLogin     sql.NullTime    `db:"last_login"`
	Version       int64           `db:"version"`
	AuditFields
}

// AuditFields holds the audit columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}
