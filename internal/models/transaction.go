package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persistence shape of a ledger entry row. Rows are
// insert-only; there are no update paths.
type Transaction struct {
	TransactionID      string          `db:"transaction_id"`
	UserID             string          `db:"user_id"`
	Type               string          `db:"type"`
	AmountCoins        decimal.Decimal `db:"amount_coins"`
	AmountUsd          decimal.Decimal `db:"amount_usd"`
	BalanceBeforeCoins decimal.Decimal `db:"balance_before_coins"`
	BalanceBeforeUsd   decimal.Decimal `db:"balance_before_usd"`
	BalanceAfterCoins  decimal.Decimal `db:"balance_after_coins"`
	BalanceAfterUsd    decimal.Decimal `db:"balance_after_usd"`
	Description        string          `db:"description"`
	Status             string          `db:"status"`
	ReferralUserID     sql.NullString  `db:"referral_user_id"`
	AdminID            sql.NullString  `db:"admin_id"`
	ExternalID         sql.NullString  `db:"external_id"`
	Notes              sql.NullString  `db:"notes"`
	CreatedAt          time.Time       `db:"created_at"`
}
