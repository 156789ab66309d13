package services

import (
	"context"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/coinadmin/backend/internal/dto"
)

// BalanceAdjusterSvc is the balance adjustment engine: the only writer of
// user balances.
type BalanceAdjusterSvc interface {
	// AdjustBalance validates and atomically applies a balance delta to one
	// user, producing exactly one completed ledger entry attributed to the
	// acting administrator. Returns the updated user and the written entry.
	AdjustBalance(ctx context.Context, userID string, req dto.AdjustBalanceRequest, actorAdminID string) (*domain.User, *domain.Transaction, error)

	// CreditReferralBonus credits the signup bonus to a referrer with a
	// referral_bonus ledger entry attributing the new referee. Internal
	// flow, not reachable through the administrative adjustment endpoint.
	CreditReferralBonus(ctx context.Context, referrerID, refereeID string) (*domain.Transaction, error)
}

// LedgerReaderSvc exposes ledger queries and integrity checks.
type LedgerReaderSvc interface {
	// GetUserTransactions retrieves a page of a user's ledger, newest first.
	GetUserTransactions(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error)

	// GetLedgerSummary aggregates a user's completed entries per type.
	GetLedgerSummary(ctx context.Context, userID string) ([]domain.LedgerSummaryRow, error)

	// GetMonthlyLedgerStats aggregates completed entries per type for one
	// calendar month.
	GetMonthlyLedgerStats(ctx context.Context, year int, month int) ([]domain.MonthlyStatsRow, error)

	// VerifyLedger replays a user's completed entries from the zero balance
	// and checks the chain and the materialized balance. A mismatch is
	// reported as apperrors.ErrIntegrity.
	VerifyLedger(ctx context.Context, userID string) error
}

// BalanceSvcFacade combines adjustment and ledger read operations.
type BalanceSvcFacade interface {
	BalanceAdjusterSvc
	LedgerReaderSvc
}
