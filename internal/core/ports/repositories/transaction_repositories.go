package repositories

import (
	"context"
	"time"

	"github.com/coinadmin/backend/internal/core/domain"
)

// ApplyAdjustmentParams carries one balance adjustment through the atomic
// read-modify-write. Delta components may be negative; the repository
// rejects any result that would push a balance component below zero.
type ApplyAdjustmentParams struct {
	TransactionID string
	UserID        string
	Delta         domain.Balance
	Type          domain.TransactionType
	Description   string
	Metadata      domain.TransactionMetadata
	Now           time.Time
}

// LedgerWriter defines the single write path into the ledger.
type LedgerWriter interface {
	// ApplyAdjustment atomically updates the user's materialized balance and
	// appends exactly one completed transaction capturing the before/after
	// snapshots. Adjustments on the same user are serialized; contention is
	// reported as apperrors.ErrConflict and is safe to retry. A materialized
	// balance that disagrees with the latest completed entry is reported as
	// apperrors.ErrIntegrity and nothing is written.
	ApplyAdjustment(ctx context.Context, params ApplyAdjustmentParams) (*domain.User, *domain.Transaction, error)
}

// LedgerReader defines read operations over the ledger.
type LedgerReader interface {
	// FindTransactionsByUser retrieves a page of a user's transactions,
	// newest first, plus the user's total transaction count.
	FindTransactionsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error)

	// FindCompletedTransactionsAsc retrieves all of a user's completed
	// transactions in creation order, for chain verification.
	FindCompletedTransactionsAsc(ctx context.Context, userID string) ([]domain.Transaction, error)

	// GetLedgerSummary aggregates a user's completed transactions per type.
	GetLedgerSummary(ctx context.Context, userID string) ([]domain.LedgerSummaryRow, error)

	// GetMonthlyStats aggregates completed transactions per type within
	// [start, end).
	GetMonthlyStats(ctx context.Context, start, end time.Time) ([]domain.MonthlyStatsRow, error)

	// FindRecentCompleted retrieves the most recent completed transactions
	// joined with their users' names.
	FindRecentCompleted(ctx context.Context, limit int) ([]domain.RecentChange, error)
}

// TransactionRepository combines all ledger repository operations.
type TransactionRepository interface {
	LedgerWriter
	LedgerReader
}
