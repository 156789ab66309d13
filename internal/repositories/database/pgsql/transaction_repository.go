package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	"github.com/coinadmin/backend/internal/models"
	"github.com/coinadmin/backend/internal/utils/mapping"
)

const transactionColumns = `transaction_id, user_id, type, amount_coins, amount_usd,
	balance_before_coins, balance_before_usd, balance_after_coins, balance_after_usd,
	description, status, referral_user_id, admin_id, external_id, notes, created_at`

// PgxTransactionRepository implements the ledger repository over pgx.
type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// scanTransaction scans one transaction row in transactionColumns order.
func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.UserID, &m.Type, &m.AmountCoins, &m.AmountUsd,
		&m.BalanceBeforeCoins, &m.BalanceBeforeUsd, &m.BalanceAfterCoins, &m.BalanceAfterUsd,
		&m.Description, &m.Status, &m.ReferralUserID, &m.AdminID, &m.ExternalID, &m.Notes, &m.CreatedAt,
	)
	return m, err
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// ApplyAdjustment atomically updates the materialized balance and appends
// one completed ledger entry. The row lock is taken with NOWAIT so a
// concurrent adjustment on the same user surfaces immediately as a
// retryable conflict instead of queueing.
func (r *PgxTransactionRepository) ApplyAdjustment(ctx context.Context, params portsrepo.ApplyAdjustmentParams) (*domain.User, *domain.Transaction, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin adjustment transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	lockQuery := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 FOR UPDATE NOWAIT;`
	m, err := scanUser(tx.QueryRow(ctx, lockQuery, params.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("user %s: %w", params.UserID, apperrors.ErrNotFound)
		}
		if isPgErr(err, pgLockNotAvailable) || isPgErr(err, pgSerializationFailure) {
			return nil, nil, fmt.Errorf("adjustment already in flight for user %s: %w", params.UserID, apperrors.ErrConflict)
		}
		return nil, nil, fmt.Errorf("error locking user %s: %w", params.UserID, err)
	}
	user := mapping.ToDomainUser(m)

	// Chain check under the lock: the materialized balance must equal the
	// latest completed entry's after-snapshot (zero if none exist). A
	// mismatch means the ledger was bypassed and must be surfaced.
	chainQuery := `
		SELECT balance_after_coins, balance_after_usd FROM transactions
		WHERE user_id = $1 AND status = 'completed'
		ORDER BY created_at DESC, transaction_id DESC LIMIT 1;
	`
	lastAfter := domain.ZeroBalance()
	err = tx.QueryRow(ctx, chainQuery, params.UserID).Scan(&lastAfter.Coins, &lastAfter.Usd)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, fmt.Errorf("error reading ledger head for user %s: %w", params.UserID, err)
	}
	if !user.Balance.Equal(lastAfter) {
		return nil, nil, fmt.Errorf("%w: user %s balance (%s coins, %s usd) does not match ledger head (%s coins, %s usd)",
			apperrors.ErrIntegrity, params.UserID,
			user.Balance.Coins, user.Balance.Usd, lastAfter.Coins, lastAfter.Usd)
	}

	balanceBefore := user.Balance
	balanceAfter := balanceBefore.Add(params.Delta)
	if balanceAfter.IsNegative() {
		return nil, nil, fmt.Errorf("%w: adjustment would result in a negative balance for user %s",
			apperrors.ErrValidation, params.UserID)
	}

	updatedBy := params.Metadata.AdminID
	if updatedBy == "" {
		updatedBy = "system"
	}

	updateQuery := `
		UPDATE users SET balance_coins = $1, balance_usd = $2, version = version + 1,
			last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $5;
	`
	if _, err := tx.Exec(ctx, updateQuery,
		balanceAfter.Coins, balanceAfter.Usd, params.Now, updatedBy, params.UserID); err != nil {
		return nil, nil, fmt.Errorf("error updating balance of user %s: %w", params.UserID, err)
	}

	txn := domain.Transaction{
		TransactionID: params.TransactionID,
		UserID:        params.UserID,
		Type:          params.Type,
		Amount: domain.Balance{
			Coins: params.Delta.Coins.Abs(),
			Usd:   params.Delta.Usd.Abs(),
		},
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Description:   params.Description,
		Status:        domain.TxnCompleted,
		Metadata:      params.Metadata,
		CreatedAt:     params.Now,
	}
	tm := mapping.ToModelTransaction(txn)

	insertQuery := `
		INSERT INTO transactions (transaction_id, user_id, type, amount_coins, amount_usd,
			balance_before_coins, balance_before_usd, balance_after_coins, balance_after_usd,
			description, status, referral_user_id, admin_id, external_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		tm.TransactionID, tm.UserID, tm.Type, tm.AmountCoins, tm.AmountUsd,
		tm.BalanceBeforeCoins, tm.BalanceBeforeUsd, tm.BalanceAfterCoins, tm.BalanceAfterUsd,
		tm.Description, tm.Status, tm.ReferralUserID, tm.AdminID, tm.ExternalID, tm.Notes, tm.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("error appending ledger entry for user %s: %w", params.UserID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit adjustment for user %s: %w", params.UserID, err)
	}

	user.Balance = balanceAfter
	user.Version++
	user.LastUpdatedAt = params.Now
	user.LastUpdatedBy = updatedBy
	return &user, &txn, nil
}

// FindTransactionsByUser retrieves a page of a user's transactions, newest
// first, plus the user's total transaction count.
func (r *PgxTransactionRepository) FindTransactionsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting transactions of user %s: %w", userID, err)
	}

	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying transactions of user %s: %w", userID, err)
	}
	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// FindCompletedTransactionsAsc retrieves all completed transactions of a
// user in creation order.
func (r *PgxTransactionRepository) FindCompletedTransactionsAsc(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND status = 'completed'
		ORDER BY created_at, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger of user %s: %w", userID, err)
	}
	return collectTransactions(rows)
}

// GetLedgerSummary aggregates a user's completed transactions per type.
func (r *PgxTransactionRepository) GetLedgerSummary(ctx context.Context, userID string) ([]domain.LedgerSummaryRow, error) {
	query := `
		SELECT type, COALESCE(SUM(amount_coins), 0), COALESCE(SUM(amount_usd), 0), COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND status = 'completed'
		GROUP BY type
		ORDER BY type;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error summarizing ledger of user %s: %w", userID, err)
	}
	defer rows.Close()

	var out []domain.LedgerSummaryRow
	for rows.Next() {
		var row domain.LedgerSummaryRow
		var txnType string
		if err := rows.Scan(&txnType, &row.TotalCoins, &row.TotalUsd, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning ledger summary row: %w", err)
		}
		row.Type = domain.TransactionType(txnType)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger summary rows: %w", err)
	}
	return out, nil
}

// GetMonthlyStats aggregates completed transactions per type within
// [start, end).
func (r *PgxTransactionRepository) GetMonthlyStats(ctx context.Context, start, end time.Time) ([]domain.MonthlyStatsRow, error) {
	query := `
		SELECT type, COALESCE(SUM(amount_coins), 0), COALESCE(SUM(amount_usd), 0), COUNT(*)
		FROM transactions
		WHERE status = 'completed' AND created_at >= $1 AND created_at < $2
		GROUP BY type
		ORDER BY type;
	`
	rows, err := r.Pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly stats: %w", err)
	}
	defer rows.Close()

	var out []domain.MonthlyStatsRow
	for rows.Next() {
		var row domain.MonthlyStatsRow
		var txnType string
		if err := rows.Scan(&txnType, &row.TotalCoins, &row.TotalUsd, &row.Count); err != nil {
			return nil, fmt.Errorf("error scanning monthly stats row: %w", err)
		}
		row.Type = domain.TransactionType(txnType)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly stats rows: %w", err)
	}
	return out, nil
}

// FindRecentCompleted retrieves the most recent completed transactions
// joined with their users' names.
func (r *PgxTransactionRepository) FindRecentCompleted(ctx context.Context, limit int) ([]domain.RecentChange, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT t.transaction_id, t.user_id, t.type, t.amount_coins, t.amount_usd,
			t.balance_before_coins, t.balance_before_usd, t.balance_after_coins, t.balance_after_usd,
			t.description, t.status, t.referral_user_id, t.admin_id, t.external_id, t.notes, t.created_at,
			u.username, u.first_name, u.last_name
		FROM transactions t
		JOIN users u ON u.user_id = t.user_id
		WHERE t.status = 'completed'
		ORDER BY t.created_at DESC, t.transaction_id DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.RecentChange
	for rows.Next() {
		var m models.Transaction
		var change domain.RecentChange
		if err := rows.Scan(
			&m.TransactionID, &m.UserID, &m.Type, &m.AmountCoins, &m.AmountUsd,
			&m.BalanceBeforeCoins, &m.BalanceBeforeUsd, &m.BalanceAfterCoins, &m.BalanceAfterUsd,
			&m.Description, &m.Status, &m.ReferralUserID, &m.AdminID, &m.ExternalID, &m.Notes, &m.CreatedAt,
			&change.Username, &change.FirstName, &change.LastName,
		); err != nil {
			return nil, fmt.Errorf("error scanning recent transaction row: %w", err)
		}
		change.Transaction = mapping.ToDomainTransaction(m)
		out = append(out, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent transaction rows: %w", err)
	}
	return out, nil
}
