package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/dto"
	"github.com/coinadmin/backend/internal/middleware"
)

const (
	descriptionMinLen = 5
	descriptionMaxLen = 200

	// ancestorWalkLimit bounds referrer-chain walks. Levels are assigned at
	// creation and chains cannot grow past this in practice; the limit only
	// guards against corrupted data.
	ancestorWalkLimit = 100
)

// signupBonusCoins is credited to a referrer when one of their referees
// registers.
var signupBonusCoins = decimal.NewFromInt(100)

// balanceService is the balance adjustment engine and ledger read surface.
// It is the only writer of user balances.
type balanceService struct {
	userRepo  portsrepo.UserRepository
	txnRepo   portsrepo.TransactionRepository
	cache     portsrepo.NetworkCache
	publisher portsrepo.LedgerEventPublisher
}

// NewBalanceService creates the balance service. Cache and publisher are
// optional; pass nil to disable them.
func NewBalanceService(
	userRepo portsrepo.UserRepository,
	txnRepo portsrepo.TransactionRepository,
	cache portsrepo.NetworkCache,
	publisher portsrepo.LedgerEventPublisher,
) portssvc.BalanceSvcFacade {
	return &balanceService{
		userRepo:  userRepo,
		txnRepo:   txnRepo,
		cache:     cache,
		publisher: publisher,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// AdjustBalance validates and applies an administrative balance adjustment.
func (s *balanceService) AdjustBalance(ctx context.Context, userID string, req dto.AdjustBalanceRequest, actorAdminID string) (*domain.User, *domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("user_id", userID),
		slog.String("admin_id", actorAdminID),
		slog.String("type", req.Type),
	)

	txnType := domain.TransactionType(req.Type)
	if !domain.AdminAdjustmentTypes[txnType] {
		return nil, nil, fmt.Errorf("%w: transaction type %q is not allowed for administrative adjustments", apperrors.ErrValidation, req.Type)
	}
	if l := len(req.Description); l < descriptionMinLen || l > descriptionMaxLen {
		return nil, nil, fmt.Errorf("%w: description must be between %d and %d characters", apperrors.ErrValidation, descriptionMinLen, descriptionMaxLen)
	}

	delta := req.Delta()

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user %s for adjustment: %w", userID, err)
	}

	// Pre-check against the balance we just read. The repository re-checks
	// under the row lock, which is authoritative.
	if user.Balance.Add(delta).IsNegative() {
		logger.Warn("Adjustment would result in negative balance",
			slog.String("balance_coins", user.Balance.Coins.String()),
			slog.String("delta_coins", delta.Coins.String()))
		return nil, nil, fmt.Errorf("%w: adjustment of (%s coins, %s usd) on balance (%s coins, %s usd) would result in a negative balance",
			apperrors.ErrValidation, delta.Coins, delta.Usd, user.Balance.Coins, user.Balance.Usd)
	}

	updated, txn, err := s.txnRepo.ApplyAdjustment(ctx, portsrepo.ApplyAdjustmentParams{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Delta:         delta,
		Type:          txnType,
		Description:   req.Description,
		Metadata: domain.TransactionMetadata{
			AdminID: actorAdminID,
			Notes:   "Balance adjustment by administrator",
		},
		Now: time.Now().UTC(),
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Balance adjusted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("coins_after", updated.Balance.Coins.String()),
		slog.String("usd_after", updated.Balance.Usd.String()))

	s.afterLedgerWrite(ctx, updated, txn)

	return updated, txn, nil
}

// CreditReferralBonus credits the signup bonus to a referrer.
func (s *balanceService) CreditReferralBonus(ctx context.Context, referrerID, refereeID string) (*domain.Transaction, error) {
	updated, txn, err := s.txnRepo.ApplyAdjustment(ctx, portsrepo.ApplyAdjustmentParams{
		TransactionID: uuid.NewString(),
		UserID:        referrerID,
		Delta:         domain.Balance{Coins: signupBonusCoins, Usd: decimal.Zero},
		Type:          domain.TxnReferralBonus,
		Description:   "Referral signup bonus",
		Metadata: domain.TransactionMetadata{
			ReferralUserID: refereeID,
		},
		Now: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to credit referral bonus to %s: %w", referrerID, err)
	}

	s.afterLedgerWrite(ctx, updated, txn)

	return txn, nil
}

// afterLedgerWrite publishes the committed entry and drops cached network
// views containing the adjusted user. Both are best-effort.
func (s *balanceService) afterLedgerWrite(ctx context.Context, user *domain.User, txn *domain.Transaction) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.publisher != nil {
		if err := s.publisher.PublishTransaction(ctx, *txn); err != nil {
			logger.Error("Failed to publish ledger event", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
		}
	}

	if s.cache != nil {
		roots, err := s.ancestorIDs(ctx, user)
		if err != nil {
			logger.Warn("Failed to walk ancestors for cache invalidation", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
			roots = []string{user.UserID}
		}
		if err := s.cache.InvalidateUser(ctx, roots...); err != nil {
			logger.Warn("Failed to invalidate network cache", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
		}
	}
}

// ancestorIDs returns the user plus every ancestor along the referrer chain.
// Any ancestor's cached network view contains this user's balance.
func (s *balanceService) ancestorIDs(ctx context.Context, user *domain.User) ([]string, error) {
	ids := []string{user.UserID}
	parentID := user.ReferredBy
	for depth := 0; parentID != "" && depth < ancestorWalkLimit; depth++ {
		parent, err := s.userRepo.FindUserByID(ctx, parentID)
		if err != nil {
			return ids, err
		}
		ids = append(ids, parent.UserID)
		parentID = parent.ReferredBy
	}
	return ids, nil
}

// GetUserTransactions retrieves a page of a user's ledger, newest first.
func (s *balanceService) GetUserTransactions(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, 0, err
	}
	return s.txnRepo.FindTransactionsByUser(ctx, userID, limit, offset)
}

// GetLedgerSummary aggregates a user's completed entries per type.
func (s *balanceService) GetLedgerSummary(ctx context.Context, userID string) ([]domain.LedgerSummaryRow, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.txnRepo.GetLedgerSummary(ctx, userID)
}

// GetMonthlyLedgerStats aggregates completed entries for one calendar month.
func (s *balanceService) GetMonthlyLedgerStats(ctx context.Context, year int, month int) ([]domain.MonthlyStatsRow, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", apperrors.ErrValidation)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return s.txnRepo.GetMonthlyStats(ctx, start, end)
}

// VerifyLedger replays a user's completed entries from the zero balance and
// checks the chain against the materialized balance.
func (s *balanceService) VerifyLedger(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	entries, err := s.txnRepo.FindCompletedTransactionsAsc(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load ledger for verification of user %s: %w", userID, err)
	}

	running := domain.ZeroBalance()
	for _, entry := range entries {
		if !entry.BalanceBefore.Equal(running) {
			return fmt.Errorf("%w: transaction %s has balanceBefore (%s coins, %s usd), expected (%s coins, %s usd)",
				apperrors.ErrIntegrity, entry.TransactionID,
				entry.BalanceBefore.Coins, entry.BalanceBefore.Usd,
				running.Coins, running.Usd)
		}
		// Amounts are stored as magnitudes; the snapshot delta must match
		// them component-wise in absolute value.
		stepCoins := entry.BalanceAfter.Coins.Sub(entry.BalanceBefore.Coins).Abs()
		stepUsd := entry.BalanceAfter.Usd.Sub(entry.BalanceBefore.Usd).Abs()
		if !stepCoins.Equal(entry.Amount.Coins) || !stepUsd.Equal(entry.Amount.Usd) {
			return fmt.Errorf("%w: transaction %s amount (%s coins, %s usd) does not match its balance snapshots",
				apperrors.ErrIntegrity, entry.TransactionID, entry.Amount.Coins, entry.Amount.Usd)
		}
		running = entry.BalanceAfter
	}

	if !user.Balance.Equal(running) {
		return fmt.Errorf("%w: user %s materialized balance (%s coins, %s usd) does not equal ledger replay (%s coins, %s usd)",
			apperrors.ErrIntegrity, userID,
			user.Balance.Coins, user.Balance.Usd,
			running.Coins, running.Usd)
	}

	return nil
}
