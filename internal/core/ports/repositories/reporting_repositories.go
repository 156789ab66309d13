package repositories

import (
	"context"
	"time"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the aggregate queries behind the statistics
// and dashboard endpoints. All aggregates cover active users only.
type ReportingRepository interface {
	// GetBalanceTotals sums and averages materialized balances.
	GetBalanceTotals(ctx context.Context) (domain.BalanceTotals, error)

	// GetBalanceDistribution buckets users by coin balance. Boundaries must
	// be ascending; the final bucket is open-ended.
	GetBalanceDistribution(ctx context.Context, boundaries []decimal.Decimal) ([]domain.BalanceBucket, error)

	// FindTopBalances retrieves users ordered by coin balance descending.
	FindTopBalances(ctx context.Context, limit int) ([]domain.User, error)

	// CountActiveUsers counts active users, optionally bounded to a creation
	// window [start, end). Zero times mean unbounded.
	CountActiveUsers(ctx context.Context, start, end time.Time) (int64, error)

	// CountReferredUsers counts users with a referrer, optionally bounded to
	// a creation window [start, end). Zero times mean unbounded.
	CountReferredUsers(ctx context.Context, start, end time.Time) (int64, error)

	// GetLevelDistribution counts referred users per referral level.
	GetLevelDistribution(ctx context.Context) ([]domain.LevelCount, error)

	// FindTopReferrers ranks users by their number of direct referees.
	FindTopReferrers(ctx context.Context, limit int) ([]domain.TopReferrer, error)
}
