package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	"github.com/coinadmin/backend/internal/models"
	"github.com/coinadmin/backend/internal/utils/mapping"
)

// PgxReportingRepository implements the aggregate queries over pgx.
type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for reporting queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetBalanceTotals sums and averages materialized balances of active users.
func (r *PgxReportingRepository) GetBalanceTotals(ctx context.Context) (domain.BalanceTotals, error) {
	query := `
		SELECT COALESCE(SUM(balance_coins), 0), COALESCE(SUM(balance_usd), 0),
			COALESCE(AVG(balance_coins), 0), COALESCE(AVG(balance_usd), 0)
		FROM users WHERE status = 'active';
	`
	var totals domain.BalanceTotals
	err := r.Pool.QueryRow(ctx, query).Scan(&totals.TotalCoins, &totals.TotalUsd, &totals.AvgCoins, &totals.AvgUsd)
	if err != nil {
		return domain.BalanceTotals{}, fmt.Errorf("error querying balance totals: %w", err)
	}
	return totals, nil
}

// GetBalanceDistribution buckets active users by coin balance. Boundaries
// must be ascending; the final bucket is open-ended. Empty buckets are
// returned with zero counts so the report shape is stable.
func (r *PgxReportingRepository) GetBalanceDistribution(ctx context.Context, boundaries []decimal.Decimal) ([]domain.BalanceBucket, error) {
	if len(boundaries) == 0 {
		return nil, nil
	}

	// width_bucket is 1-based and puts values below the first boundary in
	// bucket 0; the distribution starts at the first boundary, so bucket 0
	// stays empty when boundaries[0] is zero.
	query := `
		SELECT width_bucket(balance_coins, $1::numeric[]) AS bucket,
			COUNT(*), COALESCE(SUM(balance_coins), 0), COALESCE(SUM(balance_usd), 0)
		FROM users WHERE status = 'active'
		GROUP BY bucket;
	`
	bounds := make([]string, len(boundaries))
	for i, b := range boundaries {
		bounds[i] = b.String()
	}
	rows, err := r.Pool.Query(ctx, query, bounds)
	if err != nil {
		return nil, fmt.Errorf("error querying balance distribution: %w", err)
	}
	defer rows.Close()

	buckets := make([]domain.BalanceBucket, len(boundaries))
	for i := range boundaries {
		buckets[i].Lower = boundaries[i]
		if i+1 < len(boundaries) {
			upper := boundaries[i+1]
			buckets[i].Upper = &upper
		}
	}

	for rows.Next() {
		var bucket int
		var count int64
		var coins, usd decimal.Decimal
		if err := rows.Scan(&bucket, &count, &coins, &usd); err != nil {
			return nil, fmt.Errorf("error scanning distribution row: %w", err)
		}
		if bucket < 1 || bucket > len(buckets) {
			continue
		}
		buckets[bucket-1].Count = count
		buckets[bucket-1].TotalCoins = coins
		buckets[bucket-1].TotalUsd = usd
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution rows: %w", err)
	}
	return buckets, nil
}

// FindTopBalances retrieves active users ordered by coin balance descending.
func (r *PgxReportingRepository) FindTopBalances(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE status = 'active'
		ORDER BY balance_coins DESC, user_id
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying top balances: %w", err)
	}
	return collectUsers(rows)
}

// CountActiveUsers counts active users created within [start, end).
// Zero times mean unbounded.
func (r *PgxReportingRepository) CountActiveUsers(ctx context.Context, start, end time.Time) (int64, error) {
	return r.countUsers(ctx, `status = 'active'`, start, end)
}

// CountReferredUsers counts users with a referrer created within
// [start, end). Zero times mean unbounded.
func (r *PgxReportingRepository) CountReferredUsers(ctx context.Context, start, end time.Time) (int64, error) {
	return r.countUsers(ctx, `referred_by IS NOT NULL`, start, end)
}

func (r *PgxReportingRepository) countUsers(ctx context.Context, where string, start, end time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE ` + where
	args := []any{}
	if !start.IsZero() {
		args = append(args, start)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	var count int64
	if err := r.Pool.QueryRow(ctx, query+";", args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return count, nil
}

// GetLevelDistribution counts referred users per referral level.
func (r *PgxReportingRepository) GetLevelDistribution(ctx context.Context) ([]domain.LevelCount, error) {
	query := `
		SELECT referral_level, COUNT(*) FROM users
		WHERE referred_by IS NOT NULL
		GROUP BY referral_level
		ORDER BY referral_level;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying level distribution: %w", err)
	}
	defer rows.Close()

	var out []domain.LevelCount
	for rows.Next() {
		var lc domain.LevelCount
		if err := rows.Scan(&lc.Level, &lc.Count); err != nil {
			return nil, fmt.Errorf("error scanning level distribution row: %w", err)
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating level distribution rows: %w", err)
	}
	return out, nil
}

// FindTopReferrers ranks active users by their number of direct referees.
func (r *PgxReportingRepository) FindTopReferrers(ctx context.Context, limit int) ([]domain.TopReferrer, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT u.user_id, u.username, u.email, u.first_name, u.last_name, u.phone, u.referral_code,
			u.referred_by, u.referral_level, u.balance_coins, u.balance_usd, u.status, u.last_login, u.version,
			u.created_at, u.created_by, u.last_updated_at, u.last_updated_by,
			COUNT(ref.user_id) AS referral_count
		FROM users u
		JOIN users ref ON ref.referred_by = u.user_id
		WHERE u.status = 'active'
		GROUP BY u.user_id
		ORDER BY referral_count DESC, u.user_id
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying top referrers: %w", err)
	}
	defer rows.Close()

	var out []domain.TopReferrer
	for rows.Next() {
		var m models.User
		var tr domain.TopReferrer
		if err := rows.Scan(
			&m.UserID, &m.Username, &m.Email, &m.FirstName, &m.LastName, &m.Phone, &m.ReferralCode,
			&m.ReferredBy, &m.ReferralLevel, &m.BalanceCoins, &m.BalanceUsd, &m.Status, &m.LastLogin, &m.Version,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&tr.ReferralCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning top referrer row: %w", err)
		}
		tr.User = mapping.ToDomainUser(m)
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top referrer rows: %w", err)
	}
	return out, nil
}
