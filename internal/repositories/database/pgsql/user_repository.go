package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinadmin/backend/internal/apperrors"
	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	"github.com/coinadmin/backend/internal/models"
	"github.com/coinadmin/backend/internal/utils/mapping"
)

const userColumns = `user_id, username, email, first_name, last_name, phone, referral_code,
	referred_by, referral_level, balance_coins, balance_usd, status, last_login, version,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxUserRepository implements the user repository over pgx.
type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

// scanUser scans one user row in userColumns order.
func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID, &m.Username, &m.Email, &m.FirstName, &m.LastName, &m.Phone, &m.ReferralCode,
		&m.ReferredBy, &m.ReferralLevel, &m.BalanceCoins, &m.BalanceUsd, &m.Status, &m.LastLogin, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, mapping.ToDomainUser(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// FindUserByID retrieves a specific user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`

	m, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user %s: %w", userID, err)
	}

	user := mapping.ToDomainUser(m)
	return &user, nil
}

// FindUserByReferralCode retrieves a user by their unique referral code.
func (r *PgxUserRepository) FindUserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1;`

	m, err := scanUser(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("referral code %s: %w", code, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user by referral code: %w", err)
	}

	user := mapping.ToDomainUser(m)
	return &user, nil
}

// FindUsersByIDs retrieves the given users keyed by ID.
func (r *PgxUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	if len(userIDs) == 0 {
		return map[string]domain.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying users by ids: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.User, len(users))
	for _, u := range users {
		out[u.UserID] = u
	}
	return out, nil
}

// FindUsersByReferrer retrieves the direct referees of one user in creation
// order.
func (r *PgxUserRepository) FindUsersByReferrer(ctx context.Context, referrerID string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referred_by = $1 ORDER BY created_at, user_id;`

	rows, err := r.Pool.Query(ctx, query, referrerID)
	if err != nil {
		return nil, fmt.Errorf("error querying referees of %s: %w", referrerID, err)
	}
	return collectUsers(rows)
}

// FindUsersByReferrers retrieves the direct referees of any of the given
// users in creation order.
func (r *PgxUserRepository) FindUsersByReferrers(ctx context.Context, referrerIDs []string) ([]domain.User, error) {
	if len(referrerIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE referred_by = ANY($1) ORDER BY created_at, user_id;`

	rows, err := r.Pool.Query(ctx, query, referrerIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying referees: %w", err)
	}
	return collectUsers(rows)
}

// sortColumns whitelists ListUsers sort keys.
var sortColumns = map[string]string{
	"balance_coins": "balance_coins",
	"balance_usd":   "balance_usd",
	"username":      "username",
	"created_at":    "created_at",
}

// ListUsers retrieves a filtered page of users plus the total match count.
func (r *PgxUserRepository) ListUsers(ctx context.Context, params portsrepo.ListUsersParams) ([]domain.User, int64, error) {
	var conditions []string
	var args []interface{}

	if params.Status != "" {
		args = append(args, string(params.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(username ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", n, n, n, n))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	orderBy, ok := sortColumns[params.SortBy]
	if !ok {
		orderBy = "created_at"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, params.Offset)
	query := fmt.Sprintf("SELECT %s FROM users%s ORDER BY %s %s, user_id LIMIT $%d OFFSET $%d",
		userColumns, where, orderBy, direction, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)

	query := `
		INSERT INTO users (user_id, username, email, first_name, last_name, phone, referral_code,
			referred_by, referral_level, balance_coins, balance_usd, status, last_login, version,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID, m.Username, m.Email, m.FirstName, m.LastName, m.Phone, m.ReferralCode,
		m.ReferredBy, m.ReferralLevel, m.BalanceCoins, m.BalanceUsd, m.Status, m.LastLogin, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isPgErr(err, pgUniqueViolation) {
			return fmt.Errorf("user with the same username, email or referral code: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("error saving user %s: %w", user.UserID, err)
	}
	return nil
}

// UpdateUserStatus changes a user's lifecycle status.
func (r *PgxUserRepository) UpdateUserStatus(ctx context.Context, userID string, status domain.UserStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE users SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, string(status), now, updatedBy, userID)
	if err != nil {
		return fmt.Errorf("error updating status of user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}
