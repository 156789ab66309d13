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

const adminColumns = `admin_id, name, email, password_hash, role, is_active, last_login,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxAdminRepository implements the admin repository over pgx.
type PgxAdminRepository struct {
	BaseRepository
}

// newPgxAdminRepository creates a new repository for admin data.
func newPgxAdminRepository(pool *pgxpool.Pool) portsrepo.AdminRepository {
	return &PgxAdminRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AdminRepository = (*PgxAdminRepository)(nil)

// scanAdmin scans one admin row in adminColumns order.
func scanAdmin(row pgx.Row) (models.Admin, error) {
	var m models.Admin
	err := row.Scan(
		&m.AdminID, &m.Name, &m.Email, &m.PasswordHash, &m.Role, &m.IsActive, &m.LastLogin,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindAdminByID retrieves an admin by ID.
func (r *PgxAdminRepository) FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE admin_id = $1;`
	m, err := scanAdmin(r.Pool.QueryRow(ctx, query, adminID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("admin %s: %w", adminID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error finding admin %s: %w", adminID, err)
	}
	admin := mapping.ToDomainAdmin(m)
	return &admin, nil
}

// FindAdminByEmail retrieves an admin by email.
func (r *PgxAdminRepository) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1;`
	m, err := scanAdmin(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("admin with email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error finding admin by email: %w", err)
	}
	admin := mapping.ToDomainAdmin(m)
	return &admin, nil
}

// SaveAdmin persists a new admin.
func (r *PgxAdminRepository) SaveAdmin(ctx context.Context, admin domain.Admin) error {
	m := mapping.ToModelAdmin(admin)
	query := `
		INSERT INTO admins (admin_id, name, email, password_hash, role, is_active, last_login,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AdminID, m.Name, m.Email, m.PasswordHash, m.Role, m.IsActive, m.LastLogin,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isPgErr(err, pgUniqueViolation) {
			return fmt.Errorf("admin with email %s already exists: %w", admin.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("error saving admin: %w", err)
	}
	return nil
}

// UpdateAdminProfile updates name and email.
func (r *PgxAdminRepository) UpdateAdminProfile(ctx context.Context, adminID, name, email string, now time.Time) error {
	query := `
		UPDATE admins SET name = $1, email = $2, last_updated_at = $3, last_updated_by = $4
		WHERE admin_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, name, email, now, adminID)
	if err != nil {
		if isPgErr(err, pgUniqueViolation) {
			return fmt.Errorf("email %s already in use: %w", email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("error updating admin %s: %w", adminID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("admin %s: %w", adminID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateAdminPassword replaces the stored password hash.
func (r *PgxAdminRepository) UpdateAdminPassword(ctx context.Context, adminID, passwordHash string, now time.Time) error {
	query := `
		UPDATE admins SET password_hash = $1, last_updated_at = $2, last_updated_by = $3
		WHERE admin_id = $3;
	`
	tag, err := r.Pool.Exec(ctx, query, passwordHash, now, adminID)
	if err != nil {
		return fmt.Errorf("error updating password of admin %s: %w", adminID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("admin %s: %w", adminID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateAdminLastLogin records a successful login.
func (r *PgxAdminRepository) UpdateAdminLastLogin(ctx context.Context, adminID string, now time.Time) error {
	query := `UPDATE admins SET last_login = $1 WHERE admin_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, now, adminID)
	if err != nil {
		return fmt.Errorf("error recording login of admin %s: %w", adminID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("admin %s: %w", adminID, apperrors.ErrNotFound)
	}
	return nil
}
