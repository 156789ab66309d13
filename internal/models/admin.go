package models

import "database/sql"

// Admin is the persistence shape of a back-office operator row.
type Admin struct {
	AdminID      string       `db:"admin_id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	PasswordHash string       `db:"password_hash"`
	Role         string       `db:"role"`
	IsActive     bool         `db:"is_active"`
	LastLogin    sql.NullTime `db:"last_login"`
	AuditFields
}
