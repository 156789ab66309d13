package mapping

import (
	"database/sql"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/coinadmin/backend/internal/models"
)

// ToModelAdmin converts a domain admin into its persistence shape.
func ToModelAdmin(d domain.Admin) models.Admin {
	m := models.Admin{
		AdminID:      d.AdminID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.LastLogin != nil {
		m.LastLogin = sql.NullTime{Time: *d.LastLogin, Valid: true}
	}
	return m
}

// ToDomainAdmin converts a persisted admin row into the domain shape.
func ToDomainAdmin(m models.Admin) domain.Admin {
	d := domain.Admin{
		AdminID:      m.AdminID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.AdminRole(m.Role),
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.LastLogin.Valid {
		t := m.LastLogin.Time
		d.LastLogin = &t
	}
	return d
}
