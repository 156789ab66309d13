package mapping

import (
	"database/sql"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/coinadmin/backend/internal/models"
)

// ToModelUser converts a domain user into its persistence shape.
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:        d.UserID,
		Username:      d.Username,
		Email:         d.Email,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		ReferralCode:  d.ReferralCode,
		ReferralLevel: d.ReferralLevel,
		BalanceCoins:  d.Balance.Coins,
		BalanceUsd:    d.Balance.Usd,
		Status:        string(d.Status),
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.Phone != "" {
		m.Phone = sql.NullString{String: d.Phone, Valid: true}
	}
	if d.ReferredBy != "" {
		m.ReferredBy = sql.NullString{String: d.ReferredBy, Valid: true}
	}
	if d.LastLogin != nil {
		m.LastLogin = sql.NullTime{Time: *d.LastLogin, Valid: true}
	}
	return m
}

// ToDomainUser converts a persisted user row into the domain shape.
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:        m.UserID,
		Username:      m.Username,
		Email:         m.Email,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		ReferralCode:  m.ReferralCode,
		ReferralLevel: m.ReferralLevel,
		Balance:       domain.Balance{Coins: m.BalanceCoins, Usd: m.BalanceUsd},
		Status:        domain.UserStatus(m.Status),
		Version:       m.Version,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.Phone.Valid {
		d.Phone = m.Phone.String
	}
	if m.ReferredBy.Valid {
		d.ReferredBy = m.ReferredBy.String
	}
	if m.LastLogin.Valid {
		t := m.LastLogin.Time
		d.LastLogin = &t
	}
	return d
}
