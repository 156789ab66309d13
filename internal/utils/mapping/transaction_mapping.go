package mapping

import (
	"database/sql"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/coinadmin/backend/internal/models"
)

// ToModelTransaction converts a domain transaction into its persistence shape.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:      d.TransactionID,
		UserID:             d.UserID,
		Type:               string(d.Type),
		AmountCoins:        d.Amount.Coins,
		AmountUsd:          d.Amount.Usd,
		BalanceBeforeCoins: d.BalanceBefore.Coins,
		BalanceBeforeUsd:   d.BalanceBefore.Usd,
		BalanceAfterCoins:  d.BalanceAfter.Coins,
		BalanceAfterUsd:    d.BalanceAfter.Usd,
		Description:        d.Description,
		Status:             string(d.Status),
		CreatedAt:          d.CreatedAt,
	}
	if d.Metadata.ReferralUserID != "" {
		m.ReferralUserID = sql.NullString{String: d.Metadata.ReferralUserID, Valid: true}
	}
	if d.Metadata.AdminID != "" {
		m.AdminID = sql.NullString{String: d.Metadata.AdminID, Valid: true}
	}
	if d.Metadata.ExternalID != "" {
		m.ExternalID = sql.NullString{String: d.Metadata.ExternalID, Valid: true}
	}
	if d.Metadata.Notes != "" {
		m.Notes = sql.NullString{String: d.Metadata.Notes, Valid: true}
	}
	return m
}

// ToDomainTransaction converts a persisted transaction row into the domain shape.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Type:          domain.TransactionType(m.Type),
		Amount:        domain.Balance{Coins: m.AmountCoins, Usd: m.AmountUsd},
		BalanceBefore: domain.Balance{Coins: m.BalanceBeforeCoins, Usd: m.BalanceBeforeUsd},
		BalanceAfter:  domain.Balance{Coins: m.BalanceAfterCoins, Usd: m.BalanceAfterUsd},
		Description:   m.Description,
		Status:        domain.TransactionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
	if m.ReferralUserID.Valid {
		d.Metadata.ReferralUserID = m.ReferralUserID.String
	}
	if m.AdminID.Valid {
		d.Metadata.AdminID = m.AdminID.String
	}
	if m.ExternalID.Valid {
		d.Metadata.ExternalID = m.ExternalID.String
	}
	if m.Notes.Valid {
		d.Metadata.Notes = m.Notes.String
	}
	return d
}
