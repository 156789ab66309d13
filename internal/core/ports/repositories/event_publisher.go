package repositories

import (
	"context"

	"github.com/coinadmin/backend/internal/core/domain"
)

// LedgerEventPublisher fans committed ledger entries out to interested
// consumers. Publication is after-the-fact and best-effort; the adjustment
// itself never depends on it.
type LedgerEventPublisher interface {
	PublishTransaction(ctx context.Context, txn domain.Transaction) error
}
