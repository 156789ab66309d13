package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/coinadmin/backend/internal/core/domain"
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
)

// subjectPrefix is the subject root for ledger events. The transaction type
// is appended so consumers can subscribe per kind, e.g. ledger.entries.deposit.
const subjectPrefix = "ledger.entries"

// NatsLedgerPublisher publishes committed ledger entries to NATS.
type NatsLedgerPublisher struct {
	conn *nats.Conn
}

// NewNatsLedgerPublisher creates a publisher over an existing connection.
func NewNatsLedgerPublisher(conn *nats.Conn) *NatsLedgerPublisher {
	return &NatsLedgerPublisher{conn: conn}
}

var _ portsrepo.LedgerEventPublisher = (*NatsLedgerPublisher)(nil)

// PublishTransaction publishes one committed ledger entry as JSON.
func (p *NatsLedgerPublisher) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("error encoding ledger event %s: %w", txn.TransactionID, err)
	}
	subject := fmt.Sprintf("%s.%s", subjectPrefix, txn.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("error publishing ledger event %s: %w", txn.TransactionID, err)
	}
	return nil
}

// NoopLedgerPublisher discards events. Used when no NATS URL is configured.
type NoopLedgerPublisher struct{}

var _ portsrepo.LedgerEventPublisher = (*NoopLedgerPublisher)(nil)

func (NoopLedgerPublisher) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	return nil
}
