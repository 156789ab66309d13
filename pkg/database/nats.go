package database

import (
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

// NewNatsConn connects to a NATS server.
func NewNatsConn(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("NATS URL cannot be empty")
	}

	conn, err := nats.Connect(url, nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Println("Successfully connected to NATS.")
	return conn, nil
}
