// Package store owns the persisted state: the card list, the transaction
// list and the notification-sent map, each held as one named JSON record.
// A RecordStore backend persists the raw records; Store keeps the decoded
// collections in memory and rewrites the full record on every mutation.
package store

import (
	"context"
	"errors"
	"fmt"

	"cardtrack/internal/config"
)

// Record names. These are the only records the application reads or writes.
const (
	RecordCards         = "cards"
	RecordTransactions  = "transactions"
	RecordNotifications = "notifications"
)

// ErrRecordNotFound is returned by RecordStore.Read for records that have
// never been written. Callers treat it as an empty collection.
var ErrRecordNotFound = errors.New("record not found")

// RecordStore reads and writes whole named JSON records.
type RecordStore interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}

// Open selects and initializes the RecordStore backend named by the config.
func Open(ctx context.Context, cfg *config.Config) (RecordStore, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLiteDBPath)
	case config.BackendFile:
		return NewFileStore(cfg.DataDir)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
