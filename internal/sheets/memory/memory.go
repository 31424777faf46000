// Package memory is an in-process ledger used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"cardtrack/internal/sheets"
)

type Ledger struct {
	mu   sync.Mutex
	rows []sheets.Row
}

var _ sheets.Ledger = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{}
}

func (l *Ledger) AppendRow(_ context.Context, row sheets.Row) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, row)
	return nil
}

func (l *Ledger) ListIDs(_ context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.rows))
	for _, row := range l.rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// Rows returns a copy of everything appended so far.
func (l *Ledger) Rows() []sheets.Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]sheets.Row(nil), l.rows...)
}
