// Package sheets defines the outbound ledger port. The ledger is an
// append-only backup of committed transactions; rows are never edited or
// removed, corrections land as fresh rows.
package sheets

import (
	"context"

	"cardtrack/internal/core"
)

// Row is one exported transaction. Amount is the decimal string form so
// the ledger stays readable outside the application.
type Row struct {
	ID        string
	Date      string
	CardName  string
	CardLast4 string
	Merchant  string
	Amount    string
	Category  string
}

// NewRow flattens a transaction and its card into a ledger row.
func NewRow(tx core.Transaction, card core.Card) Row {
	return Row{
		ID:        tx.ID,
		Date:      tx.Date.Format("2006-01-02"),
		CardName:  card.Name,
		CardLast4: card.Last4,
		Merchant:  tx.Merchant,
		Amount:    tx.Amount.Decimal(),
		Category:  string(tx.Category),
	}
}

// Ledger is the outbound port the export worker writes through.
type Ledger interface {
	// AppendRow adds one row after the last occupied row.
	AppendRow(ctx context.Context, row Row) error

	// ListIDs returns the transaction ids already present, in sheet
	// order. Duplicates are possible: corrections append.
	ListIDs(ctx context.Context) ([]string, error)
}
