package memory

import (
	"context"
	"testing"

	"cardtrack/internal/sheets"
)

func TestLedger_AppendAndList(t *testing.T) {
	l := New()

	rows := []sheets.Row{
		{ID: "t1", Date: "2026-08-01", CardName: "Visa", CardLast4: "0427", Merchant: "Shop", Amount: "4.50", Category: "Food & Dining"},
		{ID: "t2", Date: "2026-08-02", CardName: "Visa", CardLast4: "0427", Merchant: "Grocer", Amount: "20.00", Category: "Groceries"},
		{ID: "t1", Date: "2026-08-01", CardName: "Visa", CardLast4: "0427", Merchant: "Shop", Amount: "5.00", Category: "Food & Dining"},
	}
	for _, row := range rows {
		if err := l.AppendRow(context.Background(), row); err != nil {
			t.Fatalf("AppendRow() error = %v", err)
		}
	}

	ids, err := l.ListIDs(context.Background())
	if err != nil {
		t.Fatalf("ListIDs() error = %v", err)
	}
	// Corrections append, so duplicates are preserved in order.
	want := []string{"t1", "t2", "t1"}
	if len(ids) != len(want) {
		t.Fatalf("ListIDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestLedger_RowsReturnsCopy(t *testing.T) {
	l := New()
	if err := l.AppendRow(context.Background(), sheets.Row{ID: "t1"}); err != nil {
		t.Fatalf("AppendRow() error = %v", err)
	}

	rows := l.Rows()
	rows[0].ID = "mutated"

	if got := l.Rows()[0].ID; got != "t1" {
		t.Errorf("internal row mutated through copy: %q", got)
	}
}
