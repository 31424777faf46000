package worker

import (
	"context"
	"testing"
	"time"

	"cardtrack/internal/amqp"
	"cardtrack/internal/core"
	"cardtrack/internal/sheets/memory"
	"cardtrack/internal/store"
)

func setup(t *testing.T) (*ExportWorker, *store.Store, *memory.Ledger) {
	t.Helper()
	st, err := store.Load(context.Background(), store.NewMemoryStore())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	card := core.Card{ID: "c1", Name: "Visa", Last4: "0427", Limit: core.Money{Cents: 100000}}
	if err := st.PutCard(context.Background(), card); err != nil {
		t.Fatalf("PutCard() error = %v", err)
	}
	ledger := memory.New()
	return NewExportWorker(st, ledger, time.Minute), st, ledger
}

func putTx(t *testing.T, st *store.Store, id string, cents int64) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		ID:       id,
		CardID:   "c1",
		Merchant: "Shop",
		Amount:   core.Money{Cents: cents},
		Date:     time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Category: core.CategoryOther,
	}
	if err := st.PutTransaction(context.Background(), tx); err != nil {
		t.Fatalf("PutTransaction() error = %v", err)
	}
	return tx
}

func TestExportWorker_HandleCreated(t *testing.T) {
	w, st, ledger := setup(t)
	tx := putTx(t, st, "t1", 450)

	ev := amqp.NewTransactionEvent(amqp.ActionCreated, tx)
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	rows := ledger.Rows()
	if len(rows) != 1 {
		t.Fatalf("ledger has %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.ID != "t1" || row.CardName != "Visa" || row.CardLast4 != "0427" {
		t.Errorf("row = %+v", row)
	}
	if row.Amount != "4.50" {
		t.Errorf("Amount = %q, want 4.50", row.Amount)
	}
	if row.Date != "2026-08-15" {
		t.Errorf("Date = %q, want 2026-08-15", row.Date)
	}

	// Redelivery of the same created event must not duplicate the row.
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent() redelivery error = %v", err)
	}
	if got := len(ledger.Rows()); got != 1 {
		t.Errorf("ledger has %d rows after redelivery, want 1", got)
	}
}

func TestExportWorker_HandleUpdatedAppendsCorrection(t *testing.T) {
	w, st, ledger := setup(t)
	tx := putTx(t, st, "t1", 450)

	if err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(amqp.ActionCreated, tx)); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	tx.Amount = core.Money{Cents: 500}
	if err := st.PutTransaction(context.Background(), tx); err != nil {
		t.Fatalf("PutTransaction() error = %v", err)
	}
	if err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(amqp.ActionUpdated, tx)); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	rows := ledger.Rows()
	if len(rows) != 2 {
		t.Fatalf("ledger has %d rows, want 2", len(rows))
	}
	if rows[1].Amount != "5.00" {
		t.Errorf("correction row amount = %q, want 5.00", rows[1].Amount)
	}
}

func TestExportWorker_HandleDeletedIsIgnored(t *testing.T) {
	w, st, ledger := setup(t)
	tx := putTx(t, st, "t1", 450)

	if err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(amqp.ActionDeleted, tx)); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}
	if got := len(ledger.Rows()); got != 0 {
		t.Errorf("ledger has %d rows, want 0", got)
	}
}

func TestExportWorker_Reconcile(t *testing.T) {
	w, st, ledger := setup(t)
	tx1 := putTx(t, st, "t1", 100)
	putTx(t, st, "t2", 200)

	// t1 is already exported; only t2 should be appended.
	if err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent(amqp.ActionCreated, tx1)); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if err := w.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	rows := ledger.Rows()
	if len(rows) != 2 {
		t.Fatalf("ledger has %d rows, want 2", len(rows))
	}

	// A second sweep with nothing missing is a no-op.
	if err := w.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if got := len(ledger.Rows()); got != 2 {
		t.Errorf("ledger has %d rows after no-op sweep, want 2", got)
	}
}

func TestExportWorker_StartStop(t *testing.T) {
	w, st, ledger := setup(t)
	putTx(t, st, "t1", 100)

	w.Start(context.Background())
	defer w.Stop()

	// The startup sweep should export the pending transaction.
	deadline := time.After(2 * time.Second)
	for len(ledger.Rows()) == 0 {
		select {
		case <-deadline:
			t.Fatal("startup sweep did not export the transaction")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}
