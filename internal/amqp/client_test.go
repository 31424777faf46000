package amqp

import (
	"testing"
	"time"

	"cardtrack/internal/core"
)

func TestNewTransactionEvent(t *testing.T) {
	tx := core.Transaction{
		ID:       "t1",
		CardID:   "c1",
		Merchant: "Coffee Shop",
		Amount:   core.Money{Cents: 450},
		Date:     time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		Category: core.CategoryFood,
	}

	ev := NewTransactionEvent(ActionCreated, tx)

	if ev.Action != ActionCreated {
		t.Errorf("Action = %v, want %v", ev.Action, ActionCreated)
	}
	if ev.Transaction.ID != "t1" {
		t.Errorf("Transaction.ID = %v, want t1", ev.Transaction.ID)
	}
	if ev.OccurredAt.IsZero() {
		t.Error("OccurredAt should not be zero")
	}
	if time.Since(ev.OccurredAt) > time.Second {
		t.Error("OccurredAt should be recent")
	}
}

func TestTransactionEvent_JSON(t *testing.T) {
	ev := &TransactionEvent{
		Action: ActionUpdated,
		Transaction: core.Transaction{
			ID:       "t1",
			CardID:   "c1",
			Merchant: "Grocer",
			Amount:   core.Money{Cents: 2050},
			Date:     time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
			Category: core.CategoryGroceries,
		},
		OccurredAt: time.Date(2026, 8, 1, 9, 31, 0, 0, time.UTC),
	}

	jsonBytes, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := TransactionEventFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("TransactionEventFromJSON() error = %v", err)
	}

	if parsed.Action != ev.Action {
		t.Errorf("Parsed Action = %v, want %v", parsed.Action, ev.Action)
	}
	if parsed.Transaction.ID != ev.Transaction.ID {
		t.Errorf("Parsed Transaction.ID = %v, want %v", parsed.Transaction.ID, ev.Transaction.ID)
	}
	if parsed.Transaction.Amount.Cents != 2050 {
		t.Errorf("Parsed Amount = %v, want 2050", parsed.Transaction.Amount.Cents)
	}
	if !parsed.OccurredAt.Equal(ev.OccurredAt) {
		t.Errorf("Parsed OccurredAt = %v, want %v", parsed.OccurredAt, ev.OccurredAt)
	}
}

func TestTransactionEvent_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"action": 7}`)

	_, err := TransactionEventFromJSON(invalidJSON)
	if err == nil {
		t.Error("TransactionEventFromJSON() should fail with invalid JSON")
	}
}

func TestAlert_JSON(t *testing.T) {
	a := &Alert{
		CardID: "c1",
		Title:  "Visa Gold: 30% of limit reached",
		Body:   "[██████______________] 32%\n320.00 of 1000.00 spent this month",
		SentAt: time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
	}

	jsonBytes, err := a.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	parsed, err := AlertFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("AlertFromJSON() error = %v", err)
	}
	if parsed.CardID != a.CardID || parsed.Title != a.Title || parsed.Body != a.Body {
		t.Errorf("alert round trip mismatch: %+v", parsed)
	}
}
