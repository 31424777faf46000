package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cardtrack/internal/core"
)

func newTestStore(t *testing.T) (*Store, *MemoryStore) {
	t.Helper()
	records := NewMemoryStore()
	s, err := Load(context.Background(), records)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return s, records
}

func card(id, name, last4 string) core.Card {
	return core.Card{ID: id, Name: name, Last4: last4, Limit: core.Money{Cents: 100000}, Gradient: "ocean"}
}

func transaction(id, cardID string) core.Transaction {
	return core.Transaction{
		ID:       id,
		CardID:   cardID,
		Merchant: "Merchant",
		Amount:   core.Money{Cents: 1500},
		Date:     time.Now(),
		Category: core.CategoryFood,
	}
}

func TestPutCardUpsertsByID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.PutCard(ctx, card("c1", "Visa", "0427")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.PutCard(ctx, card("c1", "Visa Gold", "0427")); err != nil {
		t.Fatalf("put again: %v", err)
	}

	cards := s.Cards()
	if len(cards) != 1 {
		t.Fatalf("upsert changed collection length: %d", len(cards))
	}
	if cards[0].ID != "c1" || cards[0].Name != "Visa Gold" {
		t.Fatalf("unexpected card after upsert: %+v", cards[0])
	}
}

func TestPutTransactionUpsertPreservesLengthAndID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.PutTransaction(ctx, transaction("t1", "c1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	edited := transaction("t1", "c1")
	edited.Merchant = "Edited"
	if err := s.PutTransaction(ctx, edited); err != nil {
		t.Fatalf("put edit: %v", err)
	}

	txs := s.Transactions()
	if len(txs) != 1 {
		t.Fatalf("upsert changed collection length: %d", len(txs))
	}
	if txs[0].ID != "t1" || txs[0].Merchant != "Edited" {
		t.Fatalf("unexpected transaction after upsert: %+v", txs[0])
	}
}

func TestMutationRewritesFullRecord(t *testing.T) {
	s, records := newTestStore(t)
	ctx := context.Background()

	if err := s.PutTransaction(ctx, transaction("t1", "c1")); err != nil {
		t.Fatalf("put t1: %v", err)
	}
	if err := s.PutTransaction(ctx, transaction("t2", "c1")); err != nil {
		t.Fatalf("put t2: %v", err)
	}

	data, err := records.Read(ctx, RecordTransactions)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var persisted []core.Transaction
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if len(persisted) != 2 {
		t.Fatalf("record holds %d transactions, want the full set of 2", len(persisted))
	}
}

func TestDeleteTransaction(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.PutTransaction(ctx, transaction("t1", "c1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.Transactions()) != 0 {
		t.Fatalf("transaction not removed")
	}
	if err := s.DeleteTransaction(ctx, "t1"); err != ErrTransactionNotFound {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestCardLookupsAndUniqueness(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.PutCard(ctx, card("c1", "Visa Gold", "0427")); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, ok := s.CardByLast4("0427"); !ok {
		t.Fatalf("CardByLast4 missed existing card")
	}
	if _, ok := s.CardByLast4("9999"); ok {
		t.Fatalf("CardByLast4 matched unknown digits")
	}
	if !s.CardNameTaken("visa gold", "") {
		t.Fatalf("name uniqueness must be case-insensitive")
	}
	if s.CardNameTaken("visa gold", "c1") {
		t.Fatalf("uniqueness check must exclude the card being edited")
	}
	if !s.CardLast4Taken("0427", "") {
		t.Fatalf("last4 uniqueness missed existing card")
	}
}

func TestCardHasTransactions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.PutCard(ctx, card("c1", "Visa", "0427")); err != nil {
		t.Fatalf("put card: %v", err)
	}
	if s.CardHasTransactions("c1") {
		t.Fatalf("no transactions yet")
	}
	if err := s.PutTransaction(ctx, transaction("t1", "c1")); err != nil {
		t.Fatalf("put tx: %v", err)
	}
	if !s.CardHasTransactions("c1") {
		t.Fatalf("reference not detected")
	}
}

func TestNotificationKeysPersist(t *testing.T) {
	records := NewMemoryStore()
	ctx := context.Background()

	s, err := Load(ctx, records)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.NotificationSent("c1|2026|08|30") {
		t.Fatalf("fresh key reported as sent")
	}
	if err := s.MarkNotificationSent(ctx, "c1|2026|08|30"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !s.NotificationSent("c1|2026|08|30") {
		t.Fatalf("key not recorded")
	}

	// Reload from the same backend: the flag survives.
	reloaded, err := Load(ctx, records)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.NotificationSent("c1|2026|08|30") {
		t.Fatalf("key lost across reload")
	}
}
