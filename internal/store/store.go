package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"cardtrack/internal/core"
)

var (
	ErrCardNotFound        = errors.New("card not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Store holds the three collections in memory and writes the full backing
// record on every mutation, so the persisted state always matches what the
// process sees. One mutex guards everything; mutations are rare and small.
type Store struct {
	mu      sync.Mutex
	records RecordStore

	cards []core.Card
	txs   []core.Transaction
	sent  map[string]bool
}

// Load reads the three records once at startup. Records that were never
// written start as empty collections.
func Load(ctx context.Context, records RecordStore) (*Store, error) {
	s := &Store{records: records, sent: make(map[string]bool)}

	if err := s.loadRecord(ctx, RecordCards, &s.cards); err != nil {
		return nil, err
	}
	if err := s.loadRecord(ctx, RecordTransactions, &s.txs); err != nil {
		return nil, err
	}
	if err := s.loadRecord(ctx, RecordNotifications, &s.sent); err != nil {
		return nil, err
	}
	if s.sent == nil {
		s.sent = make(map[string]bool)
	}

	slog.InfoContext(ctx, "store loaded",
		"component", "store",
		"cards", len(s.cards),
		"transactions", len(s.txs),
		"notification_keys", len(s.sent))
	return s, nil
}

func (s *Store) loadRecord(ctx context.Context, name string, into any) error {
	data, err := s.records.Read(ctx, name)
	if errors.Is(err, ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load record %s: %w", name, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decode record %s: %w", name, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.records.Close()
}

// Cards returns a copy of the card list.
func (s *Store) Cards() []core.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Transactions returns a copy of the transaction list.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

func (s *Store) CardByID(id string) (core.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return core.Card{}, false
}

func (s *Store) CardByLast4(last4 string) (core.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.Last4 == last4 {
			return c, true
		}
	}
	return core.Card{}, false
}

// CardNameTaken reports whether another card (excluding excludeID) already
// uses the name, case-insensitively.
func (s *Store) CardNameTaken(name, excludeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// CardLast4Taken reports whether another card (excluding excludeID) already
// uses the last-4 digits.
func (s *Store) CardLast4Taken(last4, excludeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID != excludeID && c.Last4 == last4 {
			return true
		}
	}
	return false
}

func (s *Store) TransactionByID(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, true
		}
	}
	return core.Transaction{}, false
}

// CardHasTransactions reports whether any transaction references the card.
func (s *Store) CardHasTransactions(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.CardID == cardID {
			return true
		}
	}
	return false
}

// PutCard upserts the card by id and persists the full card record.
func (s *Store) PutCard(ctx context.Context, card core.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Card, len(s.cards))
	copy(next, s.cards)
	replaced := false
	for i, c := range next {
		if c.ID == card.ID {
			next[i] = card
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, card)
	}

	if err := s.writeRecord(ctx, RecordCards, next); err != nil {
		return err
	}
	s.cards = next
	return nil
}

// DeleteCard removes the card by id and persists the full card record.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Card, 0, len(s.cards))
	found := false
	for _, c := range s.cards {
		if c.ID == id {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		return ErrCardNotFound
	}

	if err := s.writeRecord(ctx, RecordCards, next); err != nil {
		return err
	}
	s.cards = next
	return nil
}

// PutTransaction upserts the transaction by id and persists the full
// transaction record.
func (s *Store) PutTransaction(ctx context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Transaction, len(s.txs))
	copy(next, s.txs)
	replaced := false
	for i, t := range next {
		if t.ID == tx.ID {
			next[i] = tx
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, tx)
	}

	if err := s.writeRecord(ctx, RecordTransactions, next); err != nil {
		return err
	}
	s.txs = next
	return nil
}

// DeleteTransaction removes the transaction by id and persists the full
// transaction record.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Transaction, 0, len(s.txs))
	found := false
	for _, t := range s.txs {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		return ErrTransactionNotFound
	}

	if err := s.writeRecord(ctx, RecordTransactions, next); err != nil {
		return err
	}
	s.txs = next
	return nil
}

// NotificationSent reports whether the alert key was already recorded.
func (s *Store) NotificationSent(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[key]
}

// MarkNotificationSent records the alert key and persists the full
// notification record.
func (s *Store) MarkNotificationSent(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]bool, len(s.sent)+1)
	for k, v := range s.sent {
		next[k] = v
	}
	next[key] = true

	if err := s.writeRecord(ctx, RecordNotifications, next); err != nil {
		return err
	}
	s.sent = next
	return nil
}

// writeRecord persists the full record before the in-memory state is
// swapped, so a failed write leaves both sides on the previous snapshot.
// Callers must hold the mutex.
func (s *Store) writeRecord(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", name, err)
	}
	if err := s.records.Write(ctx, name, data); err != nil {
		return fmt.Errorf("persist record %s: %w", name, err)
	}
	return nil
}
