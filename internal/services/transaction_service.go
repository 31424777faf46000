package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardtrack/internal/amqp"
	"cardtrack/internal/core"
	"cardtrack/internal/log"
	"cardtrack/internal/store"
)

// TransactionService owns transaction writes. Every committed mutation
// invalidates the summary caches, emits a best-effort event for the
// ledger worker, and re-evaluates the card's spending thresholds.
type TransactionService struct {
	store     *store.Store
	cache     CacheInvalidator
	publisher EventPublisher     // nil when no broker is configured
	notifier  ThresholdEvaluator // nil when alerts are disabled

	now func() time.Time
}

func NewTransactionService(st *store.Store, cache CacheInvalidator, publisher EventPublisher, notifier ThresholdEvaluator) *TransactionService {
	return &TransactionService{
		store:     st,
		cache:     cache,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
	}
}

// CreateTransactionInput carries caller-supplied fields; a nil Date
// defaults to now.
type CreateTransactionInput struct {
	CardID   string
	Merchant string
	Amount   core.Money
	Date     *time.Time
	Category core.Category
}

// UpdateTransactionInput uses pointers so absent fields keep their
// stored value.
type UpdateTransactionInput struct {
	CardID   *string
	Merchant *string
	Amount   *core.Money
	Date     *time.Time
	Category *core.Category
}

func (s *TransactionService) List(cardID string) []core.Transaction {
	txs := s.store.Transactions()
	if cardID == "" {
		return txs
	}
	filtered := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.CardID == cardID {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

func (s *TransactionService) Get(id string) (core.Transaction, error) {
	tx, ok := s.store.TransactionByID(id)
	if !ok {
		return core.Transaction{}, store.ErrTransactionNotFound
	}
	return tx, nil
}

func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (core.Transaction, error) {
	if _, ok := s.store.CardByID(in.CardID); !ok {
		return core.Transaction{}, store.ErrCardNotFound
	}

	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}
	tx := core.Transaction{
		ID:       uuid.NewString(),
		CardID:   in.CardID,
		Merchant: strings.TrimSpace(in.Merchant),
		Amount:   in.Amount,
		Date:     date,
		Category: in.Category,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.PutTransaction(ctx, tx); err != nil {
		return core.Transaction{}, err
	}
	s.afterCommit(ctx, amqp.ActionCreated, tx)

	slog.InfoContext(ctx, "transaction created",
		log.FieldComponent, log.ComponentTx,
		log.FieldTxID, tx.ID,
		log.FieldCardID, tx.CardID,
		log.FieldAmountCents, tx.Amount.Cents)
	return tx, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, in UpdateTransactionInput) (core.Transaction, error) {
	tx, ok := s.store.TransactionByID(id)
	if !ok {
		return core.Transaction{}, store.ErrTransactionNotFound
	}

	if in.CardID != nil {
		tx.CardID = *in.CardID
	}
	if in.Merchant != nil {
		tx.Merchant = strings.TrimSpace(*in.Merchant)
	}
	if in.Amount != nil {
		tx.Amount = *in.Amount
	}
	if in.Date != nil {
		tx.Date = *in.Date
	}
	if in.Category != nil {
		tx.Category = *in.Category
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, ok := s.store.CardByID(tx.CardID); !ok {
		return core.Transaction{}, store.ErrCardNotFound
	}

	if err := s.store.PutTransaction(ctx, tx); err != nil {
		return core.Transaction{}, err
	}
	s.afterCommit(ctx, amqp.ActionUpdated, tx)

	slog.InfoContext(ctx, "transaction updated",
		log.FieldComponent, log.ComponentTx,
		log.FieldTxID, tx.ID)
	return tx, nil
}

// Delete removes a transaction. It refuses without explicit confirmation.
func (s *TransactionService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	tx, ok := s.store.TransactionByID(id)
	if !ok {
		return store.ErrTransactionNotFound
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	s.publish(ctx, amqp.ActionDeleted, tx)

	slog.InfoContext(ctx, "transaction deleted",
		log.FieldComponent, log.ComponentTx,
		log.FieldTxID, id)
	return nil
}

// afterCommit runs the post-write side effects for creates and updates.
// They never fail the request: the write already happened.
func (s *TransactionService) afterCommit(ctx context.Context, action string, tx core.Transaction) {
	s.cache.Invalidate()
	s.publish(ctx, action, tx)
	if s.notifier != nil {
		s.notifier.Evaluate(ctx, tx.CardID)
	}
}

func (s *TransactionService) publish(ctx context.Context, action string, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	ev := amqp.NewTransactionEvent(action, tx)
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "failed to publish transaction event",
			log.FieldComponent, log.ComponentTx,
			log.FieldTxID, tx.ID,
			log.FieldError, err)
	}
}
