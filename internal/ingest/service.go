package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"cardtrack/internal/core"
	"cardtrack/internal/log"
	"cardtrack/internal/metrics"
	"cardtrack/internal/services"
	"cardtrack/internal/store"
)

// Service runs one SMS at a time through classification and commit. The
// gate is a compare-and-swap: a second request while one is in flight is
// rejected instead of queued, because the classifier picks from the card
// list as it was when the request arrived.
type Service struct {
	store      *store.Store
	txs        *services.TransactionService
	classifier Classifier
	timeout    time.Duration

	busy atomic.Bool
}

func NewService(st *store.Store, txs *services.TransactionService, classifier Classifier, timeout time.Duration) *Service {
	return &Service{
		store:      st,
		txs:        txs,
		classifier: classifier,
		timeout:    timeout,
	}
}

// Ingest classifies the SMS text and commits the resulting transaction.
// Classification keeps running on a detached context so an impatient
// client disconnect does not waste the model call.
func (s *Service) Ingest(ctx context.Context, text string) (core.Transaction, error) {
	if strings.TrimSpace(text) == "" {
		metrics.SMSIngests.WithLabelValues("rejected").Inc()
		return core.Transaction{}, ErrEmptyText
	}
	cards := s.store.Cards()
	if len(cards) == 0 {
		metrics.SMSIngests.WithLabelValues("rejected").Inc()
		return core.Transaction{}, ErrNoCards
	}

	if !s.busy.CompareAndSwap(false, true) {
		metrics.SMSIngests.WithLabelValues("busy").Inc()
		return core.Transaction{}, ErrIngestBusy
	}
	defer s.busy.Store(false)

	classifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	cls, err := s.classifier.Classify(classifyCtx, text, cards)
	if err != nil {
		slog.ErrorContext(ctx, "sms classification failed",
			log.FieldComponent, log.ComponentIngest,
			log.FieldError, err)
		metrics.SMSIngests.WithLabelValues("failed").Inc()
		return core.Transaction{}, ErrClassifyFailed
	}

	card, ok := s.store.CardByLast4(cls.CardLast4)
	if !ok {
		metrics.SMSIngests.WithLabelValues("no_match").Inc()
		return core.Transaction{}, &NoMatchingCardError{Last4: cls.CardLast4}
	}

	tx, err := s.txs.Create(classifyCtx, services.CreateTransactionInput{
		CardID:   card.ID,
		Merchant: cls.Merchant,
		Amount:   cls.Amount,
		Category: cls.Category,
	})
	if err != nil {
		metrics.SMSIngests.WithLabelValues("rejected").Inc()
		return core.Transaction{}, err
	}

	metrics.SMSIngests.WithLabelValues("committed").Inc()
	slog.InfoContext(ctx, "sms ingested",
		log.FieldComponent, log.ComponentIngest,
		log.FieldTxID, tx.ID,
		log.FieldCardID, card.ID,
		log.FieldMerchant, tx.Merchant,
		log.FieldCategory, string(tx.Category))
	return tx, nil
}

// Busy reports whether an ingest is currently in flight.
func (s *Service) Busy() bool {
	return s.busy.Load()
}

// IsNoMatch reports whether err is a missing-card classification result.
func IsNoMatch(err error) bool {
	var nm *NoMatchingCardError
	return errors.As(err, &nm)
}
