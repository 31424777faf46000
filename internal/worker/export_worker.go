// Package worker keeps the external ledger in step with the store. It
// consumes transaction events from the broker and runs a periodic
// reconciliation sweep to recover rows lost to missed messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cardtrack/internal/amqp"
	"cardtrack/internal/core"
	"cardtrack/internal/log"
	"cardtrack/internal/metrics"
	"cardtrack/internal/sheets"
	"cardtrack/internal/store"
)

// ExportWorker appends committed transactions to the ledger. The ledger
// is append-only: updates land as fresh rows and deletions are ignored.
type ExportWorker struct {
	store    *store.Store
	ledger   sheets.Ledger
	interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewExportWorker(st *store.Store, ledger sheets.Ledger, interval time.Duration) *ExportWorker {
	return &ExportWorker{
		store:    st,
		ledger:   ledger,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// HandleEvent processes one transaction event from the broker. It is
// idempotent for creates: a redelivered event whose id already appears
// in the ledger is skipped.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	switch ev.Action {
	case amqp.ActionDeleted:
		slog.InfoContext(ctx, "ignoring deletion, ledger is append-only",
			log.FieldComponent, log.ComponentWorker,
			log.FieldTxID, ev.Transaction.ID)
		return nil

	case amqp.ActionCreated:
		exported, err := w.exportedIDs(ctx)
		if err != nil {
			return err
		}
		if exported[ev.Transaction.ID] {
			slog.InfoContext(ctx, "transaction already exported, skipping",
				log.FieldComponent, log.ComponentWorker,
				log.FieldTxID, ev.Transaction.ID)
			return nil
		}
		return w.appendTransaction(ctx, ev.Transaction)

	case amqp.ActionUpdated:
		// Corrections always append a fresh row.
		return w.appendTransaction(ctx, ev.Transaction)

	default:
		slog.WarnContext(ctx, "unknown event action, skipping",
			log.FieldComponent, log.ComponentWorker,
			"action", ev.Action,
			log.FieldTxID, ev.Transaction.ID)
		return nil
	}
}

// Reconcile appends every stored transaction whose id is missing from
// the ledger. It backs up the event path when messages are lost or the
// worker was down.
func (w *ExportWorker) Reconcile(ctx context.Context) error {
	exported, err := w.exportedIDs(ctx)
	if err != nil {
		return err
	}

	var appended, failed int
	for _, tx := range w.store.Transactions() {
		if exported[tx.ID] {
			continue
		}
		if err := w.appendTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "reconcile append failed",
				log.FieldComponent, log.ComponentWorker,
				log.FieldTxID, tx.ID,
				log.FieldError, err)
			failed++
			continue
		}
		appended++
	}

	if appended > 0 || failed > 0 {
		slog.InfoContext(ctx, "reconciliation sweep completed",
			log.FieldComponent, log.ComponentWorker,
			"appended", appended,
			"failed", failed)
	}
	return nil
}

// Start launches the periodic reconciliation loop.
func (w *ExportWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.doneCh)

		// First sweep right away to recover anything missed while down.
		if err := w.Reconcile(ctx); err != nil {
			slog.ErrorContext(ctx, "startup reconciliation failed",
				log.FieldComponent, log.ComponentWorker,
				log.FieldError, err)
		}

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := w.Reconcile(ctx); err != nil {
					slog.ErrorContext(ctx, "reconciliation failed",
						log.FieldComponent, log.ComponentWorker,
						log.FieldError, err)
				}
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	slog.InfoContext(ctx, "export worker started",
		log.FieldComponent, log.ComponentWorker,
		"interval", w.interval)
}

// Stop halts the reconciliation loop and waits for it to exit.
func (w *ExportWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *ExportWorker) exportedIDs(ctx context.Context) (map[string]bool, error) {
	ids, err := w.ledger.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exported ids: %w", err)
	}
	exported := make(map[string]bool, len(ids))
	for _, id := range ids {
		exported[id] = true
	}
	return exported, nil
}

func (w *ExportWorker) appendTransaction(ctx context.Context, tx core.Transaction) error {
	card, ok := w.store.CardByID(tx.CardID)
	if !ok {
		// Cards with transactions cannot be deleted, so this only
		// happens for events that outlived their store state.
		slog.WarnContext(ctx, "card missing for exported transaction",
			log.FieldComponent, log.ComponentWorker,
			log.FieldTxID, tx.ID,
			log.FieldCardID, tx.CardID)
	}

	if err := w.ledger.AppendRow(ctx, sheets.NewRow(tx, card)); err != nil {
		metrics.LedgerExportErrors.Inc()
		return fmt.Errorf("append ledger row: %w", err)
	}
	metrics.LedgerExports.Inc()

	slog.InfoContext(ctx, "transaction exported",
		log.FieldComponent, log.ComponentWorker,
		log.FieldTxID, tx.ID,
		log.FieldAmountCents, tx.Amount.Cents)
	return nil
}
