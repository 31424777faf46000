// Package notify raises spending alerts when a card crosses a threshold
// of its monthly limit. Each (card, month, threshold) alert fires at most
// once; sent keys are persisted through the store so restarts do not
// re-alert.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"cardtrack/internal/amqp"
	"cardtrack/internal/core"
	"cardtrack/internal/log"
	"cardtrack/internal/metrics"
	"cardtrack/internal/store"
	"cardtrack/internal/summary"
)

// Thresholds are the limit percentages that trigger an alert, in
// ascending order.
var Thresholds = []int{30, 50, 85}

const barCells = 20

// Sender delivers a composed alert to its destination.
type Sender interface {
	Send(ctx context.Context, alert *amqp.Alert) error
}

// Notifier evaluates a card's month-to-date spend against its limit.
type Notifier struct {
	store   *store.Store
	sender  Sender
	enabled bool

	// now is swappable for tests.
	now func() time.Time
}

// New creates a notifier. A nil sender falls back to log-only delivery.
func New(st *store.Store, sender Sender, enabled bool) *Notifier {
	if sender == nil {
		sender = &LogSender{}
	}
	return &Notifier{
		store:   st,
		sender:  sender,
		enabled: enabled,
		now:     time.Now,
	}
}

// Key builds the persisted dedup key for one (card, month, threshold).
func Key(cardID string, t time.Time, threshold int) string {
	return fmt.Sprintf("%s|%04d|%02d|%d", cardID, t.Year(), int(t.Month()), threshold)
}

// Evaluate checks the card's current-month spend and sends one alert for
// every threshold crossed that has not fired this month. Delivery is
// fire-and-forget: a send failure is logged and the threshold is still
// marked so it does not retry on every transaction.
func (n *Notifier) Evaluate(ctx context.Context, cardID string) {
	if !n.enabled {
		return
	}

	card, ok := n.store.CardByID(cardID)
	if !ok || card.Limit.Cents <= 0 {
		return
	}

	now := n.now()
	spent := summary.SpentOn(n.store.Transactions(), cardID, now)
	percent := float64(spent.Cents) / float64(card.Limit.Cents) * 100

	for _, threshold := range Thresholds {
		if percent < float64(threshold) {
			break
		}
		key := Key(cardID, now, threshold)
		if n.store.NotificationSent(key) {
			continue
		}

		alert := &amqp.Alert{
			CardID: cardID,
			Title:  fmt.Sprintf("%s: %d%% of limit reached", card.Name, threshold),
			Body:   composeBody(spent, card.Limit, percent),
			SentAt: now,
		}
		if err := n.sender.Send(ctx, alert); err != nil {
			slog.Error("alert delivery failed",
				log.FieldComponent, log.ComponentNotify,
				log.FieldCardID, cardID,
				log.FieldThreshold, threshold,
				log.FieldError, err)
		}
		if err := n.store.MarkNotificationSent(ctx, key); err != nil {
			slog.Error("failed to record sent alert",
				log.FieldComponent, log.ComponentNotify,
				log.FieldCardID, cardID,
				log.FieldThreshold, threshold,
				log.FieldError, err)
			continue
		}
		metrics.AlertsSent.WithLabelValues(strconv.Itoa(threshold)).Inc()
		slog.Info("spending alert sent",
			log.FieldComponent, log.ComponentNotify,
			log.FieldCardID, cardID,
			log.FieldThreshold, threshold)
	}
}

// composeBody renders the textual bar graph plus the spend line, e.g.
//
//	[██████______________] 32%
//	320.00 of 1000.00 spent this month
func composeBody(spent, limit core.Money, percent float64) string {
	pct := int(math.Round(percent))
	filled := pct / (100 / barCells)
	if filled > barCells {
		filled = barCells
	}
	if filled < 0 {
		filled = 0
	}

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(strings.Repeat("█", filled))
	b.WriteString(strings.Repeat("_", barCells-filled))
	fmt.Fprintf(&b, "] %d%%\n", pct)
	fmt.Fprintf(&b, "%s of %s spent this month", spent.Decimal(), limit.Decimal())
	return b.String()
}
