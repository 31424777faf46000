// Package summary derives spending overviews from the transaction set.
// Nothing here is persisted: every call recomputes from the full slice,
// which is fine at the data volumes a personal tracker sees.
package summary

import (
	"sort"
	"time"

	"cardtrack/internal/core"
)

// CategoryShare is one category's slice of the current month's spending.
type CategoryShare struct {
	Category core.Category `json:"category"`
	Amount   core.Money    `json:"amount"`
	Percent  float64       `json:"percent"`
}

// CardTotal is one card's spending total for the current month.
type CardTotal struct {
	CardID string     `json:"cardId"`
	Amount core.Money `json:"amount"`
}

// Categories sums the current month's transactions by category, computes each
// category's percentage of the month total, sorts descending by amount and
// drops zero-amount categories. Percentages sum to 100 when the total is
// positive.
func Categories(txs []core.Transaction, now time.Time) []CategoryShare {
	sums := make(map[core.Category]int64)
	var total int64
	for _, tx := range txs {
		if !core.SameMonth(tx.Date, now) {
			continue
		}
		sums[tx.Category] += tx.Amount.Cents
		total += tx.Amount.Cents
	}

	out := make([]CategoryShare, 0, len(sums))
	for _, c := range core.Categories() {
		cents := sums[c]
		if cents == 0 {
			continue
		}
		share := CategoryShare{Category: c, Amount: core.Money{Cents: cents}}
		if total > 0 {
			share.Percent = float64(cents) / float64(total) * 100
		}
		out = append(out, share)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// Cards sums the current month's transactions by card, sorted descending by
// amount.
func Cards(txs []core.Transaction, now time.Time) []CardTotal {
	sums := make(map[string]int64)
	order := make([]string, 0)
	for _, tx := range txs {
		if !core.SameMonth(tx.Date, now) {
			continue
		}
		if _, seen := sums[tx.CardID]; !seen {
			order = append(order, tx.CardID)
		}
		sums[tx.CardID] += tx.Amount.Cents
	}

	out := make([]CardTotal, 0, len(sums))
	for _, id := range order {
		out = append(out, CardTotal{CardID: id, Amount: core.Money{Cents: sums[id]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// List returns all transactions sorted date-descending, filtered to a single
// card when cardID is non-empty.
func List(txs []core.Transaction, cardID string) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if cardID != "" && tx.CardID != cardID {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// SpentOn returns the current-month spend for one card.
func SpentOn(txs []core.Transaction, cardID string, now time.Time) core.Money {
	var cents int64
	for _, tx := range txs {
		if tx.CardID != cardID || !core.SameMonth(tx.Date, now) {
			continue
		}
		cents += tx.Amount.Cents
	}
	return core.Money{Cents: cents}
}
