package summary

import (
	"math"
	"testing"
	"time"

	"cardtrack/internal/core"
)

var now = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func tx(card string, cents int64, cat core.Category, date time.Time) core.Transaction {
	return core.Transaction{
		ID:       card + date.String(),
		CardID:   card,
		Merchant: "m",
		Amount:   core.Money{Cents: cents},
		Date:     date,
		Category: cat,
	}
}

func TestCardsSumsCurrentMonth(t *testing.T) {
	txs := []core.Transaction{
		tx("c1", 2000, core.CategoryFood, now),
		tx("c1", 3000, core.CategoryFuel, now.AddDate(0, 0, -3)),
		tx("c1", 9900, core.CategoryFood, now.AddDate(0, -1, 0)), // previous month
		tx("c2", 500, core.CategoryBills, now),
	}

	totals := Cards(txs, now)
	if len(totals) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(totals))
	}
	if totals[0].CardID != "c1" || totals[0].Amount.Cents != 5000 {
		t.Fatalf("expected c1 = 5000, got %s = %d", totals[0].CardID, totals[0].Amount.Cents)
	}
	if totals[1].CardID != "c2" || totals[1].Amount.Cents != 500 {
		t.Fatalf("expected c2 = 500, got %s = %d", totals[1].CardID, totals[1].Amount.Cents)
	}
}

func TestCategoriesPercentagesSumTo100(t *testing.T) {
	txs := []core.Transaction{
		tx("c1", 3300, core.CategoryFood, now),
		tx("c1", 1700, core.CategoryFuel, now),
		tx("c2", 5100, core.CategoryShopping, now),
		tx("c2", 700, core.CategoryOther, now.AddDate(0, 2, 0)), // outside month
	}

	shares := Categories(txs, now)
	if len(shares) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(shares))
	}

	var sum float64
	for _, s := range shares {
		sum += s.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum to %v, want 100", sum)
	}

	// Sorted descending by amount, zero categories dropped.
	for i := 1; i < len(shares); i++ {
		if shares[i].Amount.Cents > shares[i-1].Amount.Cents {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	for _, s := range shares {
		if s.Amount.Cents == 0 {
			t.Fatalf("zero-amount category %s not dropped", s.Category)
		}
	}
}

func TestCategoriesEmptyMonth(t *testing.T) {
	txs := []core.Transaction{
		tx("c1", 1000, core.CategoryFood, now.AddDate(0, -2, 0)),
	}
	if got := Categories(txs, now); len(got) != 0 {
		t.Fatalf("expected empty summary, got %d entries", len(got))
	}
}

func TestListSortsDateDescending(t *testing.T) {
	txs := []core.Transaction{
		tx("c1", 100, core.CategoryFood, now.AddDate(0, 0, -2)),
		tx("c2", 200, core.CategoryFuel, now),
		tx("c1", 300, core.CategoryBills, now.AddDate(0, 0, -1)),
	}

	all := List(txs, "")
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date.After(all[i-1].Date) {
			t.Fatalf("not sorted date-descending at %d", i)
		}
	}

	only := List(txs, "c1")
	if len(only) != 2 {
		t.Fatalf("expected 2 for c1, got %d", len(only))
	}
	for _, tx := range only {
		if tx.CardID != "c1" {
			t.Fatalf("filter leaked card %s", tx.CardID)
		}
	}
}

func TestSpentOn(t *testing.T) {
	txs := []core.Transaction{
		tx("c1", 2000, core.CategoryFood, now),
		tx("c1", 3000, core.CategoryFuel, now),
		tx("c1", 7000, core.CategoryFuel, now.AddDate(0, -1, 0)),
		tx("c2", 400, core.CategoryBills, now),
	}
	if got := SpentOn(txs, "c1", now); got.Cents != 5000 {
		t.Fatalf("expected 5000, got %d", got.Cents)
	}
	if got := SpentOn(txs, "c3", now); got.Cents != 0 {
		t.Fatalf("expected 0 for unknown card, got %d", got.Cents)
	}
}
