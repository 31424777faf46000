// Package ingest turns a raw bank SMS into a committed transaction. A
// model-backed classifier extracts merchant, amount, card digits and a
// category; the service matches the digits to a tracked card and commits
// the transaction through the regular write path.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"cardtrack/internal/core"
)

var (
	ErrEmptyText      = errors.New("empty sms text")
	ErrNoCards        = errors.New("no cards to match against")
	ErrIngestBusy     = errors.New("another sms is being processed")
	ErrClassifyFailed = errors.New("sms classification failed")
)

// NoMatchingCardError is returned when the classifier extracted four
// digits that belong to none of the tracked cards.
type NoMatchingCardError struct {
	Last4 string
}

func (e *NoMatchingCardError) Error() string {
	return fmt.Sprintf("no card matching •••• %s", e.Last4)
}

// Classification is the structured result extracted from one SMS.
type Classification struct {
	Merchant  string
	Amount    core.Money
	CardLast4 string
	Category  core.Category
}

// Classifier extracts a Classification from raw SMS text. cards carries
// the tracked cards so the model only picks from known last4 digits.
type Classifier interface {
	Classify(ctx context.Context, text string, cards []core.Card) (*Classification, error)
}
