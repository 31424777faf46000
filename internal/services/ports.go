package services

import (
	"context"
	"errors"

	"cardtrack/internal/amqp"
)

var (
	ErrNameTaken            = errors.New("card name already in use")
	ErrLast4Taken           = errors.New("card last4 already in use")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrCardInUse            = errors.New("card has transactions")
)

// CacheInvalidator drops cached summary responses after a mutation.
type CacheInvalidator interface {
	Invalidate()
}

// EventPublisher emits transaction events for downstream consumers.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// ThresholdEvaluator checks a card's spend against its limit after a
// transaction lands.
type ThresholdEvaluator interface {
	Evaluate(ctx context.Context, cardID string)
}
