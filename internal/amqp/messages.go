package amqp

import (
	"encoding/json"
	"time"

	"cardtrack/internal/core"
)

// Actions carried by TransactionEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEvent is published after every committed transaction mutation.
// The worker consumes it to keep the backup ledger current.
type TransactionEvent struct {
	Action      string           `json:"action"`
	Transaction core.Transaction `json:"transaction"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

func NewTransactionEvent(action string, tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Action:      action,
		Transaction: tx,
		OccurredAt:  time.Now(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Alert is a spending notification published to the alerts queue when the
// notifier is configured to send via AMQP.
type Alert struct {
	CardID string    `json:"cardId"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

func (a *Alert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

func AlertFromJSON(data []byte) (*Alert, error) {
	var a Alert
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
