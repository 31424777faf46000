package notify

import (
	"context"
	"log/slog"

	"cardtrack/internal/amqp"
	"cardtrack/internal/log"
)

// LogSender writes alerts to the application log. It is the default
// delivery channel when no broker is configured.
type LogSender struct{}

func (s *LogSender) Send(_ context.Context, alert *amqp.Alert) error {
	slog.Info("spending alert",
		log.FieldComponent, log.ComponentNotify,
		log.FieldCardID, alert.CardID,
		"title", alert.Title,
		"body", alert.Body)
	return nil
}

// AMQPSender publishes alerts to the alerts queue.
type AMQPSender struct {
	client *amqp.Client
}

func NewAMQPSender(client *amqp.Client) *AMQPSender {
	return &AMQPSender{client: client}
}

func (s *AMQPSender) Send(ctx context.Context, alert *amqp.Alert) error {
	return s.client.PublishAlert(ctx, alert)
}
