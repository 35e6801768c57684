package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// ImportNotification is the event emitted once per import run with the
// deduplicated list of human-readable messages collected during the run.
type ImportNotification struct {
	ImportID      uint     `json:"import_id"`
	Notifications []string `json:"notifications"`
}

// Notifier publishes import notifications to a queue. Fire-and-forget:
// the pipeline does not wait for consumers.
type Notifier struct {
	ch    *amqp.Channel
	queue string
}

func NewNotifier(ch *amqp.Channel, queue string) (*Notifier, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &Notifier{ch: ch, queue: queue}, nil
}

func (n *Notifier) Emit(importID uint, notifications []string) error {
	body, err := json.Marshal(ImportNotification{
		ImportID:      importID,
		Notifications: notifications,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal import notification: %w", err)
	}

	if err := n.ch.Publish("", n.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}); err != nil {
		return fmt.Errorf("failed to publish import notification: %w", err)
	}

	return nil
}
