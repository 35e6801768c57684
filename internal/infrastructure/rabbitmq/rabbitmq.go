package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

func SetupRabbitMQ(url string) (*amqp.Channel, *amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, nil, closeErr
		}
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	return ch, conn, nil
}

// ConsumeImports declares the import-request queue and starts a delivery
// stream. Messages are acknowledged by the caller once the run finished.
func ConsumeImports(ch *amqp.Channel, queue string) (<-chan amqp.Delivery, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming messages: %w", err)
	}

	return msgs, nil
}

func CloseRabbitMQ(ch *amqp.Channel, conn *amqp.Connection) error {
	var errs []error

	// Cancel all consumers on the channel
	if err := ch.Cancel("", false); err != nil {
		errs = append(errs, fmt.Errorf("error cancelling RabbitMQ consumption: %w", err))
	}

	// Attempt to close the channel
	if err := ch.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing RabbitMQ channel: %w", err))
	}

	// Close the connection
	if err := conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing RabbitMQ connection: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during RabbitMQ shutdown: %v", errs)
	}

	return nil
}
