package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.VerificationEventPublisher = (*RabbitMQBroker)(nil)

// PublishVerificationEvent sends a workflow event to the broker's queue. The
// event type travels in the message Type field so consumers can route without
// decoding the body first.
func (rmq *RabbitMQBroker) PublishVerificationEvent(ctx context.Context, eventType string, evt ports.VerificationEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         eventType,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
