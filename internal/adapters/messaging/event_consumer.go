package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

// EventConsumer dispatches platform events from the bus into the
// verification workflow. Acking policy: business outcomes (duplicate,
// not found, already decided, bad input) are final, so those deliveries are
// acked; infrastructure failures are nacked with requeue so the event is
// retried once storage recovers.
type EventConsumer struct {
	broker              *RabbitMQBroker
	verificationService ports.VerificationService
}

func NewEventConsumer(broker *RabbitMQBroker, verification ports.VerificationService) *EventConsumer {
	return &EventConsumer{
		broker:              broker,
		verificationService: verification,
	}
}

// Run consumes until the context is cancelled or the delivery channel closes.
func (c *EventConsumer) Run(ctx context.Context) error {
	deliveries, err := c.broker.Consume()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *EventConsumer) handle(ctx context.Context, d amqp.Delivery) {
	var evt ports.Event
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		log.Printf("Discarding malformed event: %v", err)
		c.ack(d)
		return
	}

	err := c.process(ctx, evt)
	switch {
	case err == nil:
		c.ack(d)
	case isBusinessOutcome(err):
		// Redelivery would fail the same way; drop it.
		log.Printf("Event %s key=%s resolved without effect: %v", evt.EventType, evt.Key, err)
		c.ack(d)
	default:
		log.Printf("Event %s key=%s failed, requeueing: %v", evt.EventType, evt.Key, err)
		if err := d.Nack(false, true); err != nil {
			log.Printf("Failed to nack delivery %d: %v", d.DeliveryTag, err)
		}
	}
}

// ack surfaces broker failures; a delivery whose ack is lost will be
// redelivered, which the workflow tolerates.
func (c *EventConsumer) ack(d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		log.Printf("Failed to ack delivery %d: %v", d.DeliveryTag, err)
	}
}

func (c *EventConsumer) process(ctx context.Context, evt ports.Event) error {
	switch evt.EventType {
	case ports.EventCreate, ports.EventVerifyRequest:
		var payload ports.SubmitEventPayload
		if err := json.Unmarshal(evt.Data, &payload); err != nil {
			return domainInputErr("submit payload", err)
		}
		_, err := c.verificationService.Submit(ctx, ports.SubmitVerificationInput{
			UserID:        payload.UserID,
			EvidencePhoto: payload.EvidencePhoto,
			Comment:       payload.Comment,
			Documents:     payload.Documents,
		})
		return err

	case ports.EventApproveRequest:
		id, payload, err := decisionArgs(evt)
		if err != nil {
			return err
		}
		_, err = c.verificationService.Approve(ctx, id, payload.Comment)
		return err

	case ports.EventRejectRequest:
		id, payload, err := decisionArgs(evt)
		if err != nil {
			return err
		}
		_, err = c.verificationService.Reject(ctx, id, payload.Comment)
		return err

	case ports.EventDelete:
		id, err := parseKey(evt.Key)
		if err != nil {
			return err
		}
		return c.verificationService.Delete(ctx, id)

	default:
		return domainInputErr("event type", errors.New(string(evt.EventType)))
	}
}

func decisionArgs(evt ports.Event) (int64, ports.DecisionEventPayload, error) {
	id, err := parseKey(evt.Key)
	if err != nil {
		return 0, ports.DecisionEventPayload{}, err
	}
	var payload ports.DecisionEventPayload
	if len(evt.Data) > 0 {
		if err := json.Unmarshal(evt.Data, &payload); err != nil {
			return 0, ports.DecisionEventPayload{}, domainInputErr("decision payload", err)
		}
	}
	return id, payload, nil
}

func parseKey(key string) (int64, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, domainInputErr("event key", err)
	}
	return id, nil
}

func domainInputErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, what, err)
}

func isBusinessOutcome(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrDuplicateRequest) ||
		errors.Is(err, domain.ErrInvalidStateTransition) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrRequestNotFound)
}
