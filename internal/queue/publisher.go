package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPPublisher publishes reservation events to RabbitMQ.  Each publish
// dials its own connection; traffic is a handful of messages per booking,
// so there is no long-lived channel to babysit.
type AMQPPublisher struct {
	url string
	log logrus.FieldLogger
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, log: logrus.WithField("component", "event-publisher")}
}

func (p *AMQPPublisher) PublishReservationCreated(ctx context.Context, ev ReservationCreatedEvent) error {
	return p.publish(ctx, ReservationCreatedQueue, ev)
}

func (p *AMQPPublisher) PublishReservationDeleted(ctx context.Context, ev ReservationDeletedEvent) error {
	return p.publish(ctx, ReservationDeletedQueue, ev)
}

// publish declares queue (durable, idempotent) and sends event to it as a
// persistent JSON message through the default exchange.
func (p *AMQPPublisher) publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", queue, err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, queue); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         queue,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", queue, err)
	}
	p.log.WithFields(logrus.Fields{"queue": queue, "message_id": msg.MessageId}).Debug("event published")
	return nil
}

func declare(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		return fmt.Errorf("declare %s: %w", queue, err)
	}
	return nil
}
