package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AuditConsumer reads both reservation queues and appends one JSON line
// per event to a log file, giving operators a history of bookings that
// survives deletes in the database.
type AuditConsumer struct {
	url  string
	path string
	log  logrus.FieldLogger
}

// NewAuditConsumer writes to logs/reservation.log under dir.
func NewAuditConsumer(url, dir string) *AuditConsumer {
	return &AuditConsumer{
		url:  url,
		path: filepath.Join(dir, "logs", "reservation.log"),
		log:  logrus.WithField("component", "reservation-consumer"),
	}
}

// Run connects, consumes and reconnects with exponential backoff until ctx
// is cancelled, which is the only way it returns.
func (c *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.WithError(err).Warnf("failed to dial broker; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.WithError(err).Warn("set QoS failed")
	}

	f := feeds{
		connClosed: conn.NotifyClose(make(chan *amqp.Error, 1)),
		chanClosed: ch.NotifyClose(make(chan *amqp.Error, 1)),
		cancelled:  ch.NotifyCancel(make(chan string, 2)),
	}

	// Forwarders exit with this call rather than with the whole consumer.
	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	merged := make(chan amqp.Delivery)
	drained := make(chan string, 2)
	for _, q := range []string{ReservationCreatedQueue, ReservationDeletedQueue} {
		if err := declare(ch, q); err != nil {
			return err
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", q, err)
		}
		go forward(fwdCtx, q, msgs, merged, drained)
	}
	f.deliveries = merged
	f.drained = drained

	return c.serve(ctx, f)
}

// feeds are the channels one consume session waits on.  Any of them
// except deliveries ends the session so Run can reconnect.
type feeds struct {
	deliveries <-chan amqp.Delivery
	drained    <-chan string // queue whose deliveries channel closed
	connClosed <-chan *amqp.Error
	chanClosed <-chan *amqp.Error
	cancelled  <-chan string // consumer tag cancelled by the broker
}

// forward copies one queue's deliveries into out and reports the queue on
// drained once the broker closes the deliveries channel.
func forward(ctx context.Context, queue string, in <-chan amqp.Delivery, out chan<- amqp.Delivery, drained chan<- string) {
	for d := range in {
		select {
		case out <- d:
		case <-ctx.Done():
			return
		}
	}
	select {
	case drained <- queue:
	case <-ctx.Done():
	}
}

func (c *AuditConsumer) serve(ctx context.Context, f feeds) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-f.connClosed:
			return closeError("connection", amqpErr)
		case amqpErr := <-f.chanClosed:
			return closeError("channel", amqpErr)
		case tag, ok := <-f.cancelled:
			if !ok {
				return errors.New("channel closed")
			}
			return fmt.Errorf("consumer %q cancelled by broker", tag)
		case q := <-f.drained:
			return fmt.Errorf("%s: deliveries channel closed", q)
		case d := <-f.deliveries:
			c.settle(d, c.handle(d))
		}
	}
}

// settle acks a handled delivery and rejects a failed one without
// requeueing, so a bad message cannot loop.
func (c *AuditConsumer) settle(d amqp.Delivery, handleErr error) {
	log := c.log.WithField("queue", d.RoutingKey)
	if handleErr != nil {
		log.WithError(handleErr).Error("handle message failed")
		if err := d.Nack(false, false); err != nil {
			log.WithError(err).Warn("nack failed")
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.WithError(err).Warn("ack failed; message may be redelivered")
	}
}

func closeError(what string, amqpErr *amqp.Error) error {
	if amqpErr != nil {
		return fmt.Errorf("%s closed: %w", what, amqpErr)
	}
	return fmt.Errorf("%s closed", what)
}

// handle decodes one delivery and appends it to the audit file.
func (c *AuditConsumer) handle(d amqp.Delivery) error {
	entry, err := auditEntry(d.RoutingKey, d.Body)
	if err != nil {
		return err
	}
	return c.appendLine(entry)
}

// auditEntry turns a message body into the line written to the audit file.
// Unknown queues and undecodable bodies are errors.
func auditEntry(queue string, body []byte) (logrus.Fields, error) {
	switch queue {
	case ReservationCreatedQueue:
		var ev ReservationCreatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		return logrus.Fields{
			"event":          "reservation.created",
			"reservation_id": ev.ReservationID,
			"member_id":      ev.MemberID,
			"member":         ev.MemberName,
			"theme_id":       ev.ThemeID,
			"theme":          ev.ThemeName,
			"date":           ev.Date,
			"start_at":       ev.StartAt,
			"by_admin":       ev.ByAdmin,
			"at":             ev.CreatedAt,
		}, nil
	case ReservationDeletedQueue:
		var ev ReservationDeletedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		return logrus.Fields{
			"event":          "reservation.deleted",
			"reservation_id": ev.ReservationID,
			"at":             ev.DeletedAt,
		}, nil
	default:
		return nil, fmt.Errorf("unexpected queue %q", queue)
	}
}

func (c *AuditConsumer) appendLine(fields logrus.Fields) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	audit := logrus.New()
	audit.SetOutput(f)
	audit.SetFormatter(&logrus.JSONFormatter{})
	audit.WithFields(fields).Info(fields["event"])
	return nil
}

// sleep waits for d or until ctx is done, reporting whether it slept fully.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
