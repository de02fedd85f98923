package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/actinova/admin-backend/internal/config"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Routing keys of the admin audit events
const (
	UsersBulkUpdated = "users.bulk_updated"
	UsersDeleted     = "users.deleted"
	ContactResponded = "contact.responded"
	AdminApproved    = "admin.approved"
)

// Event is one audit record. Actor is the email of the admin who acted.
type Event struct {
	Type       string    `json:"type"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// Publisher emits audit events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// New connects to RabbitMQ, or returns a no-op publisher when no URL is configured
func New(cfg config.RabbitMQConfig, logger *zap.Logger) (Publisher, error) {
	if cfg.URL == "" {
		logger.Info("RabbitMQ not configured, audit events disabled")
		return Noop{}, nil
	}
	conn, err := Connect(cfg.URL, 3, 2*time.Second)
	if err != nil {
		return nil, err
	}
	return NewAMQPPublisher(conn, cfg.Exchange)
}

// Connect dials RabbitMQ, retrying on failure
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	for i := 0; i < retries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// AMQPPublisher publishes events as persistent JSON to a topic exchange
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher opens a channel and declares the exchange
func NewAMQPPublisher(conn *amqp.Connection, exchange string) (*AMQPPublisher, error) {
	const op = "events.NewAMQPPublisher"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AMQPPublisher{conn: conn, exchange: exchange, ch: ch}, nil
}

// Publish sends event with its type as routing key
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	const op = "events.Publish"
	body, err := Encode(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		p.exchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close closes the channel and connection
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Encode stamps the event time if missing and marshals it
func Encode(event Event) ([]byte, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return json.Marshal(event)
}

// Noop discards events
type Noop struct{}

// Publish does nothing
func (Noop) Publish(context.Context, Event) error { return nil }

// Close does nothing
func (Noop) Close() error { return nil }
