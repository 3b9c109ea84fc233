package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// PurchaseQueue is the durable queue carrying purchase events.
const PurchaseQueue = "purchase_queue"

// PurchaseEvent is published after a purchase passed validation.
type PurchaseEvent struct {
	ProductID   uint      `json:"product_id"`
	UserID      uint      `json:"user_id"`
	ValidatedAt time.Time `json:"validated_at"`
}

// Channel is the subset of *amqp.Channel used by Client.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel Channel
	logger  *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the purchase queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	client, err := NewClientWithChannel(ch, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	client.conn = conn
	return client, nil
}

// NewClientWithChannel builds a Client over an already open channel and
// declares the purchase queue on it.
func NewClientWithChannel(ch Channel, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := declarePurchaseQueue(ch); err != nil {
		return nil, err
	}
	logger.Info("RabbitMQ client ready", zap.String("queue", PurchaseQueue))
	return &Client{channel: ch, logger: logger.Named("rabbitmq")}, nil
}

func declarePurchaseQueue(ch Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		PurchaseQueue, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", PurchaseQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishPurchaseValidated publishes event as persistent JSON to the purchase queue.
func (c *Client) PublishPurchaseValidated(event PurchaseEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal purchase event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    uuid.New().String(),
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         "purchase.validated",
		Body:         body,
	}
	if err := c.channel.Publish("", PurchaseQueue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("sent purchase event", zap.String("message_id", msg.MessageId), zap.ByteString("body", body))
	return nil
}

// Delivery is the part of an amqp.Delivery a consumer needs to settle a message.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// ConsumePurchaseEvents decodes every message of the purchase queue and passes
// it to handler in a background goroutine. Messages the handler accepts are
// acked; failed ones are requeued. Undecodable messages are dropped.
func (c *Client) ConsumePurchaseEvents(handler func(PurchaseEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declarePurchaseQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.settle(msg, msg.DeliveryTag, msg.Body, handler)
		}
	}()
	return nil
}

func (c *Client) settle(d Delivery, tag uint64, body []byte, handler func(PurchaseEvent) error) {
	var event PurchaseEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error("dropping undecodable purchase event", zap.Uint64("tag", tag), zap.Error(err))
		if err := d.Nack(false, false); err != nil {
			c.logger.Error("failed to nack message", zap.Uint64("tag", tag), zap.Error(err))
		}
		return
	}

	if err := handler(event); err != nil {
		c.logger.Warn("purchase event handler failed, requeueing", zap.Uint64("tag", tag), zap.Error(err))
		if err := d.Nack(false, true); err != nil {
			c.logger.Error("failed to nack message", zap.Uint64("tag", tag), zap.Error(err))
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error("failed to ack message", zap.Uint64("tag", tag), zap.Error(err))
	}
}
