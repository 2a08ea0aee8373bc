package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"

	"laoud/internal/models"
)

// OrderQueue receives one message per placed order.
const OrderQueue = "laoud.orders.placed"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  zerolog.Logger
	mu      sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// OrderPlacedEvent is the message body published for a placed order.
// Shipping and payment details beyond the status are left out.
type OrderPlacedEvent struct {
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	Total         string    `json:"total"`
	PaymentType   string    `json:"paymentType"`
	PaymentStatus string    `json:"paymentStatus"`
	Reference     string    `json:"orderReference,omitempty"`
	Coupon        string    `json:"coupon,omitempty"`
	Units         int       `json:"units"`
	PlacedAt      time.Time `json:"placedAt"`
}

// NewOrderPlacedEvent summarises order for subscribers.
func NewOrderPlacedEvent(order models.Order) OrderPlacedEvent {
	e := OrderPlacedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Total:         order.Total.StringFixed(2),
		PaymentType:   order.Payment.Type,
		PaymentStatus: order.Payment.Status,
		Reference:     order.Payment.OrderReference,
		PlacedAt:      order.Timestamp,
	}
	if order.Coupon != nil {
		e.Coupon = *order.Coupon
	}
	for _, it := range order.Items {
		e.Units += it.Quantity
	}
	return e
}

// DecodeOrderPlaced parses a message body produced by PublishOrderPlaced.
func DecodeOrderPlaced(body []byte) (OrderPlacedEvent, error) {
	var e OrderPlacedEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return e, fmt.Errorf("failed to decode order placed event: %w", err)
	}
	if e.OrderNumber == "" {
		return e, fmt.Errorf("order placed event has no order number")
	}
	return e, nil
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the order queue.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareOrderQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info().Str("queue", OrderQueue).Msg("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declareOrderQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		OrderQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
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
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishOrderPlaced publishes a persistent order placed event to OrderQueue.
func (c *Client) PublishOrderPlaced(order models.Order) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(NewOrderPlacedEvent(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order event to JSON: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",         // exchange: default exchange
		OrderQueue, // routing key: the queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    order.ID,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug().Str("order", order.OrderNumber).Msg("sent order placed event")
	return nil
}

// ConsumeOrderEvents delivers every order placed event to handler in a
// background goroutine. Messages are acked when handler succeeds. Messages
// that cannot be decoded are dropped; handler failures are requeued once.
func (c *Client) ConsumeOrderEvents(handler func(OrderPlacedEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	if err := declareOrderQueue(c.channel); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		OrderQueue, // queue
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

	c.logger.Info().Str("queue", OrderQueue).Msg("waiting for order events")

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()

	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(OrderPlacedEvent) error) {
	event, err := DecodeOrderPlaced(msg.Body)
	if err != nil {
		c.logger.Warn().Err(err).Uint64("tag", msg.DeliveryTag).Msg("dropping malformed order event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error().Err(nackErr).Uint64("tag", msg.DeliveryTag).Msg("failed to nack message")
		}
		return
	}

	if err := handler(event); err != nil {
		c.logger.Error().Err(err).Str("order", event.OrderNumber).Msg("failed to process order event")
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			c.logger.Error().Err(nackErr).Uint64("tag", msg.DeliveryTag).Msg("failed to nack message")
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error().Err(ackErr).Uint64("tag", msg.DeliveryTag).Msg("failed to ack message")
	}
}
