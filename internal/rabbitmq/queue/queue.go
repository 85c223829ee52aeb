// Package queue owns the broker topology and the delivery message envelope.
//
// One durable direct exchange routes per notification type to its own
// durable queue. Both primary queues dead-letter into a separate
// exchange/queue pair, so a reject without requeue parks the message there.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/retry"

	"github.com/avkhn/notify-pipeline/internal/apperrors"
)

const (
	Exchange     = "notifications.direct"
	DeadExchange = "notifications.failed"

	EmailQueue  = "email.queue"
	PushQueue   = "push.queue"
	FailedQueue = "failed.queue"

	deadRoutingKey = "failed"

	// retryCountHeader carries the requeue counter between attempts so the
	// envelope body stays identical across retries.
	retryCountHeader = "x-retry-count"
)

// DeliveryMessage is the queue envelope published at ingestion time. It
// carries everything the worker needs without re-querying the ledger.
type DeliveryMessage struct {
	NotificationID string                 `json:"notification_id"`
	RequestID      string                 `json:"request_id"`
	Type           string                 `json:"notification_type"`
	UserID         string                 `json:"user_id"`
	Email          string                 `json:"email,omitempty"`
	PushToken      string                 `json:"push_token,omitempty"`
	TemplateCode   string                 `json:"template_code"`
	Language       string                 `json:"language,omitempty"`
	Variables      map[string]interface{} `json:"variables"`
	Priority       int                    `json:"priority"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// FailedMessage is the dead-letter payload shape: the original envelope
// plus the failure reason and timestamp for offline inspection.
type FailedMessage struct {
	DeliveryMessage
	FailedReason string    `json:"failed_reason"`
	FailedAt     time.Time `json:"failed_at"`
}

// Delivery is one in-flight message handed to the worker: the decoded
// envelope tagged with its retry count. Ack/Reject settle the underlying
// broker delivery and are the unit of consumption.
type Delivery struct {
	Message    DeliveryMessage
	RetryCount int

	raw amqp.Delivery
}

// Ack marks the delivery as fully handled.
func (d Delivery) Ack() error {
	return d.raw.Ack(false)
}

// Reject negatively acknowledges without requeueing; the broker moves the
// message to the dead-letter queue.
func (d Delivery) Reject() error {
	return d.raw.Nack(false, false)
}

// Connect dials the broker, retrying per the given strategy.
func Connect(url string, strategy retry.Strategy) (*amqp.Connection, error) {
	var conn *amqp.Connection

	err := retry.Do(func() error {
		var err error
		conn, err = amqp.Dial(url)
		return err
	}, strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	return conn, nil
}

// Queue wraps the publish channel and topology. The channel is not safe for
// concurrent use, so every publish goes through a single mutex.
type Queue struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

// New declares the full topology and opens a confirm-mode publish channel.
func New(conn *amqp.Connection) (*Queue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		return nil, err
	}

	// Publisher confirms let us treat an unaccepted publish as a failure
	// instead of silently losing the message.
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	return &Queue{conn: conn, ch: ch}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(DeadExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead-letter exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(FailedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead-letter queue: %w", err)
	}

	if err := ch.QueueBind(FailedQueue, deadRoutingKey, DeadExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DeadExchange,
		"x-dead-letter-routing-key": deadRoutingKey,
	}

	for queueName, key := range map[string]string{EmailQueue: "email", PushQueue: "push"} {
		if _, err := ch.QueueDeclare(queueName, true, false, false, false, args); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}

		if err := ch.QueueBind(queueName, key, Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", queueName, err)
		}
	}

	return nil
}

// Publish sends a persistent delivery message routed by notification type,
// tagged with the given retry count. A broker nack or a confirm timeout is
// reported as apperrors.ErrUnavailable.
func (q *Queue) Publish(ctx context.Context, msg DeliveryMessage, retryCount int) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	confirm, err := q.ch.PublishWithDeferredConfirmWithContext(ctx, Exchange, msg.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      amqp.Table{retryCountHeader: int32(retryCount)},
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to publish message: %v", apperrors.ErrUnavailable, err)
	}

	ok, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: publish confirm: %v", apperrors.ErrUnavailable, err)
	}

	if !ok {
		return fmt.Errorf("%w: message not accepted by broker", apperrors.ErrUnavailable)
	}

	return nil
}

// PublishFailed parks an annotated copy of the envelope in the dead-letter
// queue after the retry budget is exhausted.
func (q *Queue) PublishFailed(ctx context.Context, msg DeliveryMessage, reason string) error {
	body, err := json.Marshal(FailedMessage{
		DeliveryMessage: msg,
		FailedReason:    reason,
		FailedAt:        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal failed message: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	err = q.ch.PublishWithContext(ctx, DeadExchange, deadRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to dead-letter queue: %w", err)
	}

	return nil
}

// Close closes the publish channel.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.ch.Close()
}

// Consumer reads raw deliveries from one queue on its own channel with
// manual acknowledgements.
type Consumer struct {
	ch    *amqp.Channel
	queue string
}

// NewConsumer opens a dedicated channel for the given queue and applies the
// prefetch limit.
func NewConsumer(conn *amqp.Connection, queueName string, prefetch int) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open consumer channel: %w", err)
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &Consumer{ch: ch, queue: queueName}, nil
}

// Consume starts delivering messages from the queue. Deliveries must be
// settled via Delivery.Ack or Delivery.Reject.
func (c *Consumer) Consume(ctx context.Context) (<-chan amqp.Delivery, error) {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to consume from %s: %w", c.queue, err)
	}

	return deliveries, nil
}

// Close closes the consumer channel.
func (c *Consumer) Close() error {
	return c.ch.Close()
}

// ParseDelivery decodes a raw broker delivery into the tagged envelope. A
// decode error marks the message as poison: it can never succeed and should
// be rejected straight to the dead-letter queue.
func ParseDelivery(raw amqp.Delivery) (Delivery, error) {
	var msg DeliveryMessage
	if err := json.Unmarshal(raw.Body, &msg); err != nil {
		return Delivery{raw: raw}, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return Delivery{
		Message:    msg,
		RetryCount: retryCount(raw.Headers),
		raw:        raw,
	}, nil
}

func retryCount(headers amqp.Table) int {
	v, ok := headers[retryCountHeader]
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
