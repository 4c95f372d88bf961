package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"golden-palette/internal/logger"
)

// MessageHandler processes one message body
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer reads one queue and acknowledges each message after its handler returns
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queue       QueueDecl
	declare     bool
	queueName   string
	consumerTag string
	prefetch    int
}

// NewConsumer reads a shared queue declared with the topology
func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// NewQueueConsumer declares queue on every (re)connect and reads from it.
// Use it with CatalogRefreshQueue for a per-process subscription.
func NewQueueConsumer(conn *Connection, log *logger.Logger, queue QueueDecl, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queue:       queue,
		declare:     true,
		queueName:   queue.Name,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming blocks until ctx is done, reconnecting when the delivery channel closes
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	for {
		msgs, err := c.subscribe()
		if err != nil {
			return err
		}

		c.logger.Info("consumer_started",
			fmt.Sprintf("Started consuming from queue %s", c.queueName),
			"", map[string]interface{}{
				"queue":    c.queueName,
				"consumer": c.consumerTag,
				"prefetch": c.prefetch,
			})

		if done := c.drain(ctx, msgs, handler); done {
			c.logger.Info("consumer_stopped", "Consumer stopped by context", "", nil)
			return ctx.Err()
		}

		c.logger.Warn("consumer_channel_closed", "Message channel closed, attempting to reconnect", "", nil)
		if err := c.conn.Reconnect(); err != nil {
			return errors.Wrap(err, "failed to reconnect after channel closed")
		}
	}
}

func (c *Consumer) subscribe() (<-chan amqp091.Delivery, error) {
	ch, err := c.conn.Ready()
	if err != nil {
		return nil, errors.Wrap(err, "failed to reconnect")
	}

	if c.declare {
		name, err := declareBound(ch, c.queue)
		if err != nil {
			return nil, err
		}
		c.queueName = name
	}

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return nil, errors.Wrap(err, "failed to set QoS")
	}

	msgs, err := ch.Consume(
		c.queueName,
		c.consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register consumer")
	}
	return msgs, nil
}

// drain handles deliveries until ctx is done (true) or msgs closes (false)
func (c *Consumer) drain(ctx context.Context, msgs <-chan amqp091.Delivery, handler MessageHandler) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case d, ok := <-msgs:
			if !ok {
				return false
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, delivery amqp091.Delivery, handler MessageHandler) {
	startTime := time.Now()
	fields := map[string]interface{}{
		"queue":        c.queueName,
		"event_type":   delivery.Type,
		"delivery_tag": delivery.DeliveryTag,
		"redelivered":  delivery.Redelivered,
	}

	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := handler(processingCtx, delivery.Body)
	fields["duration_ms"] = time.Since(startTime).Milliseconds()

	if err == nil {
		c.logger.Debug("message_processed", "Successfully processed message", "", fields)
		if ackErr := delivery.Ack(false); ackErr != nil {
			c.logger.Error("message_ack_failed", "Failed to ack message", "", ackErr, nil)
		}
		return
	}

	// a message that already failed once is dropped instead of looping forever
	requeue := ShouldRequeue(delivery.Redelivered)
	fields["requeue"] = requeue
	c.logger.Error("message_processing_failed", "Failed to process message", "", err, fields)
	if nackErr := delivery.Nack(false, requeue); nackErr != nil {
		c.logger.Error("message_nack_failed", "Failed to nack message", "", nackErr, nil)
	}
}

// ShouldRequeue decides whether a failed delivery goes back on the queue
func ShouldRequeue(redelivered bool) bool {
	return !redelivered
}

// Close cancels the consumer and closes its connection
func (c *Consumer) Close() error {
	if c.conn == nil {
		return nil
	}
	if ch := c.conn.Channel(); ch != nil && !c.conn.IsClosed() {
		if err := ch.Cancel(c.consumerTag, false); err != nil {
			c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", "", err, nil)
		}
	}
	return c.conn.Close()
}
