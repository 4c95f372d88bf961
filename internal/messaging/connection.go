package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"golden-palette/internal/config"
	"golden-palette/internal/logger"
)

const maxDialAttempts = 5

// dialFunc opens a connection and a channel with the topology declared
type dialFunc func(url string) (*amqp091.Connection, *amqp091.Channel, error)

// Connection wraps a RabbitMQ connection and channel with reconnection
// logic. It is safe for concurrent use; reconnects are serialised.
type Connection struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	logger   *logger.Logger
	url      string
	dial     dialFunc
	attempts int
	backoff  func(attempt int) time.Duration
}

// New dials RabbitMQ and declares the menu updates topology
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	c := newConnection(cfg.RabbitMQURL(), log, dialAMQP)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connect(); err != nil {
		return nil, errors.Wrap(err, "failed to establish initial connection")
	}
	return c, nil
}

func newConnection(url string, log *logger.Logger, dial dialFunc) *Connection {
	return &Connection{
		logger:   log,
		url:      url,
		dial:     dial,
		attempts: maxDialAttempts,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt+1) * 2 * time.Second
		},
	}
}

// connect must be called with mu held
func (c *Connection) connect() error {
	var err error
	for i := 0; i < c.attempts; i++ {
		var (
			conn *amqp091.Connection
			ch   *amqp091.Channel
		)
		if conn, ch, err = c.dial(c.url); err == nil {
			c.conn, c.channel = conn, ch
			return nil
		}

		if i < c.attempts-1 {
			waitTime := c.backoff(i)
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}
	return errors.Wrapf(err, "failed to connect to RabbitMQ after %d attempts", c.attempts)
}

func dialAMQP(url string) (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, errors.Wrap(err, "failed to set up topology")
	}
	return conn, ch, nil
}

func setupTopology(ch *amqp091.Channel) error {
	err := ch.ExchangeDeclare(
		MenuUpdatesExchange,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to declare %s exchange", MenuUpdatesExchange)
	}

	for _, q := range Queues() {
		if _, err := declareBound(ch, q); err != nil {
			return err
		}
	}
	return nil
}

// Ready returns an open channel, reconnecting first when the connection is gone
func (c *Connection) Ready() (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed() {
		c.close()
		if err := c.connect(); err != nil {
			return nil, err
		}
	}
	return c.channel, nil
}

// Channel returns the current channel
func (c *Connection) Channel() *amqp091.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func (c *Connection) close() error {
	var err error
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		err = c.conn.Close()
	}
	c.conn, c.channel = nil, nil
	return err
}

// IsClosed reports whether the underlying connection is gone
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isClosed()
}

func (c *Connection) isClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect drops the current connection and dials again
func (c *Connection) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
	return c.connect()
}
