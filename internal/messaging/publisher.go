package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"golden-palette/internal/logger"
)

// Event is anything that can be broadcast on the menu updates exchange
type Event = interface{ Type() string }

// Publisher publishes menu events to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// Dispatch publishes event as a persistent JSON message on the menu updates exchange
func (p *Publisher) Dispatch(ctx context.Context, event Event) error {
	publishing, err := NewPublishing(event, time.Now())
	if err != nil {
		return err
	}

	ch, err := p.conn.Ready()
	if err != nil {
		return errors.Wrap(err, "failed to reconnect")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		MenuUpdatesExchange,
		"",    // routing key
		false, // mandatory
		false, // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("message_publish_failed",
			fmt.Sprintf("Failed to publish %s", event.Type()),
			"", err, map[string]interface{}{
				"exchange": MenuUpdatesExchange,
			})
		return errors.Wrap(err, "failed to publish message")
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published %s to exchange %s", event.Type(), MenuUpdatesExchange),
		"", map[string]interface{}{
			"exchange":     MenuUpdatesExchange,
			"message_size": len(publishing.Body),
		})
	return nil
}

// NewPublishing encodes event into an AMQP message
func NewPublishing(event Event, now time.Time) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, errors.Wrap(err, "failed to marshal message")
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    now,
		Type:         event.Type(),
		Headers:      amqp091.Table{EventTypeHeader: event.Type()},
	}, nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
