package messaging

import (
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
)

const (
	// MenuUpdatesExchange fans every menu change out to all bound queues
	MenuUpdatesExchange = "menu_updates"

	ChefNotificationsQueue = "chef_notifications_queue"

	// EventTypeHeader carries Event.Type() on every publishing
	EventTypeHeader = "event_type"
)

// QueueDecl describes one queue bound to the menu updates exchange. An empty
// Name lets the broker pick one.
type QueueDecl struct {
	Name       string
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	Args       amqp091.Table
}

// Queues returns the shared queues declared on every connection
func Queues() []QueueDecl {
	return []QueueDecl{
		{
			Name:    ChefNotificationsQueue,
			Durable: true,
		},
	}
}

// CatalogRefreshQueue is the private queue of one ordering instance. Every
// instance gets its own copy of each menu update and the queue disappears
// with the connection.
func CatalogRefreshQueue() QueueDecl {
	return QueueDecl{
		AutoDelete: true,
		Exclusive:  true,
		Args:       amqp091.Table{"x-message-ttl": int32(300000)},
	}
}

// declarer is the part of *amqp091.Channel used to set up queues
type declarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
}

// declareBound declares q, binds it to the menu updates exchange and returns
// the queue name the broker settled on.
func declareBound(ch declarer, q QueueDecl) (string, error) {
	queue, err := ch.QueueDeclare(q.Name, q.Durable, q.AutoDelete, q.Exclusive, false, q.Args)
	if err != nil {
		return "", errors.Wrapf(err, "failed to declare queue %q", q.Name)
	}
	// routing key is ignored by fanout exchanges
	if err := ch.QueueBind(queue.Name, "", MenuUpdatesExchange, false, nil); err != nil {
		return "", errors.Wrapf(err, "failed to bind queue %s", queue.Name)
	}
	return queue.Name, nil
}
