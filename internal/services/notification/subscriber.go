package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"golden-palette/internal/logger"
	"golden-palette/internal/messaging"
	"golden-palette/internal/models"
)

// MessageSource delivers raw message bodies to a handler until ctx is done
type MessageSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Subscriber turns menu update messages into staff notifications
type Subscriber struct {
	source  MessageSource
	senders []Sender
	logger  *logger.Logger

	// senders that already delivered a notice whose message is being retried
	mu        sync.Mutex
	delivered map[string]map[string]bool
}

func NewSubscriber(source MessageSource, log *logger.Logger, senders ...Sender) *Subscriber {
	return &Subscriber{
		source:    source,
		senders:   senders,
		logger:    log,
		delivered: make(map[string]map[string]bool),
	}
}

// Run consumes until ctx is cancelled, then closes the source
func (s *Subscriber) Run(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, map[string]interface{}{
		"senders": len(s.senders),
	})

	err := s.source.StartConsuming(ctx, s.HandleMessage)

	if closeErr := s.source.Close(); closeErr != nil {
		s.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, closeErr, nil)
	}
	s.logger.Info("graceful_shutdown", "Notification subscriber stopped", requestID, nil)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleMessage parses a meal submitted message and fans the notice out to every sender.
// Delivery stops at the first sender that fails so the message is retried;
// on the retry, senders that already delivered the notice are skipped.
func (s *Subscriber) HandleMessage(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.MealSubmittedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return errors.Wrap(err, "failed to parse notification")
	}

	key := deliveryKey(&msg)
	text := FormatNotification(&msg)
	for _, sender := range s.senders {
		if s.alreadyDelivered(key, sender.Name()) {
			continue
		}
		if err := sender.Send(ctx, text); err != nil {
			return errors.Wrapf(err, "%s sender", sender.Name())
		}
		s.markDelivered(key, sender.Name())
	}
	s.forget(key)

	s.logger.Info("notification_displayed", "Notification delivered", requestID, map[string]interface{}{
		"item_id":  msg.ItemID,
		"name":     msg.Name,
		"category": msg.Category,
	})
	return nil
}

func deliveryKey(msg *models.MealSubmittedMessage) string {
	return msg.ItemID + "|" + msg.SubmittedAt.Format(time.RFC3339Nano)
}

func (s *Subscriber) alreadyDelivered(key, sender string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered[key][sender]
}

func (s *Subscriber) markDelivered(key, sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delivered[key] == nil {
		s.delivered[key] = make(map[string]bool)
	}
	s.delivered[key][sender] = true
}

func (s *Subscriber) forget(key string) {
	s.mu.Lock()
	delete(s.delivered, key)
	s.mu.Unlock()
}

// FormatNotification renders the human readable notice for a new dish
func FormatNotification(msg *models.MealSubmittedMessage) string {
	name := msg.Name
	if name == "" {
		name = "(unnamed dish)"
	}
	return fmt.Sprintf("🍽 [%s] New meal added to %s: %s for R%s",
		msg.SubmittedAt.Format("2006-01-02 15:04:05"),
		msg.Category,
		name,
		msg.Price.StringFixed(2),
	)
}
