package notification

import (
	"context"
	"fmt"
	"io"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// Sender delivers one notification text
type Sender interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// ConsoleSender prints notifications, one per line
type ConsoleSender struct {
	mu  sync.Mutex
	Out io.Writer
}

func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{Out: out}
}

func (s *ConsoleSender) Name() string { return "console" }

func (s *ConsoleSender) Send(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.Out, text)
	return err
}

// TelegramAPI is the part of tgbotapi.BotAPI used for notifications
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender posts notifications to a staff chat
type TelegramSender struct {
	api    TelegramAPI
	chatID int64
}

// NewTelegramSender authorizes the bot token against the Telegram API
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}
	return NewTelegramSenderWithAPI(api, chatID), nil
}

func NewTelegramSenderWithAPI(api TelegramAPI, chatID int64) *TelegramSender {
	return &TelegramSender{api: api, chatID: chatID}
}

func (s *TelegramSender) Name() string { return "telegram" }

func (s *TelegramSender) Send(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(s.chatID, text)
	if _, err := s.api.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send telegram message")
	}
	return nil
}
