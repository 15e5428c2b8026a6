// Package notify delivers short messages to employees, either through a
// Telegram bot or, when no bot is configured, the application log.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/telebot.v3"

	"shift_scheduler_backend/pkg/utils"
	"shift_scheduler_backend/pkg/workerpool"
)

// ErrNoRecipient is returned when a message has no chat to go to.
var ErrNoRecipient = errors.New("notify: message has no recipient chat")

// Message is addressed to one employee.
type Message struct {
	UserID string
	ChatID int64
	Text   string
}

// Notifier sends a single message synchronously.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg Message) error {
	utils.LogInfo("Notification", map[string]interface{}{
		"user_id": msg.UserID,
		"chat_id": msg.ChatID,
		"text":    msg.Text,
	})
	return nil
}

// TelegramNotifier sends messages through the Bot API. It never polls for
// updates.
type TelegramNotifier struct {
	bot *telebot.Bot
}

// NewTelegramNotifier builds an offline bot for token; no request is made
// until the first message is sent.
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.ChatID == 0 {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.bot.Send(telebot.ChatID(msg.ChatID), msg.Text); err != nil {
		return fmt.Errorf("sending telegram message to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// New returns a TelegramNotifier when token is set and a LogNotifier otherwise.
func New(token string) (Notifier, error) {
	if token == "" {
		return LogNotifier{}, nil
	}
	return NewTelegramNotifier(token)
}

// Dispatcher hands messages to a Notifier on a worker pool so callers never
// wait on delivery.
type Dispatcher struct {
	pool     *workerpool.WorkerPool
	notifier Notifier
	timeout  time.Duration
}

func NewDispatcher(pool *workerpool.WorkerPool, notifier Notifier) *Dispatcher {
	return &Dispatcher{pool: pool, notifier: notifier, timeout: 10 * time.Second}
}

// Dispatch queues msg. A full queue drops the message with a warning.
func (d *Dispatcher) Dispatch(msg Message) {
	err := d.pool.TrySubmit(workerpool.Task{
		Fn: func(ctx context.Context) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			err := d.notifier.Notify(ctx, msg)
			if err != nil {
				utils.LogWarn(err, "Notification delivery failed", map[string]interface{}{"user_id": msg.UserID})
			}
			return nil, err
		},
	})
	if err != nil {
		utils.LogWarn(err, "Notification dropped", map[string]interface{}{"user_id": msg.UserID})
	}
}
