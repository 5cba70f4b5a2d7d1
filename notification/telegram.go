// Package notification provides implementations for various notification services
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/manivija/tokenwatch/command"
	"github.com/manivija/tokenwatch/core"
	tb "gopkg.in/tucnak/telebot.v2"
)

const (
	pollingTimeout  = 10 * time.Second
	connectAttempts = 5
)

// Telegram implements the core.NotifierWithStart interface. Inbound text
// from the single authorized chat is handed to the command processor and
// the replies sent back; updates from any other chat are silently dropped
// by the poller middleware. Outbound notifications go to that same chat.
type Telegram struct {
	settings  *core.Settings
	processor *command.Processor
	client    *tb.Bot
	log       core.Logger
}

// Option is a function that configures a telegram instance
type Option func(telegram *Telegram)

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(processor *command.Processor, settings *core.Settings, log core.Logger, options ...Option) (
	core.NotifierWithStart,
	error,
) {
	poller := &tb.LongPoller{Timeout: pollingTimeout}
	chatMiddleware := newAuthMiddleware(poller, settings, log)

	client, err := initializeBotClient(settings, chatMiddleware)
	if err != nil {
		return nil, err
	}

	bot := &Telegram{
		processor: processor,
		client:    client,
		settings:  settings,
		log:       log,
	}

	// Apply custom options if provided
	for _, option := range options {
		option(bot)
	}

	client.Handle(tb.OnText, bot.TextHandle)

	return bot, nil
}

// initializeBotClient creates and configures the Telegram bot client,
// retrying transient startup failures with backoff.
func initializeBotClient(settings *core.Settings, middleware *tb.MiddlewarePoller) (*tb.Bot, error) {
	retry := &backoff.Backoff{
		Min: 100 * time.Millisecond,
		Max: 5 * time.Second,
	}

	var client *tb.Bot
	var err error

	for i := 0; i < connectAttempts; i++ {
		client, err = tb.NewBot(tb.Settings{
			Token:  settings.Telegram.Token,
			Poller: middleware,
		})
		if err == nil {
			return client, nil
		}

		time.Sleep(retry.Duration())
	}

	return nil, fmt.Errorf("failed to create telegram bot: %w", err)
}

// newAuthMiddleware creates a middleware dropping every update that does
// not originate from the authorized chat.
func newAuthMiddleware(poller *tb.LongPoller, settings *core.Settings, log core.Logger) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Chat == nil {
			return false
		}

		if u.Message.Chat.ID == settings.Telegram.ChatID {
			return true
		}

		log.WithField("chat", u.Message.Chat.ID).Debug("ignoring message from unauthorized chat")
		return false
	})
}

// Start begins the Telegram long-polling loop and announces the bot.
func (t *Telegram) Start() {
	go t.client.Start()
	t.Notify("🤖 Token watcher started. Type help to see available commands.")
}

// TextHandle feeds an inbound message to the command processor and sends
// each reply as an independent message.
func (t *Telegram) TextHandle(m *tb.Message) {
	replies := t.processor.Process(context.Background(), m.Text)
	for _, reply := range replies {
		t.sendMessage(m.Chat, reply)
	}
}

// Notify sends a message to the authorized chat.
func (t *Telegram) Notify(text string) {
	t.sendMessage(&tb.Chat{ID: t.settings.Telegram.ChatID}, text)
}

// OnError notifies the authorized chat about an error.
func (t *Telegram) OnError(err error) {
	t.Notify("🛑 ERROR\n-----\n" + err.Error())
}

// sendMessage sends a message, logging delivery failures instead of
// returning them. A lost notification is not resent.
func (t *Telegram) sendMessage(to tb.Recipient, text string) {
	_, err := t.client.Send(to, text)
	if err != nil {
		t.log.WithError(err).Error("failed to send message")
	}
}
