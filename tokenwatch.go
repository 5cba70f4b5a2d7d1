// Package tokenwatch wires the watch-list store, the price oracle, the
// Telegram transport and the monitor loop into a runnable bot.
package tokenwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/manivija/tokenwatch/command"
	"github.com/manivija/tokenwatch/core"
	"github.com/manivija/tokenwatch/monitor"
	"github.com/manivija/tokenwatch/notification"
	"github.com/manivija/tokenwatch/quote"
	"github.com/manivija/tokenwatch/storage"
)

// Bot aggregates every component of the token watcher.
type Bot struct {
	settings  *core.Settings
	store     core.WatchStore
	oracle    core.PriceOracle
	history   core.AlertLog
	notifier  core.Notifier
	telegram  core.NotifierWithStart
	monitor   *monitor.Monitor
	processor *command.Processor
	interval  time.Duration
	log       core.Logger
}

// NewBot creates a new bot instance with the provided settings. Components
// not overridden through options get their defaults: a JSON file store at
// settings.TargetsFile, the CoinGecko oracle, a BuntDB alert history and
// the Telegram transport.
func NewBot(ctx context.Context, settings *core.Settings, options ...Option) (*Bot, error) {
	if err := validate(settings); err != nil {
		return nil, err
	}

	bot := &Bot{
		settings: settings,
		interval: settings.PollInterval,
		log:      DefaultLog,
	}

	// Apply custom options
	for _, option := range options {
		option(bot)
	}

	if bot.store == nil {
		bot.store = storage.NewFileStore(settings.TargetsFile, bot.log)
	}

	if bot.oracle == nil {
		bot.oracle = quote.NewCoinGecko(bot.log)
	}

	if bot.history == nil {
		history, err := storage.NewAlertHistory(settings.HistoryFile, bot.log)
		if err != nil {
			return nil, err
		}
		bot.history = history
	}

	bot.processor = command.NewProcessor(bot.store, bot.oracle, bot.history, bot.log)

	// Without an override the Telegram transport is both the command
	// surface and the notification channel.
	if bot.notifier == nil {
		telegram, err := notification.NewTelegram(bot.processor, settings, bot.log)
		if err != nil {
			return nil, err
		}
		bot.telegram = telegram
		bot.notifier = telegram
	}

	bot.monitor = monitor.New(bot.store, bot.oracle, bot.notifier, bot.history, bot.interval, bot.log)

	return bot, nil
}

// validate checks if the provided settings are usable
func validate(settings *core.Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	if settings.TargetsFile == "" {
		return fmt.Errorf("targets file cannot be empty")
	}

	return nil
}

// Monitor returns the price monitor.
func (b *Bot) Monitor() *monitor.Monitor {
	return b.monitor
}

// Processor returns the command processor.
func (b *Bot) Processor() *command.Processor {
	return b.processor
}

// Run starts the Telegram receive loop and blocks in the monitor loop
// until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if oracle, ok := b.oracle.(*quote.CoinGecko); ok {
		if err := oracle.Ping(ctx); err != nil {
			b.log.WithError(err).Warn("price oracle not reachable, continuing anyway")
		}
	}

	if b.telegram != nil {
		b.telegram.Start()
	}

	return b.monitor.Run(ctx)
}
