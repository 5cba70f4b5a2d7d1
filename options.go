package tokenwatch

import (
	"time"

	"github.com/manivija/tokenwatch/core"
)

// Option is a functional option for configuring a Bot instance
type Option func(*Bot)

// WithLogger overrides the default logger.
func WithLogger(log core.Logger) Option {
	return func(bot *Bot) {
		bot.log = log
	}
}

// WithStore overrides the watch-list store, by default a JSON file store
// at the configured targets path.
func WithStore(store core.WatchStore) Option {
	return func(bot *Bot) {
		bot.store = store
	}
}

// WithOracle overrides the price oracle, by default the CoinGecko client.
func WithOracle(oracle core.PriceOracle) Option {
	return func(bot *Bot) {
		bot.oracle = oracle
	}
}

// WithNotifier overrides the notification channel. When set, the Telegram
// transport is not constructed, which keeps tests and one-shot commands
// off the network.
func WithNotifier(notifier core.Notifier) Option {
	return func(bot *Bot) {
		bot.notifier = notifier
	}
}

// WithAlertLog overrides the fired-alert history store.
func WithAlertLog(history core.AlertLog) Option {
	return func(bot *Bot) {
		bot.history = history
	}
}

// WithPollInterval overrides the monitor interval from the settings.
func WithPollInterval(interval time.Duration) Option {
	return func(bot *Bot) {
		bot.interval = interval
	}
}
