// Package config handles application configuration management using Viper
package config

import (
	"fmt"

	"github.com/manivija/tokenwatch/core"
	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Constants for configuration
const (
	DefaultTargetsFile  = "targets.json"
	DefaultHistoryFile  = "alerts.db"
	DefaultPollInterval = "60s"
)

// Load builds the application settings from environment variables.
// TOKENWATCH_TELEGRAM_TOKEN and TOKENWATCH_AUTHORIZED_CHAT_ID are
// required; everything else has a default.
func Load() (*core.Settings, error) {
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("TOKENWATCH_TARGETS_FILE", DefaultTargetsFile)
	viper.SetDefault("TOKENWATCH_HISTORY_FILE", DefaultHistoryFile)
	viper.SetDefault("TOKENWATCH_POLL_INTERVAL", DefaultPollInterval)

	token := viper.GetString("TOKENWATCH_TELEGRAM_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TOKENWATCH_TELEGRAM_TOKEN is not set")
	}

	chatID := viper.GetInt64("TOKENWATCH_AUTHORIZED_CHAT_ID")
	if chatID == 0 {
		return nil, fmt.Errorf("TOKENWATCH_AUTHORIZED_CHAT_ID is not set")
	}

	rawInterval := viper.GetString("TOKENWATCH_POLL_INTERVAL")
	interval, err := str2duration.ParseDuration(rawInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKENWATCH_POLL_INTERVAL %q: %w", rawInterval, err)
	}

	return &core.Settings{
		TargetsFile:  viper.GetString("TOKENWATCH_TARGETS_FILE"),
		HistoryFile:  viper.GetString("TOKENWATCH_HISTORY_FILE"),
		PollInterval: interval,
		Telegram: core.TelegramSettings{
			Token:  token,
			ChatID: chatID,
		},
	}, nil
}
