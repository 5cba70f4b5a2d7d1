package core

import "time"

// Settings represents the main configuration for the application
type Settings struct {
	TargetsFile  string           // Path of the persisted watch-list file
	HistoryFile  string           // Path of the fired-alert history database
	PollInterval time.Duration    // Delay between two Monitor cycles
	Telegram     TelegramSettings // Telegram transport settings
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Token  string // Telegram bot token
	ChatID int64  // The single chat allowed to command and be notified
}
