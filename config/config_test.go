package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("TOKENWATCH_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TOKENWATCH_AUTHORIZED_CHAT_ID", "42424242")
	t.Setenv("TOKENWATCH_POLL_INTERVAL", "2m")
	t.Setenv("TOKENWATCH_TARGETS_FILE", "/tmp/targets.json")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", settings.Telegram.Token)
	assert.Equal(t, int64(42424242), settings.Telegram.ChatID)
	assert.Equal(t, 2*time.Minute, settings.PollInterval)
	assert.Equal(t, "/tmp/targets.json", settings.TargetsFile)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKENWATCH_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TOKENWATCH_AUTHORIZED_CHAT_ID", "42424242")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultTargetsFile, settings.TargetsFile)
	assert.Equal(t, DefaultHistoryFile, settings.HistoryFile)
	assert.Equal(t, time.Minute, settings.PollInterval)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TOKENWATCH_TELEGRAM_TOKEN", "")
	t.Setenv("TOKENWATCH_AUTHORIZED_CHAT_ID", "42424242")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingChatID(t *testing.T) {
	t.Setenv("TOKENWATCH_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TOKENWATCH_AUTHORIZED_CHAT_ID", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidInterval(t *testing.T) {
	t.Setenv("TOKENWATCH_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TOKENWATCH_AUTHORIZED_CHAT_ID", "42424242")
	t.Setenv("TOKENWATCH_POLL_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
}
