package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/manivija/tokenwatch/core"
	logadapter "github.com/manivija/tokenwatch/logger/zerolog"
	rszerolog "github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() core.Logger {
	logger := rszerolog.Nop()
	return logadapter.NewAdapter(&logger)
}

func TestCoinGecko_GetPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "solana", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"solana":{"usd":175.5}}`))
	}))
	defer server.Close()

	oracle := NewCoinGecko(testLogger(), WithBaseURL(server.URL))

	price, ok := oracle.GetPrice(context.Background(), "solana")
	require.True(t, ok)
	assert.Equal(t, 175.5, price)
}

func TestCoinGecko_GetPriceUnknownID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	oracle := NewCoinGecko(testLogger(), WithBaseURL(server.URL))

	_, ok := oracle.GetPrice(context.Background(), "no-such-token")
	assert.False(t, ok)
}

func TestCoinGecko_GetPriceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	oracle := NewCoinGecko(testLogger(), WithBaseURL(server.URL))

	_, ok := oracle.GetPrice(context.Background(), "solana")
	assert.False(t, ok)
}

func TestCoinGecko_GetPriceBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	oracle := NewCoinGecko(testLogger(), WithBaseURL(server.URL))

	_, ok := oracle.GetPrice(context.Background(), "solana")
	assert.False(t, ok)
}

func TestCoinGecko_GetPriceUnreachable(t *testing.T) {
	oracle := NewCoinGecko(testLogger(), WithBaseURL("http://127.0.0.1:1"))

	_, ok := oracle.GetPrice(context.Background(), "solana")
	assert.False(t, ok)
}

func TestCoinGecko_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
	}))
	defer server.Close()

	oracle := NewCoinGecko(testLogger(), WithBaseURL(server.URL))

	require.NoError(t, oracle.Ping(context.Background()))
}

func TestCoinGecko_PingGivesUp(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	oracle := NewCoinGecko(testLogger(), WithBaseURL(server.URL))

	err := oracle.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, pingAttempts, attempts)
}
