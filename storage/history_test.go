package storage

import (
	"context"
	"testing"
	"time"

	"github.com/manivija/tokenwatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertHistory_AppendAndRecent(t *testing.T) {
	history, err := NewAlertHistoryFromMemory(testLogger())
	require.NoError(t, err)
	defer history.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, symbol := range []string{"SOL", "BTC", "ETH"} {
		alert := core.Alert{
			Symbol: symbol,
			Kind:   core.BoundLower,
			Bound:  100,
			Price:  90,
			At:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, history.Append(ctx, alert))
	}

	recent, err := history.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Most recent first.
	assert.Equal(t, "ETH", recent[0].Symbol)
	assert.Equal(t, "BTC", recent[1].Symbol)
}

func TestAlertHistory_RecentWhenEmpty(t *testing.T) {
	history, err := NewAlertHistoryFromMemory(testLogger())
	require.NoError(t, err)
	defer history.Close()

	recent, err := history.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
