package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchList_AddRejectsDuplicate(t *testing.T) {
	watchList := NewWatchList(nil)

	require.NoError(t, watchList.Add(Target{Symbol: "SOL", ID: "solana"}))

	err := watchList.Add(Target{Symbol: "sol", ID: "solana"})
	require.ErrorIs(t, err, ErrDuplicateSymbol)
	assert.Equal(t, 1, watchList.Len())
}

func TestWatchList_AddNormalizesEmptyBounds(t *testing.T) {
	watchList := NewWatchList(nil)

	require.NoError(t, watchList.Add(Target{Symbol: "SOL", ID: "solana", Bounds: &Bounds{}}))

	target, err := watchList.Find("SOL")
	require.NoError(t, err)
	assert.Nil(t, target.Bounds)
}

func TestWatchList_RemoveNotFound(t *testing.T) {
	watchList := NewWatchList([]Target{{Symbol: "SOL", ID: "solana"}})

	err := watchList.Remove("XRP")
	require.ErrorIs(t, err, ErrSymbolNotFound)
	assert.Equal(t, 1, watchList.Len())
}

func TestWatchList_RemoveCaseInsensitive(t *testing.T) {
	watchList := NewWatchList([]Target{{Symbol: "SOL", ID: "solana"}})

	require.NoError(t, watchList.Remove("sol"))
	assert.Equal(t, 0, watchList.Len())

	// The symbol can be re-added after removal.
	require.NoError(t, watchList.Add(Target{Symbol: "SOL", ID: "solana"}))
}

func TestWatchList_FindCaseInsensitive(t *testing.T) {
	watchList := NewWatchList([]Target{{Symbol: "SOL", ID: "solana"}})

	target, err := watchList.Find("sOl")
	require.NoError(t, err)
	assert.Equal(t, "solana", target.ID)

	_, err = watchList.Find("BTC")
	require.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestWatchList_SymbolsKeepInsertionOrder(t *testing.T) {
	watchList := NewWatchList(nil)
	for _, symbol := range []string{"SOL", "BTC", "ETH"} {
		require.NoError(t, watchList.Add(Target{Symbol: symbol, ID: symbol}))
	}

	assert.Equal(t, []string{"SOL", "BTC", "ETH"}, watchList.Symbols())

	require.NoError(t, watchList.Remove("BTC"))
	assert.Equal(t, []string{"SOL", "ETH"}, watchList.Symbols())
}
