package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestEvaluate_NoBounds(t *testing.T) {
	target := Target{Symbol: "SOL", ID: "solana"}

	alerts, updated := Evaluate(target, 1.0)
	require.Empty(t, alerts)
	assert.Equal(t, target, updated)

	// Evaluating again against any price stays a no-op.
	alerts, updated = Evaluate(updated, 99999.0)
	require.Empty(t, alerts)
	assert.Equal(t, target, updated)
}

func TestEvaluate_LowerBoundFires(t *testing.T) {
	target := Target{Symbol: "SOL", ID: "solana", Bounds: &Bounds{Lower: ptr(180)}}

	alerts, updated := Evaluate(target, 175)
	require.Len(t, alerts, 1)
	assert.Equal(t, BoundLower, alerts[0].Kind)
	assert.Equal(t, 180.0, alerts[0].Bound)
	assert.Equal(t, 175.0, alerts[0].Price)

	// The fired bound is gone and the empty set collapses to absence.
	assert.Nil(t, updated.Bounds)
}

func TestEvaluate_LowerBoundFiresAtExactPrice(t *testing.T) {
	target := Target{Symbol: "SOL", ID: "solana", Bounds: &Bounds{Lower: ptr(180)}}

	alerts, _ := Evaluate(target, 180)
	require.Len(t, alerts, 1)
}

func TestEvaluate_UpperBoundFires(t *testing.T) {
	target := Target{Symbol: "SOL", ID: "solana", Bounds: &Bounds{Lower: ptr(100), Upper: ptr(220)}}

	alerts, updated := Evaluate(target, 250)
	require.Len(t, alerts, 1)
	assert.Equal(t, BoundUpper, alerts[0].Kind)

	// The untouched lower bound stays armed.
	require.NotNil(t, updated.Bounds)
	require.NotNil(t, updated.Bounds.Lower)
	assert.Equal(t, 100.0, *updated.Bounds.Lower)
	assert.Nil(t, updated.Bounds.Upper)
}

func TestEvaluate_PriceInsideBounds(t *testing.T) {
	target := Target{Symbol: "SOL", ID: "solana", Bounds: &Bounds{Lower: ptr(180), Upper: ptr(220)}}

	alerts, updated := Evaluate(target, 200)
	require.Empty(t, alerts)
	assert.Equal(t, target, updated)
}

func TestEvaluate_DegenerateBoundsBothFire(t *testing.T) {
	// lower >= upper is a misconfiguration but both checks still run.
	target := Target{Symbol: "SOL", ID: "solana", Bounds: &Bounds{Lower: ptr(220), Upper: ptr(180)}}

	alerts, updated := Evaluate(target, 200)
	require.Len(t, alerts, 2)
	assert.Equal(t, BoundLower, alerts[0].Kind)
	assert.Equal(t, BoundUpper, alerts[1].Kind)
	assert.Nil(t, updated.Bounds)
}

func TestAlert_Message(t *testing.T) {
	lower := Alert{Symbol: "SOL", Kind: BoundLower, Bound: 180, Price: 175}
	assert.Equal(t, "🔻 SOL hit LOWER bound $180.00000! Current: $175.00000", lower.Message())

	upper := Alert{Symbol: "SOL", Kind: BoundUpper, Bound: 220, Price: 231.5}
	assert.Equal(t, "🚀 SOL hit UPPER bound $220.00000! Current: $231.50000", upper.Message())
}

func TestBounds_Empty(t *testing.T) {
	var bounds *Bounds
	assert.True(t, bounds.Empty())
	assert.True(t, (&Bounds{}).Empty())
	assert.False(t, (&Bounds{Lower: ptr(1)}).Empty())
}
