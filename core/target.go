package core

import (
	"fmt"
	"time"
)

// Bounds holds the optional one-shot price thresholds of a target.
// A nil pointer means the corresponding bound is not armed.
type Bounds struct {
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

// Empty reports whether no bound is armed.
func (b *Bounds) Empty() bool {
	return b == nil || (b.Lower == nil && b.Upper == nil)
}

// Target is one tracked token. The symbol is the display name, unique
// case-insensitively across the watch-list; the ID is the opaque
// identifier handed to the price oracle. A target with a nil Bounds
// field is still tracked and priced but never triggers alerts.
type Target struct {
	Symbol string  `json:"symbol"`
	ID     string  `json:"id"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// BoundKind identifies which threshold of a target fired.
type BoundKind string

const (
	BoundLower BoundKind = "LOWER"
	BoundUpper BoundKind = "UPPER"
)

// Alert is a single fired bound crossing.
type Alert struct {
	Symbol string    `json:"symbol"`
	Kind   BoundKind `json:"kind"`
	Bound  float64   `json:"bound"`
	Price  float64   `json:"price"`
	At     time.Time `json:"at"`
}

// Message renders the chat notification text for the alert.
func (a Alert) Message() string {
	icon := "🔻"
	if a.Kind == BoundUpper {
		icon = "🚀"
	}
	return fmt.Sprintf("%s %s hit %s bound $%.5f! Current: $%.5f", icon, a.Symbol, a.Kind, a.Bound, a.Price)
}

// Evaluate checks a target against the given price and returns the fired
// alerts together with the resulting target. Both bounds are checked
// independently, so a misconfigured lower >= upper pair fires both in a
// single call. Fired bounds are removed; when none remain, the Bounds
// field collapses to nil so serialization omits it entirely. A target
// with no armed bounds is returned unchanged with no alerts.
func Evaluate(t Target, price float64) ([]Alert, Target) {
	if t.Bounds.Empty() {
		t.Bounds = nil
		return nil, t
	}

	var alerts []Alert
	now := time.Now()
	remaining := &Bounds{Lower: t.Bounds.Lower, Upper: t.Bounds.Upper}

	if remaining.Lower != nil && price <= *remaining.Lower {
		alerts = append(alerts, Alert{Symbol: t.Symbol, Kind: BoundLower, Bound: *remaining.Lower, Price: price, At: now})
		remaining.Lower = nil
	}

	if remaining.Upper != nil && price >= *remaining.Upper {
		alerts = append(alerts, Alert{Symbol: t.Symbol, Kind: BoundUpper, Bound: *remaining.Upper, Price: price, At: now})
		remaining.Upper = nil
	}

	if remaining.Empty() {
		remaining = nil
	}

	t.Bounds = remaining
	return alerts, t
}
