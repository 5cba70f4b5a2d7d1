package core

import "context"

// PriceOracle looks up the current USD price of a token. A false ok means
// the price could not be fetched this time; callers skip the token for the
// cycle rather than treating the result as zero. No retry happens inside a
// single call, the Monitor's periodic re-invocation is the retry cadence.
type PriceOracle interface {
	GetPrice(ctx context.Context, id string) (price float64, ok bool)
}

// UpdateFunc receives the freshly loaded targets and returns the targets to
// persist. The save is skipped when changed is false or err is non-nil.
type UpdateFunc func(targets []Target) (updated []Target, changed bool, err error)

// WatchStore persists the watch-list. Load, Save and Update serialize
// through a single mutual-exclusion lock so the Monitor loop and the
// command handlers never interleave a load-mutate-save against each other.
type WatchStore interface {
	Load(ctx context.Context) ([]Target, error)
	Save(ctx context.Context, targets []Target) error

	// Update runs fn with the lock held across load, mutation and save.
	Update(ctx context.Context, fn UpdateFunc) error
}

// AlertLog records fired alerts for later inspection.
type AlertLog interface {
	Append(ctx context.Context, alert Alert) error
	Recent(ctx context.Context, n int) ([]Alert, error)
}

// Notifier delivers messages to the authorized chat. Delivery is best
// effort; implementations log failures instead of returning them.
type Notifier interface {
	Notify(text string)
	OnError(err error)
}

// NotifierWithStart is a notifier that owns a long-running receive loop.
type NotifierWithStart interface {
	Notifier
	Start()
}
