package core

import (
	"strings"

	"github.com/StudioSol/set"
)

// WatchList is the ordered in-memory view of the tracked targets. It is
// rebuilt from the persistent store at the start of every operation and
// never cached across operations; the store remains the single source of
// truth between Monitor cycles and command handlers.
type WatchList struct {
	targets []Target
	symbols *set.LinkedHashSetString
}

// NewWatchList builds a watch-list from the targets loaded from the store.
func NewWatchList(targets []Target) *WatchList {
	w := &WatchList{
		targets: make([]Target, 0, len(targets)),
		symbols: set.NewLinkedHashSetString(),
	}
	for _, t := range targets {
		w.targets = append(w.targets, t)
		w.symbols.Add(strings.ToUpper(t.Symbol))
	}
	return w
}

// Add appends a new target, rejecting case-insensitive symbol duplicates.
func (w *WatchList) Add(t Target) error {
	key := strings.ToUpper(t.Symbol)
	if w.symbols.InArray(key) {
		return ErrDuplicateSymbol
	}
	if t.Bounds.Empty() {
		t.Bounds = nil
	}
	w.targets = append(w.targets, t)
	w.symbols.Add(key)
	return nil
}

// Remove deletes the target matching the symbol case-insensitively.
func (w *WatchList) Remove(symbol string) error {
	key := strings.ToUpper(symbol)
	for i, t := range w.targets {
		if strings.ToUpper(t.Symbol) == key {
			w.targets = append(w.targets[:i], w.targets[i+1:]...)
			w.symbols.Remove(key)
			return nil
		}
	}
	return ErrSymbolNotFound
}

// Find returns the target matching the symbol case-insensitively.
func (w *WatchList) Find(symbol string) (Target, error) {
	key := strings.ToUpper(symbol)
	for _, t := range w.targets {
		if strings.ToUpper(t.Symbol) == key {
			return t, nil
		}
	}
	return Target{}, ErrSymbolNotFound
}

// Symbols returns the tracked symbols in insertion order.
func (w *WatchList) Symbols() []string {
	symbols := make([]string, 0, len(w.targets))
	for _, t := range w.targets {
		symbols = append(symbols, t.Symbol)
	}
	return symbols
}

// Targets returns the ordered targets for persistence.
func (w *WatchList) Targets() []Target {
	return w.targets
}

// Len returns the number of tracked targets.
func (w *WatchList) Len() int {
	return len(w.targets)
}
