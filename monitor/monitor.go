// Package monitor drives the periodic bound evaluation of the watch-list.
package monitor

import (
	"context"
	"time"

	"github.com/manivija/tokenwatch/core"
)

// Status represents the current state of the monitor
type Status string

// Available monitor statuses
const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// DefaultInterval is the delay between two cycles when none is configured.
const DefaultInterval = 60 * time.Second

// Monitor wakes on a fixed interval, re-reads the watch-list from the
// store, prices every target, evaluates bounds and persists the resulting
// list once per cycle when any bound fired. The whole load-evaluate-save
// runs inside the store's critical section, so command-driven edits either
// land before a cycle reads or after it has saved, never in between.
type Monitor struct {
	store    core.WatchStore
	oracle   core.PriceOracle
	notifier core.Notifier
	history  core.AlertLog
	interval time.Duration
	log      core.Logger
	finish   chan bool
	status   Status
}

// New creates a monitor. A zero interval falls back to DefaultInterval.
func New(
	store core.WatchStore,
	oracle core.PriceOracle,
	notifier core.Notifier,
	history core.AlertLog,
	interval time.Duration,
	log core.Logger,
) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Monitor{
		store:    store,
		oracle:   oracle,
		notifier: notifier,
		history:  history,
		interval: interval,
		log:      log,
		finish:   make(chan bool),
		status:   StatusStopped,
	}
}

// Status returns the current monitor status
func (m *Monitor) Status() Status {
	return m.status
}

// Run executes cycles until the context is cancelled. The first cycle
// starts immediately; later ones follow the configured interval.
func (m *Monitor) Run(ctx context.Context) error {
	m.status = StatusRunning
	defer func() { m.status = StatusStopped }()

	m.log.WithField("interval", m.interval.String()).Info("Price monitor started.")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Cycle(ctx)

		select {
		case <-ctx.Done():
			m.log.Info("Price monitor stopped.")
			return ctx.Err()
		case <-m.finish:
			m.log.Info("Price monitor stopped.")
			return nil
		case <-ticker.C:
		}
	}
}

// Stop halts the monitoring loop.
func (m *Monitor) Stop() {
	if m.status == StatusRunning {
		m.finish <- true
	}
}

// Cycle runs one full evaluation pass. Exported so tests and one-shot CLI
// invocations can drive cycles deterministically.
func (m *Monitor) Cycle(ctx context.Context) {
	var alerts []core.Alert

	err := m.store.Update(ctx, func(targets []core.Target) ([]core.Target, bool, error) {
		updated := make([]core.Target, 0, len(targets))

		for _, target := range targets {
			price, ok := m.oracle.GetPrice(ctx, target.ID)
			if !ok {
				// Unpriceable this cycle: carried through untouched.
				m.log.WithField("symbol", target.Symbol).Debug("price unavailable, skipping target")
				updated = append(updated, target)
				continue
			}

			fired, next := core.Evaluate(target, price)
			alerts = append(alerts, fired...)
			updated = append(updated, next)
		}

		// One save per cycle, and only when a bound fired.
		return updated, len(alerts) > 0, nil
	})

	if err != nil {
		m.log.WithError(err).Error("monitor cycle failed")
		return
	}

	for _, alert := range alerts {
		if m.history != nil {
			if err := m.history.Append(ctx, alert); err != nil {
				m.log.WithError(err).Error("failed to record alert")
			}
		}

		// Best-effort delivery. The bound is already removed, so a lost
		// send is not resent on the next cycle.
		m.notifier.Notify(alert.Message())
	}
}
