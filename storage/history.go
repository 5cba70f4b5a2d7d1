package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/manivija/tokenwatch/core"
	"github.com/tidwall/buntdb"
)

const alertIndexName = "fired_index"

// AlertHistory implements core.AlertLog using BuntDB. Every fired alert is
// stored as a JSON document under an increasing key, indexed by the firing
// timestamp so Recent can walk most-recent-first.
type AlertHistory struct {
	lastID int64
	db     *buntdb.DB
	log    core.Logger
}

// NewAlertHistoryFromMemory creates an in-memory history, used in tests.
func NewAlertHistoryFromMemory(log core.Logger) (*AlertHistory, error) {
	return NewAlertHistory(":memory:", log)
}

// NewAlertHistory opens or creates a file-backed alert history.
func NewAlertHistory(sourceFile string, log core.Logger) (*AlertHistory, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	if err := db.CreateIndex(alertIndexName, "*", buntdb.IndexJSON("at")); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	h := &AlertHistory{db: db, log: log}

	// Resume the key sequence after a restart.
	err = db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("", func(key, _ string) bool {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > h.lastID {
				h.lastID = id
			}
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan existing alerts: %w", err)
	}

	return h, nil
}

func (h *AlertHistory) getID() int64 {
	return atomic.AddInt64(&h.lastID, 1)
}

// Append records a fired alert.
func (h *AlertHistory) Append(_ context.Context, alert core.Alert) error {
	return h.db.Update(func(tx *buntdb.Tx) error {
		content, err := json.Marshal(alert)
		if err != nil {
			return fmt.Errorf("failed to marshal alert: %w", err)
		}

		key := strconv.FormatInt(h.getID(), 10)
		if _, _, err := tx.Set(key, string(content), nil); err != nil {
			return fmt.Errorf("failed to store alert: %w", err)
		}

		return nil
	})
}

// Recent returns up to n alerts, most recent first.
func (h *AlertHistory) Recent(_ context.Context, n int) ([]core.Alert, error) {
	alerts := make([]core.Alert, 0, n)

	err := h.db.View(func(tx *buntdb.Tx) error {
		return tx.Descend(alertIndexName, func(key, value string) bool {
			var alert core.Alert
			if err := json.Unmarshal([]byte(value), &alert); err != nil {
				h.log.WithError(err).WithField("key", key).Error("failed to unmarshal alert")
				return true
			}

			alerts = append(alerts, alert)
			return len(alerts) < n
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}

	return alerts, nil
}

// Close closes the underlying database.
func (h *AlertHistory) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}
