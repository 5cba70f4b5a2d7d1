// Package storage persists the watch-list and the fired-alert history.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/manivija/tokenwatch/core"
)

const backupSuffix = ".bak"

// FileStore implements core.WatchStore on top of a single JSON file. The
// file keeps the original two-space indent so it stays directly editable.
// Every save first copies the live file to <path>.bak and then replaces
// the live file atomically via a rename, so a crash mid-write never
// destroys both copies at once.
//
// One mutex serializes Load, Save and Update; Update holds it across the
// whole load-mutate-save critical section so the Monitor loop and the
// command handlers cannot overwrite each other's changes.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  core.Logger
}

// NewFileStore creates a store persisting to the given path.
func NewFileStore(path string, log core.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Path returns the live file path.
func (s *FileStore) Path() string {
	return s.path
}

// BackupPath returns the path the previous state is copied to on save.
func (s *FileStore) BackupPath() string {
	return s.path + backupSuffix
}

// Load reads the persisted watch-list. A missing file yields an empty
// list; an existing but unparseable file yields core.ErrStoreCorrupt.
func (s *FileStore) Load(ctx context.Context) ([]core.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save persists the given targets, keeping a backup of the previous state.
func (s *FileStore) Save(ctx context.Context, targets []core.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(targets)
}

// Update runs fn with the store lock held across load, mutation and save.
// The save only happens when fn reports a change and no error.
func (s *FileStore) Update(ctx context.Context, fn core.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	targets, err := s.load()
	if err != nil {
		return err
	}

	updated, changed, err := fn(targets)
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	return s.save(updated)
}

func (s *FileStore) load() ([]core.Target, error) {
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []core.Target{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var targets []core.Target
	if err := json.Unmarshal(content, &targets); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrStoreCorrupt, s.path, err)
	}

	return targets, nil
}

func (s *FileStore) save(targets []core.Target) error {
	if err := s.backup(); err != nil {
		return err
	}

	content, err := json.MarshalIndent(targets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal watch-list: %w", err)
	}

	// Write to a temp file in the same directory and rename it over the
	// live file, never truncating the original in place.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".targets-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	s.log.WithField("targets", len(targets)).Debug("watch-list persisted")
	return nil
}

// backup copies the current live file to the backup path. Nothing to do
// before the very first save.
func (s *FileStore) backup() error {
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s for backup: %w", s.path, err)
	}

	if err := os.WriteFile(s.BackupPath(), content, 0o644); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", s.BackupPath(), err)
	}

	return nil
}
