package filterstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
)

// documentVersion guards the on-disk schema. Files written by an
// incompatible version are ignored, never half-interpreted.
const documentVersion = 1

// document is the on-disk shape of the store.
type document struct {
	Version    int                        `json:"version"`
	LastUpdate int64                      `json:"lastUpdate"`
	Entries    map[string]json.RawMessage `json:"entries"`
}

// JSONStore is the process-wide keyed store behind persisted filter holders.
// It keeps all entries in memory, marks itself dirty on writes, and persists
// to a JSON file via the flush scheduler (or an explicit Flush). An fsnotify
// watcher picks up external edits to the file.
type JSONStore struct {
	path string
	dir  string
	base string

	mu         sync.RWMutex
	entries    map[string]json.RawMessage
	dirty      bool
	lastUpdate int64
}

// NewJSONStore creates a store backed by the given file path and loads the
// current file content. A missing, malformed, or version-skewed file
// degrades to an empty store.
func NewJSONStore(path string) (*JSONStore, error) {
	if path == "" {
		return nil, errors.New("filter store path is required")
	}

	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}

	s := &JSONStore{
		path:    path,
		dir:     dir,
		base:    filepath.Base(path),
		entries: map[string]json.RawMessage{},
	}
	s.loadFromDisk()
	return s, nil
}

// Get returns the stored value for key.
func (s *JSONStore) Get(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.entries[key]
	return raw, ok
}

// Put stores value under key and marks the store dirty.
func (s *JSONStore) Put(key string, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	s.dirty = true
}

// Delete removes key from the store.
func (s *JSONStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		delete(s.entries, key)
		s.dirty = true
	}
}

// Len returns the number of stored entries.
func (s *JSONStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IsDirty returns true if the store has unpersisted changes.
func (s *JSONStore) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Flush persists the store to disk if dirty.
func (s *JSONStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	doc := document{
		Version:    documentVersion,
		LastUpdate: time.Now().UnixMilli(),
		Entries:    s.entries,
	}
	if err := s.saveLocked(doc); err != nil {
		return err
	}
	s.dirty = false
	s.lastUpdate = doc.LastUpdate
	return nil
}

// saveLocked writes the document atomically (temp file + rename), so readers
// and the watcher never observe a torn file. Caller must hold the lock.
func (s *JSONStore) saveLocked(doc document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal filter store: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, s.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), s.path); err != nil {
		return fmt.Errorf("replace filter store file: %w", err)
	}
	return nil
}

// loadFromDisk replaces the in-memory entries with the file content when the
// file is usable. Any problem leaves the store as-is and logs a warning:
// persisted filters are a convenience, never a reason to fail.
func (s *JSONStore) loadFromDisk() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithComponent("filterstore").Warnf("cannot read %s: %v", s.path, err)
		}
		return
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.WithComponent("filterstore").Warnf("ignoring malformed filter store file %s: %v", s.path, err)
		return
	}
	if doc.Version != 0 && doc.Version != documentVersion {
		logger.WithComponent("filterstore").Warnf("ignoring filter store file %s: schema version %d, want %d", s.path, doc.Version, documentVersion)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.Entries == nil {
		doc.Entries = map[string]json.RawMessage{}
	}
	s.entries = doc.Entries
	s.lastUpdate = doc.LastUpdate
	s.dirty = false
}

// reloadIfNewer is the watcher callback: it re-reads the file unless the
// in-memory store has unpersisted changes (those win and get flushed soon).
func (s *JSONStore) reloadIfNewer() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		logger.WithComponent("filterstore").Warnf("watch reload failed: %v", err)
		return
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.WithComponent("filterstore").Warnf("watch reload: malformed file: %v", err)
		return
	}
	if doc.Version != 0 && doc.Version != documentVersion {
		logger.WithComponent("filterstore").Warnf("watch reload: schema version %d, want %d", doc.Version, documentVersion)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.LastUpdate < s.lastUpdate {
		return
	}
	if s.dirty {
		logger.WithComponent("filterstore").Warn("disk data is newer but store is dirty; skipping reload")
		return
	}
	if doc.Entries == nil {
		doc.Entries = map[string]json.RawMessage{}
	}
	s.entries = doc.Entries
	s.lastUpdate = doc.LastUpdate
	logger.WithComponent("filterstore").Info("filter store reloaded from newer disk version")
}

// StartWatcher listens for changes to the store file and reloads after a
// debounce. It watches the parent directory (not the file) so atomic replace
// sequences (temp+rename) are still observed. Cancel the context to stop the
// goroutine and close the watcher cleanly.
func (s *JSONStore) StartWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		// debounce coalesces bursty fsnotify events (write+chmod/rename)
		// into a single reload.
		var debounce *time.Timer
		schedule := func() {
			if debounce != nil {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
			}
			debounce = time.AfterFunc(200*time.Millisecond, s.reloadIfNewer)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != s.base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("filterstore").Warnf("watcher error: %v", err)
			}
		}
	}()

	return nil
}
