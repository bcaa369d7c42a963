// Package localstate persists the dashboard's selection state (session,
// active site, derived keys) as JSON blobs on disk. The store is a
// best-effort mirror, never authoritative: write failures are logged and
// swallowed, and corrupt or missing blobs read back as "nothing stored".
package localstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
)

// Store reads and writes named JSON blobs inside a state directory.
type Store struct {
	dir    string
	logger *logging.ChanneledLogger
	mu     sync.Mutex
}

// New creates the state directory if needed and returns a store over it.
func New(dir string, logger *logging.ChanneledLogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the blob under key into v. It returns false when the blob is
// absent or cannot be parsed; corruption is never surfaced as an error.
func (s *Store) Load(key string, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.State().Warn("Discarding unparseable state blob", "key", key, "error", err.Error())
		return false
	}
	return true
}

// Save writes v as the blob under key, best-effort. The blob is written to
// a temp file and renamed into place, so a crash mid-write never truncates
// a previously stored blob.
func (s *Store) Save(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		s.logger.State().Warn("Failed to encode state blob", "key", key, "error", err.Error())
		return
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		s.logger.State().Warn("Failed to stage state blob", "key", key, "error", err.Error())
		return
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		s.logger.State().Warn("Failed to write state blob", "key", key, "error", err.Error())
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		s.logger.State().Warn("Failed to write state blob", "key", key, "error", err.Error())
		return
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		s.logger.State().Warn("Failed to write state blob", "key", key, "error", err.Error())
	}
}

// Clear removes the blob under key, best-effort.
func (s *Store) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.logger.State().Warn("Failed to remove state blob", "key", key, "error", err.Error())
	}
}
