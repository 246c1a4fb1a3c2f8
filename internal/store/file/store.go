// Package file implements the seen-offer store as a JSON file on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultCapacity bounds the persisted fingerprint set.
const DefaultCapacity = 2000

// Config captures the parameters for the file-backed seen store.
type Config struct {
	// Path is the JSON file holding the fingerprint array.
	Path string `mapstructure:"path"`
	// Capacity caps how many fingerprints are persisted; the most
	// recently added entries win. Zero means DefaultCapacity.
	Capacity int `mapstructure:"capacity"`
}

// Store persists fingerprints as a JSON string array, fully rewritten on
// each save. Writes go through a temp file plus rename so a crash mid-save
// never leaves a partial file visible.
type Store struct {
	path     string
	capacity int
}

// New validates the target path and creates its parent directory.
func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if cfg.Capacity < 0 {
		return nil, fmt.Errorf("store capacity must be >= 0")
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	return &Store{path: cfg.Path, capacity: cfg.Capacity}, nil
}

// Load reads the persisted fingerprints. A missing or corrupt file is a
// recoverable first-run condition and yields an empty set.
func (s *Store) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seen store: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		// Corrupt store: start over rather than wedging every scan.
		return nil, nil
	}
	return ids, nil
}

// Save persists the fingerprints, truncating to the most recently added
// capacity entries, and renames the finished temp file into place.
func (s *Store) Save(_ context.Context, ids []string) error {
	if len(ids) > s.capacity {
		ids = ids[len(ids)-s.capacity:]
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal seen store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".seen-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace seen store: %w", err)
	}
	return nil
}
