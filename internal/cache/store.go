// Package cache persists per-slide analysis results keyed by content
// identity, so unchanged slides skip re-evaluation across runs.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/nibzard/slidegauge/internal/config"
	"github.com/nibzard/slidegauge/internal/rules"
)

// DefaultFile is the cache filename used when the caller does not pick one.
const DefaultFile = ".slidegauge.cache.json"

// Entry is one cached slide result. Identity-addressed: two slides with the
// same trimmed body share an entry, even across documents.
type Entry struct {
	Diagnostics  []rules.Finding `json:"diagnostics"`
	Score        int             `json:"score"`
	BucketScores map[string]int  `json:"bucket_scores"`
}

// Store is a file-backed cache. A missing or unreadable file is an empty
// cache, never an error. The mutex serializes the load-merge-persist cycle
// so concurrent requests cannot interleave read-modify-write.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// New creates a store persisting to path.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all cached entries. Corrupt or absent files yield an empty map.
func (s *Store) Load() map[string]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Merge overlays entries onto the persisted cache and writes it back under
// a single critical section. A no-op when entries is empty.
func (s *Store) Merge(entries map[string]Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.loadLocked()
	for id, e := range entries {
		merged[id] = normalize(e)
	}
	return s.persistLocked(merged)
}

// Clear removes the backing file. Absence is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

func (s *Store) loadLocked() map[string]Entry {
	entries := map[string]Entry{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		// Cache miss
		return entries
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Debug("discarding unreadable cache", "path", s.path, "error", err)
		return map[string]Entry{}
	}

	for id, e := range entries {
		entries[id] = normalize(e)
	}
	return entries
}

// persistLocked writes the cache canonically: key-sorted, compact, no
// trailing newline. Entries round-trip through a generic value so struct
// field order cannot leak into the file.
func (s *Store) persistLocked(entries map[string]Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	var generic any
	if err := config.DecodeJSON(raw, &generic); err != nil {
		return fmt.Errorf("normalizing cache: %w", err)
	}

	text, err := config.Canonical(generic)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// normalize keeps empty collections as empty, never nil, so cached results
// serialize identically to freshly computed ones.
func normalize(e Entry) Entry {
	if e.Diagnostics == nil {
		e.Diagnostics = []rules.Finding{}
	}
	for i := range e.Diagnostics {
		if e.Diagnostics[i].Patch == nil {
			e.Diagnostics[i].Patch = []any{}
		}
	}
	if e.BucketScores == nil {
		e.BucketScores = map[string]int{}
	}
	return e
}
