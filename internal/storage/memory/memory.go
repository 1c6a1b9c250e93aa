// Package memory is an in-process storage.KV used for development and tests.
package memory

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"budget/internal/storage"
)

// Store keeps values in a map. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	data      map[string][]byte
	failWrite error
	writes    int
}

var _ storage.KV = (*Store)(nil)

func New() *Store {
	return &Store{data: map[string][]byte{}}
}

// NewFromFiles returns a store whose categories are seeded from
// base/seed_categories.txt (one name per line, # comments allowed). When the
// file is missing or empty nothing is seeded and the tracker falls back to
// its defaults.
func NewFromFiles(base string) *Store {
	s := New()
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(cats) > 0 {
		raw, err := json.Marshal(cats)
		if err != nil {
			slog.Warn("Could not encode seed categories", "path", base, "error", err)
			return s
		}
		s.data[storage.KeyCategories] = raw
	}
	return s
}

// Get implements storage.KV.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements storage.KV.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	s.data[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// SetMany implements storage.KV.
func (s *Store) SetMany(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return s.failWrite
	}
	for k, v := range entries {
		s.data[k] = append([]byte(nil), v...)
	}
	s.writes++
	return nil
}

// Put stores raw bytes regardless of FailWrites; tests use it to plant data.
func (s *Store) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}

// FailWrites makes every later write return err. Pass nil to recover.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = err
}

// Writes returns how many successful write calls the store has served.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
