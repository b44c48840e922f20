// Package cache provides the keyed day cache backing daily readings
// and reflection memoization. Keys carry the calendar date, so stale
// entries are simply never read again; there is no eviction.
package cache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a minimal keyed byte store. Implementations must be safe
// for concurrent use.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.entries[key]
	return value, ok
}

func (m *Memory) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// File persists one file per key under a directory, surviving
// restarts the way browser local storage does. Write failures are
// swallowed: the cache is an optimization, not a source of truth.
type File struct {
	mu  sync.Mutex
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

func (f *File) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (f *File) Set(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = os.WriteFile(f.path(key), value, 0o644)
}

func (f *File) path(key string) string {
	// Keys embed dates and reading titles; flatten anything that
	// would escape the cache directory.
	name := strings.NewReplacer("/", "_", string(filepath.Separator), "_", ":", "_").Replace(key)
	return filepath.Join(f.dir, name+".json")
}
