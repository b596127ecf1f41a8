// Package registry keeps the measurements loaded into the process, keyed by
// file ID, and resolves plot selections against them.
package registry

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/RMahshie/gatescope/internal/network"
)

var (
	ErrNoSelections         = errors.New("registry: no selections given")
	ErrNotFound             = errors.New("registry: selection not found")
	ErrUnsupportedParameter = errors.New("registry: parameter not supported by measurement")
)

// Entry is one loaded measurement plus its parameter capability set.
type Entry struct {
	FileID     string
	Network    *network.Network
	Parameters []network.Parameter
	LoadedAt   time.Time
}

// NewEntry builds an entry, computing the capability set once.
func NewEntry(fileID string, n *network.Network) *Entry {
	return &Entry{
		FileID:     fileID,
		Network:    n,
		Parameters: n.Parameters(),
		LoadedAt:   time.Now(),
	}
}

// Store is the process-wide file registry. Implementations must be safe for
// concurrent use.
type Store interface {
	Put(entry *Entry)
	Get(fileID string) (*Entry, bool)
	GetAll() []*Entry
	Delete(fileID string) bool
	Clear() int
	Len() int
}

// MemoryStore is a Store backed by a map under a RWMutex.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// Put adds or replaces the entry for entry.FileID.
func (s *MemoryStore) Put(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.FileID] = entry
}

func (s *MemoryStore) Get(fileID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[fileID]
	return e, ok
}

// GetAll returns every entry ordered by file ID.
func (s *MemoryStore) GetAll() []*Entry {
	s.mu.RLock()
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].FileID < out[j].FileID })
	return out
}

func (s *MemoryStore) Delete(fileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[fileID]
	delete(s.entries, fileID)
	return ok
}

// Clear drops every entry and returns how many were removed.
func (s *MemoryStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = make(map[string]*Entry)
	return n
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
