package overlay

import (
	"slices"
	"sync"
)

// Entry is the latest display summary for one stat.
type Entry struct {
	Stat          string
	DisplayNames  []string
	TrainingValue float64
}

// Store maps stat names to their latest entry. It is written by the detection
// loop and read by the render tick; all methods are safe for concurrent use.
// Entries keep the order in which their stat was first set.
type Store struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
	version uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Set overwrites the entry for stat. names is copied.
func (s *Store) Set(stat string, names []string, value float64) {
	e := Entry{Stat: stat, DisplayNames: slices.Clone(names), TrainingValue: value}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[stat]; !ok {
		s.order = append(s.order, stat)
	}
	s.entries[stat] = e
	s.version++
}

// ResetAll clears every entry.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	clear(s.entries)
	s.version++
}

// Snapshot returns a deep copy of all entries in insertion order.
func (s *Store) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.order))
	for _, stat := range s.order {
		e := s.entries[stat]
		e.DisplayNames = slices.Clone(e.DisplayNames)
		out = append(out, e)
	}
	return out
}

// Get returns the entry for stat.
func (s *Store) Get(stat string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[stat]
	e.DisplayNames = slices.Clone(e.DisplayNames)
	return e, ok
}

// Len returns the number of stats with an entry.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Version increments on every mutation; readers use it to skip redundant redraws.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
