package module

import (
	"sort"
	"sync"
)

// Set tracks the modules mounted on one router by name
// two modules under one name would share a route prefix, so Add refuses that
type Set struct {
	mu     sync.RWMutex
	byName map[string]Module
}

// NewSet returns an empty set
func NewSet() *Set {
	return &Set{byName: map[string]Module{}}
}

// Add records m, panicking on a duplicate name
func (s *Set) Add(m Module) {
	name := m.Name()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byName[name]; dup {
		panic("module: duplicate module name " + name)
	}
	s.byName[name] = m
}

// Names lists the recorded module names in sorted order
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.byName))
	for name := range s.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PortsAs fetches the named module's port set as T
func PortsAs[T any](s *Set, name string) (T, bool) {
	s.mu.RLock()
	m, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	return PortsOf[T](m)
}
