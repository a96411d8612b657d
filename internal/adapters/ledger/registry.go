package ledger

import (
	"sort"
	"strings"
	"sync"

	perr "ipvault/internal/platform/errors"
)

// Factory builds an adapter for one version
type Factory func(Config) (Adapter, error)

// Registry maps version names to factories
type Registry struct {
	mu sync.RWMutex
	m  map[string]Factory
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry { return &Registry{m: map[string]Factory{}} }

// Add registers f under version, replacing any previous factory
func (r *Registry) Add(version string, f Factory) {
	r.mu.Lock()
	r.m[strings.ToLower(strings.TrimSpace(version))] = f
	r.mu.Unlock()
}

// Open builds the adapter registered for version
func (r *Registry) Open(version string, cfg Config) (Adapter, error) {
	r.mu.RLock()
	f, ok := r.m[strings.ToLower(strings.TrimSpace(version))]
	r.mu.RUnlock()
	if !ok {
		return nil, perr.InvalidArgf("unsupported ledger version %q (have %s)", version, strings.Join(r.Versions(), ", "))
	}
	return f(cfg)
}

// Versions lists registered versions in order
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for v := range r.m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
