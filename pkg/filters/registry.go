package filters

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps filter identifiers to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// Default is the process-wide registry used by the package-level helpers
var Default = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register maps each identifier to factory. Registering an identifier again
// replaces the earlier factory.
func (r *Registry) Register(factory Factory, identifiers ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range identifiers {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		r.factories[id] = factory
	}
}

// Named returns the factory registered under name
func (r *Registry) Named(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[strings.TrimSpace(name)]
	return factory, exists
}

// Find returns the factory registered under name, or an error matching
// ErrFilterNotFound
func (r *Registry) Find(name string) (Factory, error) {
	factory, exists := r.Named(name)
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrFilterNotFound, name)
	}
	return factory, nil
}

// New builds a filter instance for name with the given assigns
func (r *Registry) New(name string, assigns Assigns) (Filter, error) {
	factory, err := r.Find(name)
	if err != nil {
		return nil, err
	}
	return factory(assigns), nil
}

// Identifiers returns every registered identifier, sorted
func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.factories))
	for id := range r.factories {
		result = append(result, id)
	}
	sort.Strings(result)

	return result
}

// Global registry functions for convenience

// Register adds factory to the default registry under identifiers
func Register(factory Factory, identifiers ...string) {
	Default.Register(factory, identifiers...)
}

// Named looks up name in the default registry
func Named(name string) (Factory, bool) {
	return Default.Named(name)
}

// Find looks up name in the default registry
func Find(name string) (Factory, error) {
	return Default.Find(name)
}
