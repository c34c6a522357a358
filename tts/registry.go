package tts

import (
	"fmt"
	"sort"
	"sync"
)

// EngineFactory constructs an engine from the module configuration.
type EngineFactory func(cfg Config) (Engine, error)

// Registry maps engine names to factories. It is an explicit object rather
// than ambient package state so tests can inject fake engines and consuming
// applications can add their own backends.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]EngineFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]EngineFactory),
	}
}

// Register adds a factory under name, replacing any previous registration.
func (r *Registry) Register(name string, factory EngineFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create builds the engine registered under name.
func (r *Registry) Create(name string, cfg Config) (Engine, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrEngineNotFound, name, r.Names())
	}

	engine, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine %q: %w", name, err)
	}
	return engine, nil
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
