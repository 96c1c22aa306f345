package plugin

import (
	"fmt"
	"sync"
)

// Entry is a registered plugin together with its registration options.
type Entry struct {
	Plugin  Plugin
	Options map[string]any
}

// Registry keeps plugins in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int // name -> position in entries
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a plugin. A plugin name may be registered once.
func (r *Registry) Register(plugin Plugin, options map[string]any) error {
	if plugin == nil {
		return fmt.Errorf("cannot register nil plugin")
	}

	metadata := plugin.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[metadata.Name]; exists {
		return fmt.Errorf("plugin %s already registered", metadata.Name)
	}

	r.index[metadata.Name] = len(r.entries)
	r.entries = append(r.entries, Entry{Plugin: plugin, Options: options})
	return nil
}

// Has checks if a plugin with the given name exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[name]
	return ok
}

// Entries returns all registrations in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
