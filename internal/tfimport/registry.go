package tfimport

import (
	"sort"
	"sync"
)

// Mapper converts one Terraform resource type into OTM entities on the
// builder.
type Mapper interface {
	ResourceType() string
	Map(r *Resource, b *Builder) error
}

// DefaultRegistry is the global mapper registry; mapper files register
// themselves in init.
var DefaultRegistry = NewRegistry()

// Registry holds resource type mappers.
type Registry struct {
	mu      sync.RWMutex
	mappers map[string]Mapper
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{mappers: make(map[string]Mapper)}
}

// Register adds a mapper for the given resource type.
func (r *Registry) Register(resourceType string, m Mapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[resourceType] = m
}

// Get returns the mapper for the resource type, or nil and false.
func (r *Registry) Get(resourceType string) (Mapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappers[resourceType]
	return m, ok
}

// SupportedTypes returns all registered resource types, sorted.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.mappers))
	for t := range r.mappers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
