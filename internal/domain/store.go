package domain

import "sort"

// ModelStore looks up model descriptors by name.
type ModelStore interface {
	FindModel(name string) (*ModelDescriptor, bool)
}

// MemoryStore is a ModelStore backed by a map. It is built once per run and
// read-only during compilation.
type MemoryStore struct {
	models map[string]*ModelDescriptor
}

// NewMemoryStore returns a store holding the given models.
func NewMemoryStore(models ...*ModelDescriptor) *MemoryStore {
	s := &MemoryStore{models: make(map[string]*ModelDescriptor, len(models))}
	for _, m := range models {
		s.Add(m)
	}
	return s
}

// Add registers m. The first model registered under a name wins; Add reports
// whether m was stored.
func (s *MemoryStore) Add(m *ModelDescriptor) bool {
	if m == nil || m.Name == "" {
		return false
	}
	if _, exists := s.models[m.Name]; exists {
		return false
	}
	s.models[m.Name] = m
	return true
}

// FindModel implements ModelStore.
func (s *MemoryStore) FindModel(name string) (*ModelDescriptor, bool) {
	m, ok := s.models[name]
	return m, ok
}

// Names returns the model names in sorted order.
func (s *MemoryStore) Names() []string {
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored models.
func (s *MemoryStore) Len() int {
	return len(s.models)
}
