package legacy

import (
	"fmt"
	"sync"
)

// Array is an n-dimensional complex array in row-major order
type Array struct {
	Shape []int
	Data  []complex128
}

// NewArray checks that data fills shape
func NewArray(shape []int, data []complex128) (*Array, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v needs %d values, got %d", shape, n, len(data))
	}
	return &Array{Shape: shape, Data: data}, nil
}

// ArrayStore is a keyed store of binary arrays grouped by monitor name, as
// written by the legacy solver
type ArrayStore interface {
	Array(group, name string) (*Array, error)
}

// MemStore is an in-memory ArrayStore
type MemStore struct {
	mu     sync.RWMutex
	groups map[string]map[string]*Array
}

func NewMemStore() *MemStore {
	return &MemStore{groups: make(map[string]map[string]*Array)}
}

// Put stores arr under group/name, replacing any previous array
func (s *MemStore) Put(group, name string, arr *Array) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[group]
	if !ok {
		g = make(map[string]*Array)
		s.groups[group] = g
	}
	g[name] = arr
}

func (s *MemStore) Array(group, name string) (*Array, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr, ok := s.groups[group][name]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", group, name, ErrNotFound)
	}
	return arr, nil
}
