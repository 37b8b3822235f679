// Package memory provides an in-memory repository, the default backend for
// tests and for hosts that do not persist state
package memory

import (
	"sync"

	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/repository"
	"github.com/govm-net/precompile/types"
)

// Store implements types.Repository with Go maps
type Store struct {
	mu      sync.Mutex
	storage map[core.Address]map[string][]byte
}

func init() {
	if err := repository.Register(repository.MemoryType, func(map[string]any) (types.Repository, error) {
		return New(), nil
	}); err != nil {
		panic(err)
	}
}

// New creates an empty in-memory repository
func New() *Store {
	return &Store{
		storage: make(map[core.Address]map[string][]byte),
	}
}

// Get returns a copy of the stored value, nil if absent
func (s *Store) Get(contract core.Address, key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.get(contract, key)), nil
}

// Put stores a copy of value
func (s *Store) Put(contract core.Address, key []byte, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(contract, key, value)
	return nil
}

// Update runs fn under the store lock
func (s *Store) Update(contract core.Address, key []byte, fn func(current []byte) ([]byte, error)) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(clone(s.get(contract, key)))
	if err != nil {
		return nil, err
	}
	s.put(contract, key, next)
	return clone(next), nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) get(contract core.Address, key []byte) []byte {
	fields, exists := s.storage[contract]
	if !exists {
		return nil
	}
	return fields[string(key)]
}

func (s *Store) put(contract core.Address, key []byte, value []byte) {
	fields, exists := s.storage[contract]
	if !exists {
		fields = make(map[string][]byte)
		s.storage[contract] = fields
	}
	fields[string(key)] = clone(value)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
