// Package repository holds the registry of contract state backends.
// Backends register themselves from their init functions; hosts open one by
// type name with a parameter map taken from configuration.
package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/govm-net/precompile/types"
)

// StoreType names a repository backend
type StoreType string

const (
	// MemoryType represents the in-memory repository
	MemoryType StoreType = "memory"
	// DBType represents the SQL (gorm/sqlite) repository
	DBType StoreType = "db"
	// BadgerType represents the badger key-value repository
	BadgerType StoreType = "badger"
)

// Constructor creates a new repository instance from backend parameters
type Constructor func(params map[string]any) (types.Repository, error)

// Registry defines the interface for managing repository backends
type Registry interface {
	// Register adds a new backend to the registry
	Register(st StoreType, constructor Constructor) error
	// SetDefault sets the default backend type
	SetDefault(st StoreType) error
	// Open returns a new instance of the specified backend
	Open(st StoreType, params map[string]any) (types.Repository, error)
	// DefaultStoreType returns the current default backend type
	DefaultStoreType() StoreType
	// ListRegistered returns the registered backend types, sorted
	ListRegistered() []StoreType
}

type registry struct {
	mu        sync.RWMutex
	stores    map[StoreType]Constructor
	defaultSt StoreType
}

var defaultRegistry Registry

func init() {
	defaultRegistry = NewRegistry()
}

// NewRegistry creates an empty registry
func NewRegistry() Registry {
	return &registry{
		stores: make(map[StoreType]Constructor),
	}
}

// GetRegistry returns the global Registry instance
func GetRegistry() Registry {
	return defaultRegistry
}

func (r *registry) Register(st StoreType, constructor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if constructor == nil {
		return fmt.Errorf("nil constructor for store type %s", st)
	}
	if _, exists := r.stores[st]; exists {
		return fmt.Errorf("store type %s already registered", st)
	}

	r.stores[st] = constructor
	return nil
}

func (r *registry) SetDefault(st StoreType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stores[st]; !exists {
		return fmt.Errorf("store type %s not registered", st)
	}

	r.defaultSt = st
	return nil
}

func (r *registry) Open(st StoreType, params map[string]any) (types.Repository, error) {
	if st == "" {
		st = r.DefaultStoreType()
	}

	r.mu.RLock()
	constructor, exists := r.stores[st]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("store type %s not found", st)
	}
	if params == nil {
		params = make(map[string]any)
	}

	repo, err := constructor(params)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s repository: %w", st, err)
	}
	return repo, nil
}

func (r *registry) DefaultStoreType() StoreType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultSt == "" {
		return MemoryType
	}
	return r.defaultSt
}

func (r *registry) ListRegistered() []StoreType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]StoreType, 0, len(r.stores))
	for st := range r.stores {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Package level functions that delegate to defaultRegistry

// Register adds a new backend to the global registry
func Register(st StoreType, constructor Constructor) error {
	return GetRegistry().Register(st, constructor)
}

// SetDefault sets the default backend of the global registry
func SetDefault(st StoreType) error {
	return GetRegistry().SetDefault(st)
}

// Open returns a new repository of the given type; an empty type opens the default
func Open(st StoreType, params map[string]any) (types.Repository, error) {
	return GetRegistry().Open(st, params)
}

// ListRegistered returns the backends registered globally
func ListRegistered() []StoreType {
	return GetRegistry().ListRegistered()
}

// StringParam reads a string parameter, falling back to def when absent or empty
func StringParam(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

// BoolParam reads a boolean parameter
func BoolParam(params map[string]any, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

// IntParam reads an integer parameter; YAML decoding yields int, JSON float64
func IntParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}
