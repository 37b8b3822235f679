// Package cache 提供基于 BigCache 的只读缓存装饰器
//
// The decorator serves repeated balance reads from memory and writes through
// to the wrapped repository. Values are cached only after the wrapped
// repository has accepted them, so the cache never holds uncommitted state.
package cache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/types"
	"go.uber.org/zap"
)

// Config BigCache 配置
type Config struct {
	LifeWindow time.Duration // 条目存活时间
	MaxSizeMB  int           // 缓存上限，0 表示不限制
	Shards     int           // 分片数，必须是 2 的幂
}

// DefaultConfig returns the cache settings used when none are configured
func DefaultConfig() Config {
	return Config{
		LifeWindow: 10 * time.Minute,
		MaxSizeMB:  64,
		Shards:     256,
	}
}

// Store wraps a repository with a read cache
type Store struct {
	inner  types.Repository
	cache  *bigcache.BigCache
	logger *zap.Logger

	// serialises writes and cache fills so the cache follows commit order
	mu sync.Mutex
}

// New wraps inner. The caller keeps no other reference to inner; Close closes both.
func New(inner types.Repository, cfg Config, logger *zap.Logger) (*Store, error) {
	if inner == nil {
		return nil, fmt.Errorf("nil repository")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LifeWindow <= 0 {
		cfg.LifeWindow = DefaultConfig().LifeWindow
	}

	bcfg := bigcache.DefaultConfig(cfg.LifeWindow)
	bcfg.HardMaxCacheSize = cfg.MaxSizeMB
	bcfg.Verbose = false
	if cfg.Shards > 0 {
		bcfg.Shards = cfg.Shards
	}

	c, err := bigcache.New(context.Background(), bcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigcache: %w", err)
	}

	return &Store{
		inner:  inner,
		cache:  c,
		logger: logger,
	}, nil
}

// Get implements types.Repository
func (s *Store) Get(contract core.Address, key []byte) ([]byte, error) {
	ck := cacheKey(contract, key)

	value, err := s.cache.Get(ck)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, bigcache.ErrEntryNotFound) {
		s.logger.Warn("cache read failed", zap.String("key", ck), zap.Error(err))
	}

	// fill under the write lock so a stale read cannot replace a newer value
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err = s.inner.Get(contract, key)
	if err != nil {
		return nil, err
	}
	// absent keys are not cached
	if value != nil {
		s.set(ck, value)
	}
	return value, nil
}

// Put implements types.Repository
func (s *Store) Put(contract core.Address, key []byte, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ck := cacheKey(contract, key)
	if err := s.inner.Put(contract, key, value); err != nil {
		s.invalidate(ck)
		return err
	}
	s.set(ck, value)
	return nil
}

// Update implements types.Repository
func (s *Store) Update(contract core.Address, key []byte, fn func(current []byte) ([]byte, error)) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ck := cacheKey(contract, key)
	next, err := s.inner.Update(contract, key, fn)
	if err != nil {
		s.invalidate(ck)
		return nil, err
	}
	s.set(ck, next)
	return next, nil
}

// Close closes the cache and the wrapped repository
func (s *Store) Close() error {
	cacheErr := s.cache.Close()
	if err := s.inner.Close(); err != nil {
		return err
	}
	return cacheErr
}

// Len reports the number of cached entries
func (s *Store) Len() int {
	return s.cache.Len()
}

func (s *Store) set(ck string, value []byte) {
	if value == nil {
		value = []byte{}
	}
	if err := s.cache.Set(ck, value); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", ck), zap.Error(err))
		s.invalidate(ck)
	}
}

func (s *Store) invalidate(ck string) {
	if err := s.cache.Delete(ck); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		s.logger.Warn("cache delete failed", zap.String("key", ck), zap.Error(err))
	}
}

func cacheKey(contract core.Address, key []byte) string {
	return contract.String() + ":" + hex.EncodeToString(key)
}
