// Package badger provides a repository backed by BadgerDB
package badger

import (
	"errors"
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/repository"
	"github.com/govm-net/precompile/types"
	"go.uber.org/zap"
)

const (
	defaultPath = "./data/badger"

	// maxConflictRetries bounds the retries of a conflicting read-modify-write
	maxConflictRetries = 64
)

// Options BadgerDB 存储配置
type Options struct {
	Path       string // 数据目录，InMemory 时忽略
	InMemory   bool
	SyncWrites bool
	Logger     *zap.Logger
}

// Store implements types.Repository with one badger key per (contract, key)
type Store struct {
	db     *badgerdb.DB
	logger *zap.Logger
}

func init() {
	if err := repository.Register(repository.BadgerType, func(params map[string]any) (types.Repository, error) {
		opts := Options{
			Path:       repository.StringParam(params, "path", defaultPath),
			InMemory:   repository.BoolParam(params, "in_memory", false),
			SyncWrites: repository.BoolParam(params, "sync_writes", true),
		}
		if l, ok := params["logger"].(*zap.Logger); ok {
			opts.Logger = l
		}
		return Open(opts)
	}); err != nil {
		panic(err)
	}
}

// Open opens the database described by opts
func Open(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var bopts badgerdb.Options
	if opts.InMemory {
		bopts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("badger path is empty")
		}
		if err := os.MkdirAll(opts.Path, 0700); err != nil {
			return nil, fmt.Errorf("failed to create badger directory: %w", err)
		}
		bopts = badgerdb.DefaultOptions(opts.Path)
		bopts.SyncWrites = opts.SyncWrites
	}
	bopts.Logger = &badgerLogger{logger: logger.Sugar()}

	db, err := badgerdb.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	logger.Debug("badger repository opened", zap.String("path", opts.Path), zap.Bool("in_memory", opts.InMemory))
	return &Store{db: db, logger: logger}, nil
}

// Get implements types.Repository
func (s *Store) Get(contract core.Address, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		var err error
		value, err = get(txn, storageKey(contract, key))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get storage: %w", err)
	}
	return value, nil
}

// Put implements types.Repository
func (s *Store) Put(contract core.Address, key []byte, value []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(storageKey(contract, key), nonNil(value))
	})
	if err != nil {
		return fmt.Errorf("failed to put storage: %w", err)
	}
	return nil
}

// Update implements types.Repository. Badger transactions are optimistic, so
// a conflicting commit is retried with a fresh read.
func (s *Store) Update(contract core.Address, key []byte, fn func(current []byte) ([]byte, error)) ([]byte, error) {
	k := storageKey(contract, key)

	for attempt := 0; ; attempt++ {
		var next []byte
		err := s.db.Update(func(txn *badgerdb.Txn) error {
			current, err := get(txn, k)
			if err != nil {
				return err
			}
			next, err = fn(current)
			if err != nil {
				return err
			}
			return txn.Set(k, nonNil(next))
		})
		if errors.Is(err, badgerdb.ErrConflict) && attempt < maxConflictRetries {
			s.logger.Debug("badger update conflict, retrying", zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, err
		}
		return next, nil
	}
}

// Close closes the database
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger: %w", err)
	}
	return nil
}

func get(txn *badgerdb.Txn, k []byte) ([]byte, error) {
	item, err := txn.Get(k)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// storageKey is contract || key
func storageKey(contract core.Address, key []byte) []byte {
	k := make([]byte, 0, core.AddressLength+len(key))
	k = append(k, contract[:]...)
	return append(k, key...)
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// badgerLogger routes badger's internal logging to zap
type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("[BadgerDB] "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("[BadgerDB] "+format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof("[BadgerDB] "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}
