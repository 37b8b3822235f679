// Package vm hosts precompiled contracts: it owns the repository, routes
// calls by contract address and serialises them.
package vm

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/govm-net/precompile/api"
	"github.com/govm-net/precompile/config"
	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/logging"
	"github.com/govm-net/precompile/metrics"
	"github.com/govm-net/precompile/precompile"
	"github.com/govm-net/precompile/repository"
	"github.com/govm-net/precompile/repository/cache"
	"github.com/govm-net/precompile/types"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	// 注册存储后端
	_ "github.com/govm-net/precompile/repository/badger"
	_ "github.com/govm-net/precompile/repository/db"
	_ "github.com/govm-net/precompile/repository/memory"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrContractExists   = errors.New("contract already registered")
)

// Engine is responsible for routing calls to precompiled contracts
type Engine struct {
	config  *config.Config
	repo    types.Repository
	logger  *zap.Logger
	metrics *metrics.Metrics

	// nil when the logger was supplied by the caller
	logCloser io.Closer

	mu        sync.RWMutex
	contracts map[core.Address]api.Precompile

	// contracts do no locking of their own
	execMu sync.Mutex
}

type engineOptions struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// Option configures NewEngine
type Option func(*engineOptions)

// WithLogger overrides the logger built from the log section of the config
func WithLogger(l *zap.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithRegisterer sets where metrics are registered when they are enabled
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *engineOptions) { o.registerer = r }
}

// NewEngine opens the configured repository and installs the total-currency
// contract at the configured address
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	// Ensure configuration is valid
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := engineOptions{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}
	var logCloser io.Closer
	if o.logger == nil {
		l, closer, err := logging.New(cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		o.logger, logCloser = l, closer
	}

	repo, err := openRepository(cfg, o.logger)
	if err != nil {
		closeLog(logCloser)
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m, err = metrics.New(o.registerer)
		if err != nil {
			repo.Close()
			closeLog(logCloser)
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	e := &Engine{
		config:    cfg,
		repo:      repo,
		logger:    o.logger,
		metrics:   m,
		logCloser: logCloser,
		contracts: make(map[core.Address]api.Precompile),
	}

	tcc := precompile.New(repo, cfg.ContractAddress(), cfg.OwnerAddress(),
		precompile.WithSchedule(cfg.Energy),
		precompile.WithUnderflowPolicy(cfg.UnderflowPolicy()),
		precompile.WithLogger(o.logger),
		precompile.WithMetrics(m),
	)
	if err := e.Register(tcc.Contract(), tcc); err != nil {
		repo.Close()
		closeLog(logCloser)
		return nil, err
	}

	o.logger.Info("engine started",
		zap.String("repository", cfg.Repository.Type),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Stringer("contract", tcc.Contract()),
		zap.Stringer("owner", tcc.Owner()))
	return e, nil
}

func openRepository(cfg *config.Config, logger *zap.Logger) (types.Repository, error) {
	params := make(map[string]any, len(cfg.Repository.Params)+1)
	for k, v := range cfg.Repository.Params {
		params[k] = v
	}
	params["logger"] = logger

	repo, err := repository.Open(repository.StoreType(cfg.Repository.Type), params)
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return repo, nil
	}

	cached, err := cache.New(repo, cache.Config{
		LifeWindow: cfg.Cache.LifeWindow,
		MaxSizeMB:  cfg.Cache.MaxSizeMB,
	}, logger)
	if err != nil {
		repo.Close()
		return nil, err
	}
	return cached, nil
}

// Register binds a precompile to addr
func (e *Engine) Register(addr core.Address, p api.Precompile) error {
	if p == nil {
		return fmt.Errorf("nil precompile for %s", addr)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.contracts[addr]; exists {
		return fmt.Errorf("%w: %s", ErrContractExists, addr)
	}
	e.contracts[addr] = p
	return nil
}

// Execute invokes the precompile at addr
func (e *Engine) Execute(addr core.Address, input []byte, energyLimit uint64) (types.ExecutionResult, error) {
	e.mu.RLock()
	p, exists := e.contracts[addr]
	e.mu.RUnlock()
	if !exists {
		return types.ExecutionResult{}, fmt.Errorf("%w: %s", ErrContractNotFound, addr)
	}

	e.execMu.Lock()
	defer e.execMu.Unlock()
	return p.Execute(input, energyLimit), nil
}

func (e *Engine) Repository() types.Repository {
	return e.repo
}

func (e *Engine) Config() *config.Config {
	return e.config
}

func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// Close closes the repository, then flushes and closes the log file
func (e *Engine) Close() error {
	err := e.repo.Close()
	if err != nil {
		e.logger.Error("failed to close repository", zap.Error(err))
		err = fmt.Errorf("failed to close repository: %w", err)
	}
	_ = e.logger.Sync()
	if e.logCloser != nil {
		if cerr := e.logCloser.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close log: %w", cerr)
		}
	}
	return err
}

func closeLog(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

var _ api.VM = (*Engine)(nil)
