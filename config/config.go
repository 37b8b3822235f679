// Package config loads the host configuration from YAML
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/energy"
	"github.com/govm-net/precompile/ledger"
	"github.com/govm-net/precompile/logging"
	"github.com/govm-net/precompile/repository"
	"gopkg.in/yaml.v3"
)

// DefaultContractAddress is where the total-currency contract is installed
const DefaultContractAddress = "0000000000000000000000000000000000000000000000000000000000000100"

// Config represents host configuration
type Config struct {
	// Contract related configuration
	Contract  string          `yaml:"contract"`  // contract address (hex)
	Owner     string          `yaml:"owner"`     // owner address (hex)
	Energy    energy.Schedule `yaml:"energy"`    // energy cost table
	Underflow string          `yaml:"underflow"` // reject or saturate

	Repository RepositoryConfig `yaml:"repository"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        logging.Config   `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// RepositoryConfig selects and parameterises the state backend
type RepositoryConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// CacheConfig enables the read cache in front of the repository
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	LifeWindow time.Duration `yaml:"life_window"`
	MaxSizeMB  int           `yaml:"max_size_mb"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a configuration with an in-memory repository and no owner
func Default() *Config {
	return &Config{
		Contract:  DefaultContractAddress,
		Energy:    energy.DefaultSchedule(),
		Underflow: string(ledger.Reject),
		Repository: RepositoryConfig{
			Type:   string(repository.MemoryType),
			Params: map[string]any{},
		},
		Cache: CacheConfig{
			LifeWindow: 10 * time.Minute,
			MaxSizeMB:  64,
		},
		Log: logging.DefaultConfig(),
	}
}

// Load reads path over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if _, err := core.ParseAddress(c.Contract); err != nil {
		return fmt.Errorf("invalid contract address %q", c.Contract)
	}
	owner, err := core.ParseAddress(c.Owner)
	if err != nil {
		return fmt.Errorf("invalid owner address %q", c.Owner)
	}
	if owner.IsZero() {
		return fmt.Errorf("owner address is zero")
	}
	if err := c.Energy.Validate(); err != nil {
		return err
	}
	if _, err := ledger.ParseUnderflowPolicy(c.Underflow); err != nil {
		return err
	}
	if c.Repository.Type == "" {
		return fmt.Errorf("repository type is empty")
	}
	if c.Cache.Enabled && c.Cache.MaxSizeMB < 0 {
		return fmt.Errorf("invalid cache size: %d", c.Cache.MaxSizeMB)
	}
	return nil
}

// ContractAddress returns the parsed contract address; call after Validate
func (c *Config) ContractAddress() core.Address {
	return core.AddressFromString(c.Contract)
}

// OwnerAddress returns the parsed owner address; call after Validate
func (c *Config) OwnerAddress() core.Address {
	return core.AddressFromString(c.Owner)
}

// UnderflowPolicy returns the parsed policy; call after Validate
func (c *Config) UnderflowPolicy() ledger.UnderflowPolicy {
	p, _ := ledger.ParseUnderflowPolicy(c.Underflow)
	return p
}
