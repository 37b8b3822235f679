// Package types contains shared type definitions used by the host
// environment, the repositories and the precompiled contracts
package types

import (
	"github.com/govm-net/precompile/core"
)

// ResultCode is the status of a single precompile invocation.
//
// IMPORTANT: the set of codes is part of the consensus surface. Hosts compare
// codes across independent implementations, so no other values may be added.
type ResultCode int32

const (
	// Success the invocation completed and its effects are persisted
	Success ResultCode = iota // 0
	// OutOfEnergy the supplied energy did not cover the operation
	OutOfEnergy // 1
	// InternalError malformed input, failed authentication or storage failure
	InternalError // 2
)

func (c ResultCode) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case OutOfEnergy:
		return "OUT_OF_ENERGY"
	case InternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// ExecutionResult is created fresh for every invocation and never persisted
type ExecutionResult struct {
	Code       ResultCode `json:"code"`
	EnergyLeft uint64     `json:"energy_left"`
	Output     []byte     `json:"output,omitempty"`
}

// Failed builds a result that forfeits all remaining energy
func Failed(code ResultCode) ExecutionResult {
	return ExecutionResult{Code: code}
}

// Repository 是合约状态的键值存储，按 (合约地址, key) 寻址
//
// Get returns nil, nil when the key has never been written.
// Update must be atomic for a single (contract, key) pair: fn receives the
// current value (nil if absent) and the returned value is stored only when fn
// returns no error.
type Repository interface {
	Get(contract core.Address, key []byte) ([]byte, error)
	Put(contract core.Address, key []byte, value []byte) error
	Update(contract core.Address, key []byte, fn func(current []byte) ([]byte, error)) ([]byte, error)
	Close() error
}
