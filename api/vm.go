// Package api provides the interfaces between the host virtual machine and
// the precompiled contracts it dispatches to.
package api

import (
	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/types"
)

// Precompile is a natively implemented contract. Execute never returns an
// error: every outcome, including malformed input, is a result code.
type Precompile interface {
	Execute(input []byte, energyLimit uint64) types.ExecutionResult
}

// PrecompileFunc adapts a function to Precompile
type PrecompileFunc func(input []byte, energyLimit uint64) types.ExecutionResult

func (f PrecompileFunc) Execute(input []byte, energyLimit uint64) types.ExecutionResult {
	return f(input, energyLimit)
}

// VM represents the host that routes calls to precompiled contracts
type VM interface {
	// Register binds a precompile to an address
	Register(addr core.Address, p Precompile) error

	// Execute invokes the precompile bound to addr
	Execute(addr core.Address, input []byte, energyLimit uint64) (types.ExecutionResult, error)

	// Close releases the host's resources
	Close() error
}
