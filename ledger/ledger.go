// Package ledger keeps the per-selector balances of a contract in a repository
package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/govm-net/precompile/codec"
	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/types"
)

// UnderflowPolicy decides what a decrease below zero does
type UnderflowPolicy string

const (
	// Reject fails the update and leaves the balance untouched
	Reject UnderflowPolicy = "reject"
	// Saturate clamps the balance at zero
	Saturate UnderflowPolicy = "saturate"
)

// ParseUnderflowPolicy accepts "" as Reject
func ParseUnderflowPolicy(s string) (UnderflowPolicy, error) {
	switch UnderflowPolicy(s) {
	case "", Reject:
		return Reject, nil
	case Saturate:
		return Saturate, nil
	default:
		return "", fmt.Errorf("unknown underflow policy %q", s)
	}
}

var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger maps a selector to a balance stored under key [selector] of the
// contract's namespace. Balances are stored in their minimal big-endian form.
type Ledger struct {
	repo     types.Repository
	contract core.Address
	policy   UnderflowPolicy
}

// New creates a ledger over repo for contract
func New(repo types.Repository, contract core.Address, policy UnderflowPolicy) *Ledger {
	if policy == "" {
		policy = Reject
	}
	return &Ledger{
		repo:     repo,
		contract: contract,
		policy:   policy,
	}
}

// Policy returns the underflow policy in force
func (l *Ledger) Policy() UnderflowPolicy {
	return l.policy
}

// Get returns the balance of selector, zero if it was never written
func (l *Ledger) Get(selector byte) (*big.Int, error) {
	raw, err := l.repo.Get(l.contract, storageKey(selector))
	if err != nil {
		return nil, fmt.Errorf("failed to read balance %d: %w", selector, err)
	}
	balance, err := codec.DecodeBalance(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt balance %d: %w", selector, err)
	}
	return balance, nil
}

// ApplyDelta adds amount to (or subtracts it from) the balance of selector
// and returns the new balance. The read-modify-write is a single repository
// update. There is no replay protection: the same delta applied twice is
// applied twice.
func (l *Ledger) ApplyDelta(selector byte, sign codec.Sign, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: amount", core.ErrInvalidArgument)
	}

	var next *big.Int
	_, err := l.repo.Update(l.contract, storageKey(selector), func(current []byte) ([]byte, error) {
		old, err := codec.DecodeBalance(current)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance %d: %w", selector, err)
		}

		next, err = l.apply(old, sign, amount)
		if err != nil {
			return nil, err
		}
		return codec.EncodeBalance(next), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update balance %d: %w", selector, err)
	}
	return next, nil
}

func (l *Ledger) apply(old *big.Int, sign codec.Sign, amount *big.Int) (*big.Int, error) {
	if !sign.IsDecrease() {
		return new(big.Int).Add(old, amount), nil
	}

	if old.Cmp(amount) >= 0 {
		return new(big.Int).Sub(old, amount), nil
	}
	if l.policy == Saturate {
		return new(big.Int), nil
	}
	return nil, fmt.Errorf("%w: balance=%s, decrease=%s", ErrInsufficientBalance, old, amount)
}

func storageKey(selector byte) []byte {
	return []byte{selector}
}
