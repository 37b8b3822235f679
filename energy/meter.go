// Package energy 提供预编译合约的能量计量
package energy

import (
	"errors"
	"fmt"
)

const (
	// UpdateCost is charged for every well-formed update attempt
	UpdateCost uint64 = 21000
	// QueryCost is charged for every query
	QueryCost uint64 = 1000
)

var ErrOutOfEnergy = errors.New("out of energy")

// Schedule is the flat cost table
type Schedule struct {
	Update uint64 `yaml:"update" json:"update"`
	Query  uint64 `yaml:"query" json:"query"`
}

// DefaultSchedule returns the consensus cost table
func DefaultSchedule() Schedule {
	return Schedule{
		Update: UpdateCost,
		Query:  QueryCost,
	}
}

// Validate rejects a zero cost, which would make an operation free
func (s Schedule) Validate() error {
	if s.Update == 0 {
		return fmt.Errorf("update cost must be positive")
	}
	if s.Query == 0 {
		return fmt.Errorf("query cost must be positive")
	}
	return nil
}

// Meter tracks the energy of one invocation. It is not safe for concurrent use.
type Meter struct {
	limit uint64
	used  uint64
}

// NewMeter creates a meter with limit available energy
func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit}
}

// Charge consumes amount. When the remaining energy does not cover it the
// meter is left untouched and ErrOutOfEnergy is returned.
func (m *Meter) Charge(amount uint64) error {
	if amount > m.Remaining() {
		return fmt.Errorf("%w: remaining=%d, need=%d", ErrOutOfEnergy, m.Remaining(), amount)
	}
	m.used += amount
	return nil
}

// Forfeit consumes everything that is left
func (m *Meter) Forfeit() {
	m.used = m.limit
}

// Remaining returns the unused energy
func (m *Meter) Remaining() uint64 {
	return m.limit - m.used
}

// Used returns the consumed energy
func (m *Meter) Used() uint64 {
	return m.used
}

// Limit returns the initial budget
func (m *Meter) Limit() uint64 {
	return m.limit
}
