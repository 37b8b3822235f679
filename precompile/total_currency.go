// Package precompile implements the total-currency precompiled contract.
//
// The contract tracks up to 256 balances, one per selector byte. Anyone may
// query a balance; only the owner may change one, by signing the update
// message. Every call is metered:
//
//	query:  QueryCost, or OUT_OF_ENERGY when the budget is smaller
//	update: UpdateCost, or OUT_OF_ENERGY when the budget is smaller
//
// Any failure after the energy check (malformed input, bad signature, wrong
// signer, storage error) is an INTERNAL_ERROR that consumes the whole budget.
package precompile

import (
	"github.com/govm-net/precompile/codec"
	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/energy"
	"github.com/govm-net/precompile/ledger"
	"github.com/govm-net/precompile/metrics"
	"github.com/govm-net/precompile/signature"
	"github.com/govm-net/precompile/types"
	"go.uber.org/zap"
)

// TotalCurrency is one instance of the contract. Contract and owner are
// fixed at construction.
type TotalCurrency struct {
	contract core.Address
	owner    core.Address
	ledger   *ledger.Ledger
	auth     signature.Authenticator
	schedule energy.Schedule
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

type options struct {
	auth     signature.Authenticator
	schedule energy.Schedule
	policy   ledger.UnderflowPolicy
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// Option configures a TotalCurrency
type Option func(*options)

// WithAuthenticator replaces the ed25519 authenticator
func WithAuthenticator(a signature.Authenticator) Option {
	return func(o *options) { o.auth = a }
}

// WithSchedule overrides the energy costs
func WithSchedule(s energy.Schedule) Option {
	return func(o *options) { o.schedule = s }
}

// WithUnderflowPolicy selects what a decrease below zero does
func WithUnderflowPolicy(p ledger.UnderflowPolicy) Option {
	return func(o *options) { o.policy = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates the contract over repo. A nil repo is a programming error and panics.
func New(repo types.Repository, contract, owner core.Address, opts ...Option) *TotalCurrency {
	if repo == nil {
		panic("precompile: nil repository")
	}

	o := options{
		auth:     signature.Ed25519Authenticator{},
		schedule: energy.DefaultSchedule(),
		policy:   ledger.Reject,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &TotalCurrency{
		contract: contract,
		owner:    owner,
		ledger:   ledger.New(repo, contract, o.policy),
		auth:     o.auth,
		schedule: o.schedule,
		logger:   o.logger.With(zap.Stringer("contract", contract)),
		metrics:  o.metrics,
	}
}

// Contract returns the storage namespace of the instance
func (c *TotalCurrency) Contract() core.Address {
	return c.contract
}

// Owner returns the only address allowed to update balances
func (c *TotalCurrency) Owner() core.Address {
	return c.owner
}

// Execute runs one invocation
func (c *TotalCurrency) Execute(input []byte, energyLimit uint64) types.ExecutionResult {
	meter := energy.NewMeter(energyLimit)
	kind := codec.Classify(input)

	var res types.ExecutionResult
	switch kind {
	case codec.KindQuery:
		res = c.query(input, meter)
	case codec.KindUpdate:
		res = c.update(input, meter)
	default:
		c.logger.Debug("rejected malformed input", zap.Int("length", len(input)))
		res = c.fail(meter, types.InternalError)
	}

	c.metrics.Observe(kind.String(), res.Code.String(), len(input), energyLimit-res.EnergyLeft)
	return res
}

func (c *TotalCurrency) query(input []byte, meter *energy.Meter) types.ExecutionResult {
	q, err := codec.ParseQuery(input)
	if err != nil {
		return c.fail(meter, types.InternalError)
	}
	if err := meter.Charge(c.schedule.Query); err != nil {
		c.logger.Debug("query out of energy", zap.Error(err))
		return c.fail(meter, types.OutOfEnergy)
	}

	balance, err := c.ledger.Get(q.Selector)
	if err != nil {
		c.logger.Warn("query failed", zap.Uint8("selector", q.Selector), zap.Error(err))
		return c.fail(meter, types.InternalError)
	}

	return types.ExecutionResult{
		Code:       types.Success,
		EnergyLeft: meter.Remaining(),
		Output:     codec.EncodeBalance(balance),
	}
}

func (c *TotalCurrency) update(input []byte, meter *energy.Meter) types.ExecutionResult {
	// the charge comes first so an underfunded call does no signature work
	if err := meter.Charge(c.schedule.Update); err != nil {
		c.logger.Debug("update out of energy", zap.Error(err))
		return c.fail(meter, types.OutOfEnergy)
	}

	u, err := codec.ParseUpdate(input)
	if err != nil {
		return c.fail(meter, types.InternalError)
	}

	if !c.auth.Authenticate(u.Message, u.Signature, c.owner) {
		c.logger.Debug("update rejected", zap.Uint8("selector", u.Selector), zap.Error(core.ErrUnauthorized))
		return c.fail(meter, types.InternalError)
	}

	balance, err := c.ledger.ApplyDelta(u.Selector, u.Sign, u.Amount)
	if err != nil {
		c.logger.Warn("update failed",
			zap.Uint8("selector", u.Selector),
			zap.Stringer("sign", u.Sign),
			zap.Error(err))
		return c.fail(meter, types.InternalError)
	}

	c.logger.Info("balance updated",
		zap.Uint8("selector", u.Selector),
		zap.Stringer("sign", u.Sign),
		zap.String("amount", u.Amount.String()),
		zap.String("balance", balance.String()))

	return types.ExecutionResult{
		Code:       types.Success,
		EnergyLeft: meter.Remaining(),
	}
}

// fail forfeits the remaining energy
func (c *TotalCurrency) fail(meter *energy.Meter, code types.ResultCode) types.ExecutionResult {
	meter.Forfeit()
	return types.Failed(code)
}
