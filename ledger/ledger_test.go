package ledger

import (
	"errors"
	"math/big"
	"testing"

	"github.com/govm-net/precompile/codec"
	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/repository/memory"
	"github.com/govm-net/precompile/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contract = core.AddressFromString("0000000000000000000000000000000000000000000000000000000000000100")

func setupLedger(t *testing.T, policy UnderflowPolicy) (*Ledger, *memory.Store) {
	repo := memory.New()
	return New(repo, contract, policy), repo
}

func TestGetAbsent(t *testing.T) {
	l, _ := setupLedger(t, Reject)

	for _, selector := range []byte{0, 1, 255} {
		balance, err := l.Get(selector)
		require.NoError(t, err)
		assert.Equal(t, 0, balance.Sign())
	}
}

func TestIncreaseDecrease(t *testing.T) {
	l, repo := setupLedger(t, Reject)

	balance, err := l.ApplyDelta(0, codec.Increase, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance.Int64())

	balance, err = l.ApplyDelta(0, codec.Decrease, big.NewInt(40))
	require.NoError(t, err)
	assert.Equal(t, int64(60), balance.Int64())

	got, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.Int64())

	// stored in minimal big-endian form under [selector]
	raw, err := repo.Get(contract, []byte{0})
	require.NoError(t, err)
	assert.Equal(t, []byte{60}, raw)
}

func TestSelectorsAreIndependent(t *testing.T) {
	l, _ := setupLedger(t, Reject)

	_, err := l.ApplyDelta(1, codec.Increase, big.NewInt(5))
	require.NoError(t, err)
	_, err = l.ApplyDelta(2, codec.Increase, big.NewInt(7))
	require.NoError(t, err)

	b1, err := l.Get(1)
	require.NoError(t, err)
	b2, err := l.Get(2)
	require.NoError(t, err)
	b0, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), b1.Int64())
	assert.Equal(t, int64(7), b2.Int64())
	assert.Equal(t, 0, b0.Sign())
}

func TestReplayAppliesTwice(t *testing.T) {
	l, _ := setupLedger(t, Reject)

	for i := 0; i < 2; i++ {
		_, err := l.ApplyDelta(0, codec.Increase, big.NewInt(100))
		require.NoError(t, err)
	}
	balance, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance.Int64())
}

func TestBeyond128Bits(t *testing.T) {
	l, _ := setupLedger(t, Reject)
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	_, err := l.ApplyDelta(0, codec.Increase, max)
	require.NoError(t, err)
	balance, err := l.ApplyDelta(0, codec.Increase, max)
	require.NoError(t, err)

	want := new(big.Int).Mul(max, big.NewInt(2))
	assert.Equal(t, 0, want.Cmp(balance))
	assert.Equal(t, 129, balance.BitLen())
}

func TestUnderflowReject(t *testing.T) {
	l, _ := setupLedger(t, Reject)
	_, err := l.ApplyDelta(0, codec.Increase, big.NewInt(10))
	require.NoError(t, err)

	_, err = l.ApplyDelta(0, codec.Decrease, big.NewInt(11))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	balance, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance.Int64(), "balance untouched")

	// decreasing to exactly zero is fine
	balance, err = l.ApplyDelta(0, codec.Decrease, big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())
}

func TestUnderflowSaturate(t *testing.T) {
	l, _ := setupLedger(t, Saturate)
	_, err := l.ApplyDelta(0, codec.Increase, big.NewInt(10))
	require.NoError(t, err)

	balance, err := l.ApplyDelta(0, codec.Sign(0xff), big.NewInt(11))
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())
}

func TestInvalidAmount(t *testing.T) {
	l, _ := setupLedger(t, Reject)
	_, err := l.ApplyDelta(0, codec.Increase, big.NewInt(-1))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = l.ApplyDelta(0, codec.Increase, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestCorruptBalance(t *testing.T) {
	l, repo := setupLedger(t, Reject)
	require.NoError(t, repo.Put(contract, []byte{9}, []byte{0x00, 0x01}))

	_, err := l.Get(9)
	assert.ErrorIs(t, err, codec.ErrInvalidEncoding)
	_, err = l.ApplyDelta(9, codec.Increase, big.NewInt(1))
	assert.ErrorIs(t, err, codec.ErrInvalidEncoding)
}

// failingRepo fails every operation
type failingRepo struct{ err error }

func (r failingRepo) Get(core.Address, []byte) ([]byte, error) { return nil, r.err }
func (r failingRepo) Put(core.Address, []byte, []byte) error   { return r.err }
func (r failingRepo) Update(core.Address, []byte, func([]byte) ([]byte, error)) ([]byte, error) {
	return nil, r.err
}
func (r failingRepo) Close() error { return nil }

var _ types.Repository = failingRepo{}

func TestRepositoryFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	l := New(failingRepo{err: boom}, contract, Reject)

	_, err := l.Get(0)
	assert.ErrorIs(t, err, boom)
	_, err = l.ApplyDelta(0, codec.Increase, big.NewInt(1))
	assert.ErrorIs(t, err, boom)
}

func TestParseUnderflowPolicy(t *testing.T) {
	p, err := ParseUnderflowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Reject, p)

	p, err = ParseUnderflowPolicy("saturate")
	require.NoError(t, err)
	assert.Equal(t, Saturate, p)

	_, err = ParseUnderflowPolicy("wrap")
	assert.Error(t, err)

	assert.Equal(t, Reject, New(memory.New(), contract, "").Policy())
}
