// Package repositorytest provides a behavioural test suite shared by every
// repository backend
package repositorytest

import (
	"errors"
	"sync"
	"testing"

	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty repository. The suite closes it.
type Factory func(t *testing.T) types.Repository

var (
	contractA = core.AddressFromString("0000000000000000000000000000000000000000000000000000000000000100")
	contractB = core.AddressFromString("0000000000000000000000000000000000000000000000000000000000000200")
)

// Run exercises the Repository contract against a backend
func Run(t *testing.T, factory Factory) {
	t.Run("GetAbsent", func(t *testing.T) {
		repo := open(t, factory)
		value, err := repo.Get(contractA, []byte{0})
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("PutGet", func(t *testing.T) {
		repo := open(t, factory)
		require.NoError(t, repo.Put(contractA, []byte{1}, []byte{0x64}))

		value, err := repo.Get(contractA, []byte{1})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x64}, value)

		// overwrite
		require.NoError(t, repo.Put(contractA, []byte{1}, []byte{0x01, 0x00}))
		value, err = repo.Get(contractA, []byte{1})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x00}, value)
	})

	t.Run("ContractIsolation", func(t *testing.T) {
		repo := open(t, factory)
		require.NoError(t, repo.Put(contractA, []byte{0}, []byte{0x0a}))

		value, err := repo.Get(contractB, []byte{0})
		require.NoError(t, err)
		assert.Nil(t, value)

		require.NoError(t, repo.Put(contractB, []byte{0}, []byte{0x0b}))
		value, err = repo.Get(contractA, []byte{0})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x0a}, value)
	})

	t.Run("KeyIsolation", func(t *testing.T) {
		repo := open(t, factory)
		require.NoError(t, repo.Put(contractA, []byte{0}, []byte{0x01}))
		require.NoError(t, repo.Put(contractA, []byte{255}, []byte{0x02}))

		v0, err := repo.Get(contractA, []byte{0})
		require.NoError(t, err)
		v255, err := repo.Get(contractA, []byte{255})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01}, v0)
		assert.Equal(t, []byte{0x02}, v255)
	})

	t.Run("UpdateReadModifyWrite", func(t *testing.T) {
		repo := open(t, factory)

		stored, err := repo.Update(contractA, []byte{3}, func(current []byte) ([]byte, error) {
			assert.Nil(t, current)
			return []byte{0x05}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x05}, stored)

		stored, err = repo.Update(contractA, []byte{3}, func(current []byte) ([]byte, error) {
			require.Equal(t, []byte{0x05}, current)
			return []byte{current[0] + 1}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x06}, stored)

		value, err := repo.Get(contractA, []byte{3})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x06}, value)
	})

	t.Run("UpdateErrorLeavesValue", func(t *testing.T) {
		repo := open(t, factory)
		require.NoError(t, repo.Put(contractA, []byte{4}, []byte{0x09}))

		boom := errors.New("boom")
		_, err := repo.Update(contractA, []byte{4}, func(current []byte) ([]byte, error) {
			return []byte{0x00}, boom
		})
		assert.ErrorIs(t, err, boom)

		value, err := repo.Get(contractA, []byte{4})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x09}, value)
	})

	t.Run("UpdateConcurrent", func(t *testing.T) {
		repo := open(t, factory)

		const workers, rounds = 16, 4
		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			failed []error
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < rounds; j++ {
					_, err := repo.Update(contractA, []byte{5}, increment)
					if err != nil {
						mu.Lock()
						failed = append(failed, err)
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		require.Empty(t, failed)
		value, err := repo.Get(contractA, []byte{5})
		require.NoError(t, err)
		assert.Equal(t, []byte{workers * rounds}, value)
	})
}

// increment treats the value as a one-byte counter
func increment(current []byte) ([]byte, error) {
	if len(current) == 0 {
		return []byte{1}, nil
	}
	return []byte{current[0] + 1}, nil
}

func open(t *testing.T, factory Factory) types.Repository {
	t.Helper()
	repo := factory(t)
	require.NotNil(t, repo)
	t.Cleanup(func() {
		assert.NoError(t, repo.Close())
	})
	return repo
}
