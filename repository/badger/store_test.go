package badger

import (
	"testing"

	"github.com/govm-net/precompile/core"
	"github.com/govm-net/precompile/repository"
	"github.com/govm-net/precompile/repository/repositorytest"
	"github.com/govm-net/precompile/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInMemory(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) types.Repository {
		s, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		return s
	})
}

func TestStoreOnDisk(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) types.Repository {
		s, err := Open(Options{Path: t.TempDir(), SyncWrites: true})
		require.NoError(t, err)
		return s
	})
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	contract := core.Address{0xa0, 0x01}

	s, err := Open(Options{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	_, err = s.Update(contract, []byte{7}, func(current []byte) ([]byte, error) {
		return []byte{0x2a}, nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(Options{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	value, err := s.Get(contract, []byte{7})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2a}, value)
}

func TestOpenWithoutPath(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	repo, err := repository.Open(repository.BadgerType, map[string]any{
		"in_memory": true,
	})
	require.NoError(t, err)
	defer repo.Close()
	assert.IsType(t, &Store{}, repo)
}

func TestStorageKey(t *testing.T) {
	contract := core.Address{1, 2, 3}
	k := storageKey(contract, []byte{9})
	require.Len(t, k, core.AddressLength+1)
	assert.Equal(t, contract[:], k[:core.AddressLength])
	assert.Equal(t, byte(9), k[core.AddressLength])
}
