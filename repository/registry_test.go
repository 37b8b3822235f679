package repository

import (
	"errors"
	"testing"

	"github.com/govm-net/precompile/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	var gotParams map[string]any
	ctor := func(params map[string]any) (types.Repository, error) {
		gotParams = params
		return nil, nil
	}

	require.NoError(t, r.Register("fake", ctor))
	assert.Error(t, r.Register("fake", ctor), "duplicate registration")
	assert.Error(t, r.Register("nil", nil))

	// default falls back to memory until set
	assert.Equal(t, MemoryType, r.DefaultStoreType())
	assert.Error(t, r.SetDefault("missing"))
	require.NoError(t, r.SetDefault("fake"))
	assert.Equal(t, StoreType("fake"), r.DefaultStoreType())

	_, err := r.Open("", nil)
	require.NoError(t, err)
	assert.NotNil(t, gotParams, "nil params are replaced with an empty map")

	_, err = r.Open("missing", nil)
	assert.Error(t, err)
}

func TestRegistryOpenError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	require.NoError(t, r.Register("broken", func(map[string]any) (types.Repository, error) {
		return nil, boom
	}))

	_, err := r.Open("broken", nil)
	assert.ErrorIs(t, err, boom)
}

func TestListRegistered(t *testing.T) {
	r := NewRegistry()
	ctor := func(map[string]any) (types.Repository, error) { return nil, nil }
	require.NoError(t, r.Register("b", ctor))
	require.NoError(t, r.Register("a", ctor))

	assert.Equal(t, []StoreType{"a", "b"}, r.ListRegistered())
}

func TestParams(t *testing.T) {
	params := map[string]any{
		"path":  "/tmp/x",
		"empty": "",
		"sync":  true,
		"size":  64,
		"json":  float64(32),
	}

	assert.Equal(t, "/tmp/x", StringParam(params, "path", "def"))
	assert.Equal(t, "def", StringParam(params, "empty", "def"))
	assert.Equal(t, "def", StringParam(params, "missing", "def"))
	assert.True(t, BoolParam(params, "sync", false))
	assert.False(t, BoolParam(params, "missing", false))
	assert.Equal(t, 64, IntParam(params, "size", 0))
	assert.Equal(t, 32, IntParam(params, "json", 0))
	assert.Equal(t, 7, IntParam(params, "missing", 7))
}
