package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	logger, closer, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())

	// zero config falls back to info/console
	logger, _, err = New(Config{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewInvalid(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, _, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestFileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ledger.log")
	logger, closer, err := New(Config{Level: "debug", Format: "json", File: file, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info("balance updated")
	_ = logger.Sync()
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "balance updated")
}
