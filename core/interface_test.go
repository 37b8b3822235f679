package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	hexAddr := "0000000000000000000000000000000000000000000000000000000000000100"

	addr, err := ParseAddress(hexAddr)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), addr[30])
	assert.Equal(t, hexAddr, addr.String())

	// 0x prefix is accepted
	addr2, err := ParseAddress("0x" + hexAddr)
	require.NoError(t, err)
	assert.Equal(t, addr, addr2)

	// wrong length
	_, err = ParseAddress("0x1234")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// not hex
	_, err = ParseAddress(strings.Repeat("zz", AddressLength))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddressFromString(t *testing.T) {
	assert.Equal(t, ZeroAddress, AddressFromString("0xsender"))
	assert.True(t, AddressFromString("").IsZero())
}

func TestAddressFromBytes(t *testing.T) {
	b := make([]byte, AddressLength)
	b[0] = 0xa0
	addr, err := AddressFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, b, addr.Bytes())
	assert.False(t, addr.IsZero())

	// returned bytes are a copy
	out := addr.Bytes()
	out[0] = 0
	assert.Equal(t, byte(0xa0), addr[0])

	_, err = AddressFromBytes(b[:20])
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
