package codec

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   Kind
	}{
		{"empty", 0, KindMalformed},
		{"query", 1, KindQuery},
		{"two bytes", 2, KindMalformed},
		{"message only", MessageLength, KindMalformed},
		{"missing sign byte", 17 + SignatureLength, KindMalformed},
		{"update", UpdateLength, KindUpdate},
		{"trailing byte", UpdateLength + 1, KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(make([]byte, tt.length)))
		})
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery([]byte{0x07})
	require.NoError(t, err)
	assert.Equal(t, byte(0x07), q.Selector)

	_, err = ParseQuery(nil)
	assert.ErrorIs(t, err, ErrMalformedInput)
	_, err = ParseQuery([]byte{1, 2})
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestParseUpdate(t *testing.T) {
	msg, err := EncodeMessage(3, Decrease, big.NewInt(100))
	require.NoError(t, err)
	sig := bytes.Repeat([]byte{0xab}, SignatureLength)

	input, err := EncodeUpdate(msg, sig)
	require.NoError(t, err)
	require.Len(t, input, UpdateLength)

	u, err := ParseUpdate(input)
	require.NoError(t, err)
	assert.Equal(t, byte(3), u.Selector)
	assert.True(t, u.Sign.IsDecrease())
	assert.Equal(t, int64(100), u.Amount.Int64())
	assert.Equal(t, msg, u.Message)
	assert.Equal(t, sig, u.Signature)

	// parsed slices do not alias the input
	input[0] = 0xff
	input[UpdateLength-1] = 0x00
	assert.Equal(t, byte(3), u.Message[0])
	assert.Equal(t, byte(0xab), u.Signature[SignatureLength-1])
}

func TestParseUpdateMalformed(t *testing.T) {
	// a payload that forgot the sign byte is rejected as a whole
	_, err := ParseUpdate(make([]byte, 17+SignatureLength))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestSign(t *testing.T) {
	assert.False(t, Sign(0).IsDecrease())
	assert.True(t, Sign(1).IsDecrease())
	assert.True(t, Sign(0xff).IsDecrease())
	assert.Equal(t, "increase", Increase.String())
	assert.Equal(t, "decrease", Sign(7).String())
}

func TestEncodeMessage(t *testing.T) {
	msg, err := EncodeMessage(0, Increase, big.NewInt(100))
	require.NoError(t, err)

	want := make([]byte, MessageLength)
	want[MessageLength-1] = 100
	assert.Equal(t, want, msg)

	// full 128-bit amount
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	msg, err = EncodeMessage(1, Increase, max)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, AmountLength), msg[2:])

	_, err = EncodeMessage(0, Increase, new(big.Int).Lsh(big.NewInt(1), 128))
	assert.ErrorIs(t, err, ErrAmountTooLarge)
	_, err = EncodeMessage(0, Increase, big.NewInt(-1))
	assert.ErrorIs(t, err, ErrNegativeAmount)
	_, err = EncodeMessage(0, Increase, nil)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestEncodeUpdateLengths(t *testing.T) {
	_, err := EncodeUpdate(make([]byte, 17), make([]byte, SignatureLength))
	assert.ErrorIs(t, err, ErrMalformedInput)
	_, err = EncodeUpdate(make([]byte, MessageLength), make([]byte, 64))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestEncodeBalance(t *testing.T) {
	assert.Equal(t, []byte{0x00}, EncodeBalance(nil))
	assert.Equal(t, []byte{0x00}, EncodeBalance(new(big.Int)))
	assert.Equal(t, []byte{0x64}, EncodeBalance(big.NewInt(100)))
	// no sign padding for values with the top bit set
	assert.Equal(t, []byte{0x80}, EncodeBalance(big.NewInt(128)))
	assert.Equal(t, []byte{0x01, 0x00}, EncodeBalance(big.NewInt(256)))
}

func TestDecodeBalance(t *testing.T) {
	v, err := DecodeBalance([]byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	v, err = DecodeBalance(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	v, err = DecodeBalance([]byte{0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, int64(256), v.Int64())

	_, err = DecodeBalance([]byte{0x00, 0x01})
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "query", KindQuery.String())
	assert.Equal(t, "update", KindUpdate.String())
	assert.Equal(t, "malformed", KindMalformed.String())
}
