// Package codec parses and builds the fixed-layout input buffers of the
// total-currency precompile.
//
// Wire layouts:
//
//	Query  (1 byte):   [selector]
//	Update (114 bytes): [selector:1][sign:1][amount:16 big-endian][signature:96]
//
// Classification is purely length driven.
package codec

import (
	"errors"
	"fmt"
	"math/big"
)

const (
	// QueryLength is the length of a query input
	QueryLength = 1
	// AmountLength is the width of the big-endian amount word
	AmountLength = 16
	// MessageLength is the signed part of an update: selector, sign and amount
	MessageLength = 2 + AmountLength
	// SignatureLength is the length of the encoded signature
	SignatureLength = 96
	// UpdateLength is the length of a well-formed update input
	UpdateLength = MessageLength + SignatureLength
)

// Sign selects the direction of an update
type Sign byte

const (
	Increase Sign = 0
	Decrease Sign = 1
)

// IsDecrease reports whether the sign byte requests a decrease; any nonzero
// byte does.
func (s Sign) IsDecrease() bool {
	return s != Increase
}

func (s Sign) String() string {
	if s.IsDecrease() {
		return "decrease"
	}
	return "increase"
}

// Kind is the classification of an input buffer
type Kind int

const (
	KindMalformed Kind = iota
	KindQuery
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindUpdate:
		return "update"
	default:
		return "malformed"
	}
}

var (
	ErrMalformedInput  = errors.New("malformed input")
	ErrAmountTooLarge  = errors.New("amount exceeds 128 bits")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrInvalidEncoding = errors.New("invalid balance encoding")
)

// maxAmount is 2^128 - 1
var maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), AmountLength*8), big.NewInt(1))

// Query is a parsed query input
type Query struct {
	Selector byte
}

// Update is a parsed update input. Message holds the exact signed bytes.
type Update struct {
	Selector  byte
	Sign      Sign
	Amount    *big.Int
	Message   []byte
	Signature []byte
}

// Classify returns the kind of input without parsing it
func Classify(input []byte) Kind {
	switch len(input) {
	case QueryLength:
		return KindQuery
	case UpdateLength:
		return KindUpdate
	default:
		return KindMalformed
	}
}

// ParseQuery parses a 1-byte query input
func ParseQuery(input []byte) (Query, error) {
	if len(input) != QueryLength {
		return Query{}, fmt.Errorf("%w: query length %d", ErrMalformedInput, len(input))
	}
	return Query{Selector: input[0]}, nil
}

// ParseUpdate parses a 114-byte update input. The returned slices are copies.
func ParseUpdate(input []byte) (Update, error) {
	if len(input) != UpdateLength {
		return Update{}, fmt.Errorf("%w: update length %d", ErrMalformedInput, len(input))
	}

	msg := make([]byte, MessageLength)
	copy(msg, input[:MessageLength])
	sig := make([]byte, SignatureLength)
	copy(sig, input[MessageLength:])

	return Update{
		Selector:  msg[0],
		Sign:      Sign(msg[1]),
		Amount:    new(big.Int).SetBytes(msg[2:MessageLength]),
		Message:   msg,
		Signature: sig,
	}, nil
}

// EncodeQuery builds a query input
func EncodeQuery(selector byte) []byte {
	return []byte{selector}
}

// EncodeMessage builds the 18-byte signed part of an update
func EncodeMessage(selector byte, sign Sign, amount *big.Int) ([]byte, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if amount.Cmp(maxAmount) > 0 {
		return nil, ErrAmountTooLarge
	}

	msg := make([]byte, MessageLength)
	msg[0] = selector
	msg[1] = byte(sign)
	amount.FillBytes(msg[2:])
	return msg, nil
}

// EncodeUpdate joins a message and its encoded signature
func EncodeUpdate(message, signature []byte) ([]byte, error) {
	if len(message) != MessageLength {
		return nil, fmt.Errorf("%w: message length %d", ErrMalformedInput, len(message))
	}
	if len(signature) != SignatureLength {
		return nil, fmt.Errorf("%w: signature length %d", ErrMalformedInput, len(signature))
	}
	out := make([]byte, 0, UpdateLength)
	out = append(out, message...)
	return append(out, signature...), nil
}

// EncodeBalance returns the minimal big-endian encoding of an unsigned
// balance. Zero encodes as a single 0x00 byte.
func EncodeBalance(balance *big.Int) []byte {
	if balance == nil || balance.Sign() == 0 {
		return []byte{0}
	}
	return balance.Bytes()
}

// DecodeBalance is the inverse of EncodeBalance. Empty input decodes to zero.
func DecodeBalance(b []byte) (*big.Int, error) {
	if len(b) > 1 && b[0] == 0 {
		return nil, fmt.Errorf("%w: leading zero byte", ErrInvalidEncoding)
	}
	return new(big.Int).SetBytes(b), nil
}
