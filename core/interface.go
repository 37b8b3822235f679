// Package core 定义了预编译合约与宿主交互所需的基础类型
package core

import (
	"encoding/hex"
	"errors"
	"strings"
)

// AddressLength 地址字节长度
const AddressLength = 32

// Address 表示链上的地址，合约地址与账户地址使用同一格式
type Address [AddressLength]byte

var ZeroAddress = Address{}

// Common errors shared by the precompile components
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized operation")
)

func (addr Address) String() string {
	return hex.EncodeToString(addr[:])
}

// Bytes returns a copy of the address bytes
func (addr Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, addr[:])
	return out
}

// IsZero reports whether the address is all zeroes
func (addr Address) IsZero() bool {
	return addr == ZeroAddress
}

// ParseAddress decodes a hex address, with or without the 0x prefix.
// The decoded value must be exactly AddressLength bytes.
func ParseAddress(str string) (Address, error) {
	var addr Address
	str = strings.TrimPrefix(strings.TrimPrefix(str, "0x"), "0X")
	if len(str) != AddressLength*2 {
		return addr, ErrInvalidArgument
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return addr, ErrInvalidArgument
	}
	copy(addr[:], b)
	return addr, nil
}

// AddressFromString 宽松解析，解析失败时返回 ZeroAddress
func AddressFromString(str string) Address {
	addr, err := ParseAddress(str)
	if err != nil {
		return ZeroAddress
	}
	return addr
}

// AddressFromBytes copies b into an address. b must be AddressLength bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var addr Address
	if len(b) != AddressLength {
		return addr, ErrInvalidArgument
	}
	copy(addr[:], b)
	return addr, nil
}
