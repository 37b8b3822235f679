// Package signature verifies the owner signature carried by update inputs.
//
// An encoded signature is the signer's ed25519 public key followed by the
// ed25519 signature over the raw message:
//
//	[publicKey:32][signature:64]
//
// The signer address is 0xA0 followed by the last 31 bytes of
// blake2b-256(publicKey).
package signature

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/govm-net/precompile/core"
	"golang.org/x/crypto/blake2b"
)

const (
	PublicKeyLength = ed25519.PublicKeySize
	SigLength       = ed25519.SignatureSize
	// EncodedLength is the length of a serialized Signature
	EncodedLength = PublicKeyLength + SigLength
	SeedLength    = ed25519.SeedSize

	// AddressPrefix is the first byte of every account address
	AddressPrefix byte = 0xa0
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKey       = errors.New("invalid key")
)

// Signature is a parsed 96-byte signature
type Signature struct {
	PublicKey [PublicKeyLength]byte
	Sig       [SigLength]byte
}

// ParseSignature decodes a 96-byte signature
func ParseSignature(b []byte) (Signature, error) {
	var s Signature
	if len(b) != EncodedLength {
		return s, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(b))
	}
	copy(s.PublicKey[:], b[:PublicKeyLength])
	copy(s.Sig[:], b[PublicKeyLength:])
	return s, nil
}

// Bytes encodes the signature
func (s Signature) Bytes() []byte {
	out := make([]byte, 0, EncodedLength)
	out = append(out, s.PublicKey[:]...)
	return append(out, s.Sig[:]...)
}

// Verify checks the signature against msg
func (s Signature) Verify(msg []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(s.PublicKey[:]), msg, s.Sig[:])
}

// Address returns the address of the embedded public key
func (s Signature) Address() core.Address {
	return AddressFromPublicKey(s.PublicKey[:])
}

// Recover verifies the signature and returns the signer address
func (s Signature) Recover(msg []byte) (core.Address, error) {
	if !s.Verify(msg) {
		return core.ZeroAddress, ErrInvalidSignature
	}
	return s.Address(), nil
}

// AddressFromPublicKey derives an account address from an ed25519 public key
func AddressFromPublicKey(pub []byte) core.Address {
	h := blake2b.Sum256(pub)
	h[0] = AddressPrefix
	return core.Address(h)
}

// Key is an ed25519 signing key
type Key struct {
	priv ed25519.PrivateKey
}

// GenerateKey creates a key from crypto/rand
func GenerateKey() (*Key, error) {
	return GenerateKeyFrom(rand.Reader)
}

// GenerateKeyFrom creates a key reading the seed from r
func GenerateKeyFrom(r io.Reader) (*Key, error) {
	_, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Key{priv: priv}, nil
}

// KeyFromSeed restores a key from its 32-byte seed
func KeyFromSeed(seed []byte) (*Key, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("%w: seed length %d", ErrInvalidKey, len(seed))
	}
	return &Key{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// KeyFromHex restores a key from a hex encoded seed
func KeyFromHex(s string) (*Key, error) {
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return KeyFromSeed(seed)
}

// Seed returns the private seed
func (k *Key) Seed() []byte {
	return k.priv.Seed()
}

// PublicKey returns the public key bytes
func (k *Key) PublicKey() []byte {
	return []byte(k.priv.Public().(ed25519.PublicKey))
}

// Address returns the account address of the key
func (k *Key) Address() core.Address {
	return AddressFromPublicKey(k.PublicKey())
}

// Sign signs msg
func (k *Key) Sign(msg []byte) Signature {
	var s Signature
	copy(s.PublicKey[:], k.PublicKey())
	copy(s.Sig[:], ed25519.Sign(k.priv, msg))
	return s
}
