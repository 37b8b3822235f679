package signature

import (
	"github.com/govm-net/precompile/core"
)

// Authenticator decides whether a signed message comes from owner
type Authenticator interface {
	Authenticate(msg, sig []byte, owner core.Address) bool
}

// Ed25519Authenticator verifies 96-byte ed25519 signatures
type Ed25519Authenticator struct{}

// Authenticate reports false for an unparsable signature, a signature that
// does not verify, and a valid signature from anyone but owner alike.
func (Ed25519Authenticator) Authenticate(msg, sig []byte, owner core.Address) bool {
	s, err := ParseSignature(sig)
	if err != nil {
		return false
	}
	signer, err := s.Recover(msg)
	if err != nil {
		return false
	}
	return signer == owner
}

// Authenticate uses the default ed25519 scheme
func Authenticate(msg, sig []byte, owner core.Address) bool {
	return Ed25519Authenticator{}.Authenticate(msg, sig, owner)
}
