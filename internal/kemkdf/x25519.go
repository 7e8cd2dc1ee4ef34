// Package kemkdf implements the X25519 key encapsulation and HKDF-SHA256
// key derivation core described in spec.md §4.4: ephemeral key generation,
// public-key/shared-secret validation, and the bound HKDF info string.
package kemkdf

import (
	"crypto/rand"
	"io"

	circlx25519 "github.com/cloudflare/circl/dh/x25519"
	"golang.org/x/crypto/curve25519"

	"github.com/x402/x402hpke/internal/x402errors"
)

// randReader is the source of ephemeral scalars. Overridable for
// deterministic tests via SetRandReaderForTesting, mirroring the teacher's
// swappable randReader/SetRandReaderForTesting pattern.
var randReader io.Reader = rand.Reader

// SetRandReaderForTesting overrides the ephemeral-key random source.
// Returns a function that restores the previous reader.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}

// dhBackend performs an X25519 scalar multiplication. Swappable so that
// either golang.org/x/crypto/curve25519 (the default) or
// github.com/cloudflare/circl/dh/x25519 (a side-channel-hardened
// alternate implementation) can perform the DH step.
type dhBackend func(scalar, point [32]byte) ([32]byte, error)

var activeBackend = dhCurve25519

// UseCirclBackend switches the module-wide DH backend to circl's
// constant-time X25519 implementation. Returns a function that restores
// the default backend.
func UseCirclBackend() func() {
	original := activeBackend
	activeBackend = dhCircl
	return func() { activeBackend = original }
}

func dhCurve25519(scalar, point [32]byte) ([32]byte, error) {
	var out [32]byte
	res, err := curve25519.X25519(scalar[:], point[:])
	if err != nil {
		return out, err
	}
	copy(out[:], res)
	return out, nil
}

func dhCircl(scalar, point [32]byte) ([32]byte, error) {
	var s, p, out circlx25519.Key
	copy(s[:], scalar[:])
	copy(p[:], point[:])
	if !circlx25519.Shared(&out, &s, &p) {
		return [32]byte{}, x402errors.ErrECDHLowOrder
	}
	return out, nil
}

var zero32 [32]byte

// isAllZero reports whether b is all-zero, used to reject low-order and
// contributory-ECDH-failure results.
func isAllZero(b [32]byte) bool {
	return b == zero32
}

// EphemeralKeyPair is an ephemeral X25519 key pair generated for a single
// seal, and zeroized after HKDF derivation.
type EphemeralKeyPair struct {
	scalar [32]byte
	Public [32]byte
}

// GenerateEphemeral creates a fresh ephemeral key pair from the CSPRNG.
func GenerateEphemeral() (*EphemeralKeyPair, error) {
	var scalar [32]byte
	if _, err := io.ReadFull(randReader, scalar[:]); err != nil {
		return nil, err
	}
	return ephemeralFromScalar(scalar)
}

// GenerateEphemeralFromSeed deterministically derives an ephemeral key
// pair from a 32-byte seed, for known-answer tests (spec.md §4.4).
func GenerateEphemeralFromSeed(seed [32]byte) (*EphemeralKeyPair, error) {
	return ephemeralFromScalar(seed)
}

func ephemeralFromScalar(scalar [32]byte) (*EphemeralKeyPair, error) {
	clamp(&scalar)
	pub, err := activeBackend(scalar, basepoint())
	if err != nil {
		return nil, err
	}
	return &EphemeralKeyPair{scalar: scalar, Public: pub}, nil
}

// SharedSecret computes the scalar-multiplication shared secret with a
// recipient's public key, rejecting all-zero (low-order / contributory
// ECDH failure) results.
func (kp *EphemeralKeyPair) SharedSecret(recipientPublic [32]byte) ([32]byte, error) {
	secret, err := activeBackend(kp.scalar, recipientPublic)
	if err != nil {
		return [32]byte{}, x402errors.Wrap(x402errors.ECDHLowOrder, "scalar multiplication failed", err)
	}
	if isAllZero(secret) {
		return [32]byte{}, x402errors.ErrECDHLowOrder
	}
	return secret, nil
}

// Wipe zeroizes the ephemeral scalar. Must be called after HKDF
// derivation completes (spec.md §5).
func (kp *EphemeralKeyPair) Wipe() {
	Wipe(kp.scalar[:])
}

// EphemeralKeyPairForPrivate wraps a recipient's static private scalar in
// an EphemeralKeyPair so Open can reuse SharedSecret against it.
func EphemeralKeyPairForPrivate(privateScalar [32]byte) (*EphemeralKeyPair, error) {
	return ephemeralFromScalar(privateScalar)
}

// RecipientPublicFromPrivate reconstructs pkR by base-point-multiplying
// the recipient's private scalar (open-side step in spec.md §4.4).
func RecipientPublicFromPrivate(privateScalar [32]byte) ([32]byte, error) {
	return activeBackend(privateScalar, basepoint())
}

// ValidateRecipientPublic rejects an all-zero 32-byte public key
// representation before it is ever used in a scalar multiplication.
func ValidateRecipientPublic(pub [32]byte) error {
	if isAllZero(pub) {
		return x402errors.New(x402errors.ECDHLowOrder, "recipient public key is all-zero")
	}
	return nil
}

func basepoint() [32]byte {
	var bp [32]byte
	copy(bp[:], curve25519.Basepoint)
	return bp
}

func clamp(k *[32]byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
