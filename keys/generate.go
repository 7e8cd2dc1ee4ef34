package keys

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/curve25519"
)

// randReader is the random source used by Generate. It defaults to
// crypto/rand but can be overridden for deterministic tests, mirroring the
// teacher's package-level randReader + SetRandReaderForTesting pattern.
var randReader io.Reader = rand.Reader

// SetRandReaderForTesting overrides the random source used by Generate.
// Intended for tests only; returns a function that restores the original
// reader.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}

// Generate creates a fresh X25519 OKP JWK key pair. If kid is non-empty it
// is stamped onto both the public and private forms; otherwise the key is
// left unidentified (callers may assign one via Fingerprint).
func Generate(kid string) (priv JWK, pub JWK, err error) {
	var scalar [32]byte
	if _, err := io.ReadFull(randReader, scalar[:]); err != nil {
		return JWK{}, JWK{}, err
	}
	clamp(&scalar)

	pubBytes, err := curve25519.X25519(scalar[:], curve25519.Basepoint)
	if err != nil {
		return JWK{}, JWK{}, err
	}

	xEnc := base64.RawURLEncoding.EncodeToString(pubBytes)
	dEnc := base64.RawURLEncoding.EncodeToString(scalar[:])

	priv = JWK{Kty: "OKP", Crv: "X25519", X: xEnc, D: dEnc, Kid: kid, Use: "enc"}
	pub = JWK{Kty: "OKP", Crv: "X25519", X: xEnc, Kid: kid, Use: "enc"}
	return priv, pub, nil
}

// FromSeed deterministically derives a key pair from a 32-byte seed. Used
// for known-answer tests (spec.md §4.4 "or ... derive it from a supplied
// 32-byte seed via deterministic key derivation").
func FromSeed(seed [32]byte, kid string) (priv JWK, pub JWK, err error) {
	clamp(&seed)
	pubBytes, err := curve25519.X25519(seed[:], curve25519.Basepoint)
	if err != nil {
		return JWK{}, JWK{}, err
	}
	xEnc := base64.RawURLEncoding.EncodeToString(pubBytes)
	dEnc := base64.RawURLEncoding.EncodeToString(seed[:])
	priv = JWK{Kty: "OKP", Crv: "X25519", X: xEnc, D: dEnc, Kid: kid, Use: "enc"}
	pub = JWK{Kty: "OKP", Crv: "X25519", X: xEnc, Kid: kid, Use: "enc"}
	return priv, pub, nil
}

func clamp(k *[32]byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
