// Package keys implements the X25519 OKP JWK key material used by the
// envelope codec: generation, encoding, and the JWKS key-selection
// interface. Fetching and caching a JWKS document over the network is an
// external collaborator (spec.md §1); this package only defines the
// contract shape and a static in-memory implementation useful for tests
// and examples.
package keys

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/x402/x402hpke/internal/x402errors"
)

// JWK is an X25519 OKP JSON Web Key (RFC 7517 / RFC 8037).
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	D   string `json:"d,omitempty"`
	Kid string `json:"kid,omitempty"`
	Use string `json:"use,omitempty"`
}

// Set is a JWKS document: a bare list of keys.
type Set struct {
	Keys []JWK `json:"keys"`
}

// PublicBytes decodes the base64url-encoded public key.
func (k JWK) PublicBytes() ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, x402errors.Wrap(x402errors.JWKSKeyInvalid, "decode x", err)
	}
	if len(b) != 32 {
		return nil, x402errors.New(x402errors.JWKSKeyInvalid, "x must decode to 32 bytes")
	}
	return b, nil
}

// PrivateBytes decodes the base64url-encoded private scalar, if present.
func (k JWK) PrivateBytes() ([]byte, error) {
	if k.D == "" {
		return nil, x402errors.New(x402errors.JWKSKeyInvalid, "jwk has no private component")
	}
	b, err := base64.RawURLEncoding.DecodeString(k.D)
	if err != nil {
		return nil, x402errors.Wrap(x402errors.JWKSKeyInvalid, "decode d", err)
	}
	if len(b) != 32 {
		return nil, x402errors.New(x402errors.JWKSKeyInvalid, "d must decode to 32 bytes")
	}
	return b, nil
}

// Validate checks structural well-formedness independent of key selection:
// kty/crv must be the fixed X25519 OKP pair, use (if present) must be
// "enc", x must decode to 32 bytes.
func (k JWK) Validate() error {
	if k.Kty != "OKP" || k.Crv != "X25519" {
		return x402errors.New(x402errors.JWKSKeyInvalid, "kty/crv must be OKP/X25519")
	}
	if k.Use != "" && k.Use != "enc" {
		return x402errors.New(x402errors.JWKSKeyUseInvalid, "use must be \"enc\" when present")
	}
	if _, err := k.PublicBytes(); err != nil {
		return err
	}
	return nil
}

// Fingerprint returns a short hex digest of the public key, safe to log
// (unlike the key itself) and suitable as a default kid.
func Fingerprint(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return hex.EncodeToString(sum[:10])
}

// selectByKid finds the JWK with a matching kid in a Set. Case-sensitive:
// kid is an opaque identifier, not a header name.
func selectByKid(set *Set, kid string) (*JWK, error) {
	if set == nil {
		return nil, x402errors.New(x402errors.JWKSInvalid, "jwks set is nil")
	}
	if kid == "" {
		return nil, x402errors.New(x402errors.JWKSKidInvalid, "kid must not be empty")
	}
	for i := range set.Keys {
		if set.Keys[i].Kid == kid {
			k := set.Keys[i]
			return &k, nil
		}
	}
	return nil, x402errors.New(x402errors.JWKSKidInvalid, "no key found for kid")
}
