// Package stream implements the streaming-chunk AEAD sub-protocol of
// spec.md §4.7: an exported-key XChaCha20-Poly1305 per-chunk construction
// with monotonic sequence numbers, plus a limit-enforcing wrapper.
package stream

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/x402/x402hpke/internal/x402errors"
)

// NoncePrefixSize is the fixed length of the application-derived nonce
// prefix.
const NoncePrefixSize = 16

// buildNonce constructs the 24-byte XChaCha20-Poly1305 nonce:
// noncePrefix16 || little-endian-u64(seq).
func buildNonce(prefix []byte, seq uint64) ([]byte, error) {
	if len(prefix) != NoncePrefixSize {
		return nil, x402errors.ErrStreamNoncePrefixLen
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	copy(nonce, prefix)
	binary.LittleEndian.PutUint64(nonce[NoncePrefixSize:], seq)
	return nonce, nil
}

// SealChunk encrypts plaintext for the given sequence number under key,
// authenticating aad. Pure: no internal sequence tracking.
func SealChunk(key, prefix []byte, seq uint64, plaintext, aad []byte) ([]byte, error) {
	nonce, err := buildNonce(prefix, seq)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, x402errors.Wrap(x402errors.AEADUnsupported, "construct XChaCha20-Poly1305", err)
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

// OpenChunk authenticates and decrypts ciphertext for the given sequence
// number under key. Any mismatch (wrong key, wrong seq, tampering) fails
// with a generic authentication error.
func OpenChunk(key, prefix []byte, seq uint64, ciphertext, aad []byte) ([]byte, error) {
	nonce, err := buildNonce(prefix, seq)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, x402errors.Wrap(x402errors.AEADUnsupported, "construct XChaCha20-Poly1305", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, x402errors.ErrAEADMismatch
	}
	return plaintext, nil
}
