package stream

import (
	"sync"

	"github.com/x402/x402hpke/internal/x402errors"
)

// Default anti-abuse limits (spec.md §4.7).
const (
	DefaultMaxChunks = 1_000_000
	DefaultMaxBytes  = 1_000_000_000
)

// Limiter is a stateful wrapper around SealChunk that enforces a maximum
// chunk count and byte budget before encrypting. Opens are not metered by
// default, but Limiter exposes OpenChunk for symmetry.
type Limiter struct {
	MaxChunks int64
	MaxBytes  int64

	mu         sync.Mutex
	chunksUsed int64
	bytesUsed  int64
}

// NewLimiter constructs a Limiter with the given caps. A zero value for
// either cap falls back to the spec default.
func NewLimiter(maxChunks, maxBytes int64) *Limiter {
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Limiter{MaxChunks: maxChunks, MaxBytes: maxBytes}
}

// SealChunk enforces the limit before delegating to the package-level
// SealChunk. On success, updates chunksUsed/bytesUsed atomically with the
// check so no encryption happens after a limit is exceeded.
func (l *Limiter) SealChunk(key, prefix []byte, seq uint64, plaintext, aad []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.chunksUsed+1 > l.MaxChunks || l.bytesUsed+int64(len(plaintext)) > l.MaxBytes {
		return nil, x402errors.ErrAEADLimit
	}

	ct, err := SealChunk(key, prefix, seq, plaintext, aad)
	if err != nil {
		return nil, err
	}

	l.chunksUsed++
	l.bytesUsed += int64(len(plaintext))
	return ct, nil
}

// OpenChunk delegates to the package-level OpenChunk. Exposed for
// interface symmetry with SealChunk; opens are not metered.
func (l *Limiter) OpenChunk(key, prefix []byte, seq uint64, ciphertext, aad []byte) ([]byte, error) {
	return OpenChunk(key, prefix, seq, ciphertext, aad)
}

// Usage reports the current chunk and byte counters.
func (l *Limiter) Usage() (chunksUsed, bytesUsed int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chunksUsed, l.bytesUsed
}
