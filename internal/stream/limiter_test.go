package stream

import (
	"errors"
	"testing"

	"github.com/x402/x402hpke/internal/x402errors"
)

func TestLimiter_EnforcesMaxChunks(t *testing.T) {
	l := NewLimiter(1, 0)
	key, prefix := testKey(), testPrefix()

	if _, err := l.SealChunk(key, prefix, 0, []byte("a"), nil); err != nil {
		t.Fatalf("first SealChunk() error = %v", err)
	}
	if _, err := l.SealChunk(key, prefix, 1, []byte("b"), nil); !errors.Is(err, x402errors.ErrAEADLimit) {
		t.Fatalf("second SealChunk() error = %v, want AEAD_LIMIT", err)
	}
}

func TestLimiter_EnforcesMaxBytes(t *testing.T) {
	l := NewLimiter(0, 4)
	key, prefix := testKey(), testPrefix()

	if _, err := l.SealChunk(key, prefix, 0, []byte("ab"), nil); err != nil {
		t.Fatalf("SealChunk() error = %v", err)
	}
	if _, err := l.SealChunk(key, prefix, 1, []byte("abc"), nil); !errors.Is(err, x402errors.ErrAEADLimit) {
		t.Fatalf("SealChunk() over byte budget error = %v, want AEAD_LIMIT", err)
	}
}

func TestLimiter_DefaultsApplied(t *testing.T) {
	l := NewLimiter(0, 0)
	if l.MaxChunks != DefaultMaxChunks {
		t.Errorf("MaxChunks = %d, want %d", l.MaxChunks, DefaultMaxChunks)
	}
	if l.MaxBytes != DefaultMaxBytes {
		t.Errorf("MaxBytes = %d, want %d", l.MaxBytes, DefaultMaxBytes)
	}
}

func TestLimiter_UsageTracksSuccessfulSeals(t *testing.T) {
	l := NewLimiter(10, 1000)
	key, prefix := testKey(), testPrefix()
	if _, err := l.SealChunk(key, prefix, 0, []byte("hello"), nil); err != nil {
		t.Fatalf("SealChunk() error = %v", err)
	}
	chunks, bytesUsed := l.Usage()
	if chunks != 1 || bytesUsed != 5 {
		t.Errorf("Usage() = (%d, %d), want (1, 5)", chunks, bytesUsed)
	}
}

func TestLimiter_RejectsBeforeEncrypting(t *testing.T) {
	l := NewLimiter(0, 1)
	key, prefix := testKey(), testPrefix()
	if _, err := l.SealChunk(key, prefix, 0, []byte("too-long"), nil); !errors.Is(err, x402errors.ErrAEADLimit) {
		t.Fatalf("SealChunk() error = %v, want AEAD_LIMIT", err)
	}
	chunks, bytesUsed := l.Usage()
	if chunks != 0 || bytesUsed != 0 {
		t.Errorf("Usage() = (%d, %d), want (0, 0) after rejected seal", chunks, bytesUsed)
	}
}

func TestLimiter_OpenChunkNotMetered(t *testing.T) {
	l := NewLimiter(1, 1000)
	key, prefix := testKey(), testPrefix()
	ct, err := l.SealChunk(key, prefix, 0, []byte("x"), nil)
	if err != nil {
		t.Fatalf("SealChunk() error = %v", err)
	}
	if _, err := l.OpenChunk(key, prefix, 0, ct, nil); err != nil {
		t.Fatalf("OpenChunk() error = %v", err)
	}
	if _, err := l.OpenChunk(key, prefix, 0, ct, nil); err != nil {
		t.Fatalf("second OpenChunk() error = %v, opens should not be metered", err)
	}
}
