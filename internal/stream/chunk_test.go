package stream

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func testPrefix() []byte {
	prefix := make([]byte, NoncePrefixSize)
	for i := range prefix {
		prefix[i] = byte(i + 1)
	}
	return prefix
}

func TestSealOpenChunk_RoundTrip(t *testing.T) {
	key, prefix := testKey(), testPrefix()
	plaintext := []byte("hello chunk")
	ct, err := SealChunk(key, prefix, 0, plaintext, nil)
	if err != nil {
		t.Fatalf("SealChunk() error = %v", err)
	}
	pt, err := OpenChunk(key, prefix, 0, ct, nil)
	if err != nil {
		t.Fatalf("OpenChunk() error = %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Errorf("OpenChunk() = %q, want %q", pt, plaintext)
	}
}

func TestOpenChunk_FailsOnWrongSeq(t *testing.T) {
	key, prefix := testKey(), testPrefix()
	ct, err := SealChunk(key, prefix, 5, []byte("data"), nil)
	if err != nil {
		t.Fatalf("SealChunk() error = %v", err)
	}
	if _, err := OpenChunk(key, prefix, 6, ct, nil); err == nil {
		t.Fatal("OpenChunk() error = nil, want error for mismatched seq")
	}
}

func TestOpenChunk_FailsOnTamperedCiphertext(t *testing.T) {
	key, prefix := testKey(), testPrefix()
	ct, err := SealChunk(key, prefix, 0, []byte("data"), nil)
	if err != nil {
		t.Fatalf("SealChunk() error = %v", err)
	}
	ct[0] ^= 0xFF
	if _, err := OpenChunk(key, prefix, 0, ct, nil); err == nil {
		t.Fatal("OpenChunk() error = nil, want error for tampered ciphertext")
	}
}

func TestOpenChunk_FailsOnWrongKey(t *testing.T) {
	prefix := testPrefix()
	ct, err := SealChunk(testKey(), prefix, 0, []byte("data"), nil)
	if err != nil {
		t.Fatalf("SealChunk() error = %v", err)
	}
	otherKey := make([]byte, 32)
	if _, err := OpenChunk(otherKey, prefix, 0, ct, nil); err == nil {
		t.Fatal("OpenChunk() error = nil, want error for wrong key")
	}
}

func TestSealChunk_RejectsBadPrefixLength(t *testing.T) {
	if _, err := SealChunk(testKey(), []byte("tooshort"), 0, []byte("d"), nil); err == nil {
		t.Fatal("SealChunk() error = nil, want STREAM_NONCE_PREFIX_LEN")
	}
}

func TestSealChunk_AADIsAuthenticated(t *testing.T) {
	key, prefix := testKey(), testPrefix()
	ct, err := SealChunk(key, prefix, 0, []byte("data"), []byte("aad-1"))
	if err != nil {
		t.Fatalf("SealChunk() error = %v", err)
	}
	if _, err := OpenChunk(key, prefix, 0, ct, []byte("aad-2")); err == nil {
		t.Fatal("OpenChunk() error = nil, want error for mismatched aad")
	}
}
