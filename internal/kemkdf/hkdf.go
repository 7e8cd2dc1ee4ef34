package kemkdf

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// derivedLength is the total HKDF-Expand output: 32-byte AEAD key + 12-byte nonce.
	derivedLength = 44
	keyLength     = 32
	nonceLength   = 12
)

// Derived holds the AEAD key and nonce produced by a single HKDF
// derivation, and is zeroized after AEAD use (spec.md §5).
type Derived struct {
	Key   [32]byte
	Nonce [12]byte
}

// Wipe zeroizes the derived key and nonce.
func (d *Derived) Wipe() {
	Wipe(d.Key[:])
	Wipe(d.Nonce[:])
}

// BuildInfo constructs the HKDF info string exactly as spec.md §4.4/§6
// require:
//
//	"x402-hpke:v1|KDF=<KDF>|AEAD=<AEAD>|ns=<NS>|enc=<ENC_B64URL>|pkR=<PKR_B64URL>"
func BuildInfo(kdf, aead, ns string, enc, pkR [32]byte) []byte {
	encB64 := base64.RawURLEncoding.EncodeToString(enc[:])
	pkRB64 := base64.RawURLEncoding.EncodeToString(pkR[:])
	info := fmt.Sprintf("x402-hpke:v1|KDF=%s|AEAD=%s|ns=%s|enc=%s|pkR=%s", kdf, aead, ns, encB64, pkRB64)
	return []byte(info)
}

// Derive runs HKDF-Extract (with a 32-byte all-zero salt) then
// HKDF-Expand to 44 bytes over sharedSecret and info, splitting the
// output into a 32-byte AEAD key and 12-byte nonce.
func Derive(sharedSecret [32]byte, info []byte) (*Derived, error) {
	salt := make([]byte, sha256.Size)
	reader := hkdf.New(sha256.New, sharedSecret[:], salt, info)

	okm := make([]byte, derivedLength)
	if _, err := io.ReadFull(reader, okm); err != nil {
		return nil, fmt.Errorf("kemkdf: hkdf expand: %w", err)
	}
	defer Wipe(okm)

	d := &Derived{}
	copy(d.Key[:], okm[:keyLength])
	copy(d.Nonce[:], okm[keyLength:keyLength+nonceLength])
	return d, nil
}
