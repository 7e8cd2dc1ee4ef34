package kemkdf

import (
	"errors"
	"testing"

	"github.com/x402/x402hpke/internal/x402errors"
)

func TestGenerateEphemeral_ProducesNonZeroKeys(t *testing.T) {
	kp, err := GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral() error = %v", err)
	}
	if isAllZero(kp.Public) {
		t.Error("GenerateEphemeral() produced all-zero public key")
	}
}

func TestGenerateEphemeralFromSeed_Deterministic(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	kp1, err := GenerateEphemeralFromSeed(seed)
	if err != nil {
		t.Fatalf("GenerateEphemeralFromSeed() error = %v", err)
	}
	kp2, err := GenerateEphemeralFromSeed(seed)
	if err != nil {
		t.Fatalf("GenerateEphemeralFromSeed() error = %v", err)
	}
	if kp1.Public != kp2.Public {
		t.Error("GenerateEphemeralFromSeed() is not deterministic")
	}
}

func TestSharedSecret_MatchesBothSides(t *testing.T) {
	var recipientSeed [32]byte
	for i := range recipientSeed {
		recipientSeed[i] = byte(200 + i)
	}
	recipient, err := GenerateEphemeralFromSeed(recipientSeed)
	if err != nil {
		t.Fatalf("GenerateEphemeralFromSeed() error = %v", err)
	}

	sender, err := GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral() error = %v", err)
	}

	senderSecret, err := sender.SharedSecret(recipient.Public)
	if err != nil {
		t.Fatalf("sender.SharedSecret() error = %v", err)
	}

	recipientPub, err := RecipientPublicFromPrivate(recipientSeed)
	if err != nil {
		t.Fatalf("RecipientPublicFromPrivate() error = %v", err)
	}
	if recipientPub != recipient.Public {
		t.Fatalf("RecipientPublicFromPrivate() mismatch")
	}

	recipientKP := &EphemeralKeyPair{scalar: recipientSeed}
	recipientSecret, err := recipientKP.SharedSecret(sender.Public)
	if err != nil {
		t.Fatalf("recipient.SharedSecret() error = %v", err)
	}

	if senderSecret != recipientSecret {
		t.Error("shared secrets do not match between sides")
	}
}

func TestValidateRecipientPublic_RejectsAllZero(t *testing.T) {
	var zero [32]byte
	if err := ValidateRecipientPublic(zero); err == nil {
		t.Error("ValidateRecipientPublic(zero) error = nil, want error")
	}
	if err := ValidateRecipientPublic(zero); !errors.Is(err, x402errors.ErrECDHLowOrder) {
		t.Errorf("ValidateRecipientPublic(zero) error = %v, want ECDH_LOW_ORDER", err)
	}
}

func TestSharedSecret_RejectsAllZeroResult(t *testing.T) {
	// Curve25519 has a small set of low-order points that produce an
	// all-zero shared secret with any scalar. All-zero itself is one of
	// the documented low-order inputs.
	var lowOrderPoint [32]byte
	kp, err := GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral() error = %v", err)
	}
	if _, err := kp.SharedSecret(lowOrderPoint); err == nil {
		t.Error("SharedSecret(all-zero point) error = nil, want error")
	}
}

func TestUseCirclBackend_AgreesWithDefault(t *testing.T) {
	restore := UseCirclBackend()
	defer restore()

	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i * 7)
	}
	kpCircl, err := GenerateEphemeralFromSeed(seed)
	if err != nil {
		t.Fatalf("GenerateEphemeralFromSeed() with circl backend error = %v", err)
	}
	restore()

	kpDefault, err := GenerateEphemeralFromSeed(seed)
	if err != nil {
		t.Fatalf("GenerateEphemeralFromSeed() with default backend error = %v", err)
	}

	if kpCircl.Public != kpDefault.Public {
		t.Error("circl and curve25519 backends disagree on the public key for the same scalar")
	}
}
