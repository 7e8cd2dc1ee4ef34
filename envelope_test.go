package x402hpke

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/x402/x402hpke/internal/x402errors"
	"github.com/x402/x402hpke/keys"
)

func mustKeyPair(t *testing.T) (priv, pub keys.JWK) {
	t.Helper()
	priv, pub, err := keys.Generate("recipient-1")
	if err != nil {
		t.Fatalf("keys.Generate() error = %v", err)
	}
	return priv, pub
}

// validPaymentContent wraps payload in a minimal PAYMENT content map that
// satisfies both the base payload-key check and NormalizePaymentLike.
func validPaymentContent(payload map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"x402Version": 1,
		"scheme":      "exact",
		"network":     "base",
		"payload":     payload,
	}
}

func TestSealOpen_RoundtripsPrivateByDefault(t *testing.T) {
	priv, pub := mustKeyPair(t)
	tr, err := NewPayment(validPaymentContent(map[string]interface{}{"amount": "10.00"}), nil)
	if err != nil {
		t.Fatalf("NewPayment() error = %v", err)
	}

	result, err := Seal("acme", "recipient-1", pub, tr)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if result.Sidecar != nil {
		t.Errorf("Sidecar = %+v, want nil when nothing is made public", result.Sidecar)
	}
	if result.Envelope.NS != "acme" || result.Envelope.Kid != "recipient-1" {
		t.Errorf("envelope ns/kid = %s/%s, want acme/recipient-1", result.Envelope.NS, result.Envelope.Kid)
	}

	opened, err := Open("acme", priv, result.Envelope)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened.Headers[0].Name != "X-Payment" {
		t.Errorf("opened header name = %s, want X-Payment", opened.Headers[0].Name)
	}
}

func TestSealOpen_TamperedSidecarFailsAADMismatch(t *testing.T) {
	priv, pub := mustKeyPair(t)
	tr, err := NewPayment(validPaymentContent(map[string]interface{}{"amount": "10.00"}), nil)
	if err != nil {
		t.Fatalf("NewPayment() error = %v", err)
	}

	result, err := Seal("acme", "recipient-1", pub, tr, MakeEntitiesPublicAll())
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	tampered := map[string]string{}
	for k, v := range result.Sidecar.Headers {
		tampered[k] = v
	}
	tampered["X-PAYMENT"] = `{"payload":{"amount":"999.00"}}`

	if _, err := Open("acme", priv, result.Envelope, WithPublicHeaders(tampered)); !errors.Is(err, x402errors.ErrAADMismatch) {
		t.Fatalf("Open() with tampered sidecar error = %v, want AAD_MISMATCH", err)
	}
}

func TestSealOpen_PaymentRequiredForces402AndSuppressesCoreHeaders(t *testing.T) {
	_, pub := mustKeyPair(t)
	tr, err := NewPaymentRequired(map[string]interface{}{"accepts": []interface{}{"crypto"}}, nil, nil)
	if err != nil {
		t.Fatalf("NewPaymentRequired() error = %v", err)
	}

	result, err := Seal("acme", "recipient-1", pub, tr, MakeEntitiesPublicAll())
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if _, ok := result.Sidecar.Headers["X-PAYMENT"]; ok {
		t.Errorf("sidecar headers = %+v, want X-PAYMENT excluded under a 402 response", result.Sidecar.Headers)
	}
	if _, ok := result.Sidecar.Body["accepts"]; !ok {
		t.Errorf("sidecar body missing accepts key: %+v", result.Sidecar.Body)
	}
}

func TestSeal_RejectsLowOrderRecipientKey(t *testing.T) {
	allZero := make([]byte, 32)
	badPub := keys.JWK{Kty: "OKP", Crv: "X25519", X: base64.RawURLEncoding.EncodeToString(allZero), Use: "enc"}
	tr, err := NewPayment(validPaymentContent(map[string]interface{}{}), nil)
	if err != nil {
		t.Fatalf("NewPayment() error = %v", err)
	}

	if _, err := Seal("acme", "k", badPub, tr); !errors.Is(err, x402errors.ErrECDHLowOrder) {
		t.Fatalf("Seal() with all-zero recipient key error = %v, want ECDH_LOW_ORDER", err)
	}
}

func TestOpen_RejectsMismatchedDeclaredAEAD(t *testing.T) {
	priv, pub := mustKeyPair(t)
	tr, err := NewPayment(validPaymentContent(map[string]interface{}{}), nil)
	if err != nil {
		t.Fatalf("NewPayment() error = %v", err)
	}
	result, err := Seal("acme", "recipient-1", pub, tr)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	result.Envelope.AEAD = "AES-256-GCM"

	if _, err := Open("acme", priv, result.Envelope); !errors.Is(err, x402errors.ErrAEADMismatch) {
		t.Fatalf("Open() with swapped aead name error = %v, want AEAD_MISMATCH", err)
	}
}

func TestOpen_RejectsNamespaceMismatch(t *testing.T) {
	priv, pub := mustKeyPair(t)
	tr, err := NewPayment(validPaymentContent(map[string]interface{}{}), nil)
	if err != nil {
		t.Fatalf("NewPayment() error = %v", err)
	}
	result, err := Seal("acme", "recipient-1", pub, tr)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	if _, err := Open("other-ns", priv, result.Envelope); !errors.Is(err, x402errors.ErrNSMismatch) {
		t.Fatalf("Open() with mismatched namespace error = %v, want NS_MISMATCH", err)
	}
}

func TestOpen_RejectsUnexpectedKid(t *testing.T) {
	priv, pub := mustKeyPair(t)
	tr, err := NewPayment(validPaymentContent(map[string]interface{}{}), nil)
	if err != nil {
		t.Fatalf("NewPayment() error = %v", err)
	}
	result, err := Seal("acme", "recipient-1", pub, tr)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	if _, err := Open("acme", priv, result.Envelope, WithExpectedKid("someone-else")); !errors.Is(err, x402errors.ErrKIDMismatch) {
		t.Fatalf("Open() with wrong expected kid error = %v, want KID_MISMATCH", err)
	}
}

func TestSealOpen_DeterministicWithTestEphemeralSeed(t *testing.T) {
	priv, pub := mustKeyPair(t)
	tr, err := NewPayment(validPaymentContent(map[string]interface{}{"x": 1}), nil)
	if err != nil {
		t.Fatalf("NewPayment() error = %v", err)
	}
	var seed [32]byte
	seed[0] = 7

	first, err := Seal("acme", "recipient-1", pub, tr, WithTestEphemeralSeed(seed))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	second, err := Seal("acme", "recipient-1", pub, tr, WithTestEphemeralSeed(seed))
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if first.Envelope.Enc != second.Envelope.Enc {
		t.Errorf("enc differs across calls with the same seed: %s vs %s", first.Envelope.Enc, second.Envelope.Enc)
	}
	if first.Envelope.CT != second.Envelope.CT {
		t.Errorf("ct differs across calls with the same seed and plaintext")
	}

	if _, err := Open("acme", priv, first.Envelope); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
}

func TestMarshalUnmarshalEnvelope_Roundtrips(t *testing.T) {
	_, pub := mustKeyPair(t)
	tr, err := NewPayment(validPaymentContent(map[string]interface{}{}), nil)
	if err != nil {
		t.Fatalf("NewPayment() error = %v", err)
	}
	result, err := Seal("acme", "recipient-1", pub, tr)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	data, err := MarshalEnvelope(result.Envelope)
	if err != nil {
		t.Fatalf("MarshalEnvelope() error = %v", err)
	}
	decoded, err := UnmarshalEnvelope(data)
	if err != nil {
		t.Fatalf("UnmarshalEnvelope() error = %v", err)
	}
	if decoded.CT != result.Envelope.CT || decoded.Enc != result.Envelope.Enc {
		t.Errorf("UnmarshalEnvelope() round trip mismatch: %+v vs %+v", decoded, result.Envelope)
	}
}
