package x402hpke

import (
	"encoding/base64"
	"encoding/json"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/x402/x402hpke/internal/aad"
	"github.com/x402/x402hpke/internal/canonical"
	"github.com/x402/x402hpke/internal/kemkdf"
	"github.com/x402/x402hpke/internal/sidecar"
	"github.com/x402/x402hpke/internal/x402errors"
	"github.com/x402/x402hpke/keys"
)

// aeadSeal seals the envelope body with ChaCha20-Poly1305 using the
// HKDF-derived key and nonce, binding aadBytes as additional data.
func aeadSeal(key, nonce, plaintext, aadBytes []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, x402errors.Wrap(x402errors.AEADUnsupported, "construct chacha20poly1305", err)
	}
	return aead.Seal(nil, nonce, plaintext, aadBytes), nil
}

// aeadOpen authenticates and decrypts the envelope ciphertext. Any failure
// is reported without exposing partial plaintext.
func aeadOpen(key, nonce, ciphertext, aadBytes []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, x402errors.Wrap(x402errors.AEADUnsupported, "construct chacha20poly1305", err)
	}
	return aead.Open(nil, nonce, ciphertext, aadBytes)
}

const (
	envelopeTyp = "hpke-envelope"
	envelopeVer = "1"
	suiteName   = "X25519-HKDF-SHA256-CHACHA20POLY1305"
	kemName     = "X25519"
	kdfName     = "HKDF-SHA256"
	aeadName    = "CHACHA20-POLY1305"
)

// Envelope is the immutable, self-describing on-wire record produced by
// Seal (spec.md §3, §6). Field names and types match the wire format
// exactly; enc/aad/ct are base64url-encoded without padding.
type Envelope struct {
	Typ   string `json:"typ"`
	Ver   string `json:"ver"`
	Suite string `json:"suite"`
	NS    string `json:"ns"`
	Kid   string `json:"kid"`
	KEM   string `json:"kem"`
	KDF   string `json:"kdf"`
	AEAD  string `json:"aead"`
	Enc   string `json:"enc"`
	AAD   string `json:"aad"`
	CT    string `json:"ct"`
}

// Sidecar is the selectively-public projection emitted alongside an
// envelope, derived at seal time and never itself stored in the envelope.
type Sidecar struct {
	Headers map[string]string      `json:"headers,omitempty"`
	Body    map[string]interface{} `json:"body,omitempty"`
}

// SealResult bundles the sealed envelope with its optional sidecar.
type SealResult struct {
	Envelope *Envelope
	Sidecar  *Sidecar
}

// OpenResult bundles the recovered plaintext with the parsed headers and
// body it authenticates.
type OpenResult struct {
	Plaintext []byte
	Body      map[string]interface{}
	Headers   []aad.Header
}

// Seal validates transport, builds the AAD, derives an AEAD key via
// X25519+HKDF-SHA256, and encrypts the canonical body, per spec.md §4.5.
func Seal(ns, kid string, recipientPublic keys.JWK, transport Transport, opts ...SealOption) (*SealResult, error) {
	cfg := &sealConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	resolver := cfg.registry.resolverOrDefault()

	if err := aad.ValidateNamespace(ns); err != nil {
		return nil, err
	}

	res, err := transport.resolve()
	if err != nil {
		return nil, err
	}

	headers := make([]aad.Header, 0, 1+len(res.extensions))
	if res.headerCore != nil {
		headers = append(headers, *res.headerCore)
	}
	for _, ext := range res.extensions {
		headers = append(headers, aad.Header{Name: ext.Name, Value: ext.Value})
	}

	built, err := aad.Build(ns, headers, res.body, resolver)
	if err != nil {
		return nil, err
	}

	plaintext, err := canonical.Encode(bodyOrEmpty(built.BodyNormalized))
	if err != nil {
		return nil, x402errors.Wrap(x402errors.InvalidEnvelope, "canonicalize body", err)
	}

	recipientPubBytes, err := recipientPublic.PublicBytes()
	if err != nil {
		return nil, err
	}
	var recipientPub [32]byte
	copy(recipientPub[:], recipientPubBytes)
	if err := kemkdf.ValidateRecipientPublic(recipientPub); err != nil {
		return nil, err
	}

	var ephemeral *kemkdf.EphemeralKeyPair
	if cfg.testEphemeralSeed != nil {
		ephemeral, err = kemkdf.GenerateEphemeralFromSeed(*cfg.testEphemeralSeed)
	} else {
		ephemeral, err = kemkdf.GenerateEphemeral()
	}
	if err != nil {
		return nil, err
	}
	defer ephemeral.Wipe()

	sharedSecret, err := ephemeral.SharedSecret(recipientPub)
	if err != nil {
		return nil, err
	}
	defer kemkdf.Wipe(sharedSecret[:])

	info := kemkdf.BuildInfo(kdfName, aeadName, ns, ephemeral.Public, recipientPub)
	derived, err := kemkdf.Derive(sharedSecret, info)
	if err != nil {
		return nil, err
	}
	defer derived.Wipe()

	ct, err := aeadSeal(derived.Key[:], derived.Nonce[:], plaintext, built.AADBytes)
	if err != nil {
		return nil, err
	}

	envelope := &Envelope{
		Typ:   envelopeTyp,
		Ver:   envelopeVer,
		Suite: suiteName,
		NS:    ns,
		Kid:   kid,
		KEM:   kemName,
		KDF:   kdfName,
		AEAD:  aeadName,
		Enc:   base64.RawURLEncoding.EncodeToString(ephemeral.Public[:]),
		AAD:   base64.RawURLEncoding.EncodeToString(built.AADBytes),
		CT:    base64.RawURLEncoding.EncodeToString(ct),
	}

	projected := sidecar.Project(built.HeadersNormalized, built.BodyNormalized, cfg.makeEntitiesPublic, cfg.makeEntitiesPrivate, res.effectiveHTTPResponseCode)
	var sc *Sidecar
	if !projected.IsEmpty() {
		sc = &Sidecar{Headers: projected.Headers, Body: projected.Body}
	}

	return &SealResult{Envelope: envelope, Sidecar: sc}, nil
}

// Open decrypts and authenticates an envelope, per spec.md §4.5.
func Open(ns string, recipientPrivate keys.JWK, envelope *Envelope, opts ...OpenOption) (*OpenResult, error) {
	cfg := &openConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	resolver := cfg.registry.resolverOrDefault()

	if envelope == nil {
		return nil, x402errors.New(x402errors.InvalidEnvelope, "envelope is nil")
	}
	if envelope.Ver != envelopeVer {
		return nil, x402errors.New(x402errors.InvalidEnvelope, "unsupported envelope version")
	}
	if err := aad.ValidateNamespace(envelope.NS); err != nil {
		return nil, err
	}
	if envelope.AEAD != aeadName {
		return nil, x402errors.ErrAEADMismatch
	}
	if cfg.expectedKid != "" && cfg.expectedKid != envelope.Kid {
		return nil, x402errors.ErrKIDMismatch
	}
	if ns != envelope.NS {
		return nil, x402errors.ErrNSMismatch
	}

	encBytes, err := base64.RawURLEncoding.DecodeString(envelope.Enc)
	if err != nil || len(encBytes) != 32 {
		return nil, x402errors.Wrap(x402errors.InvalidEnvelope, "decode enc", err)
	}
	aadBytes, err := base64.RawURLEncoding.DecodeString(envelope.AAD)
	if err != nil {
		return nil, x402errors.Wrap(x402errors.InvalidEnvelope, "decode aad", err)
	}
	ctBytes, err := base64.RawURLEncoding.DecodeString(envelope.CT)
	if err != nil {
		return nil, x402errors.Wrap(x402errors.InvalidEnvelope, "decode ct", err)
	}

	var enc [32]byte
	copy(enc[:], encBytes)
	if err := kemkdf.ValidateRecipientPublic(enc); err != nil {
		return nil, err
	}

	recipientPrivBytes, err := recipientPrivate.PrivateBytes()
	if err != nil {
		return nil, err
	}
	var recipientPriv [32]byte
	copy(recipientPriv[:], recipientPrivBytes)

	recipientKP, err := kemkdf.EphemeralKeyPairForPrivate(recipientPriv)
	if err != nil {
		return nil, err
	}
	sharedSecret, err := recipientKP.SharedSecret(enc)
	if err != nil {
		return nil, err
	}
	defer kemkdf.Wipe(sharedSecret[:])

	pkR, err := kemkdf.RecipientPublicFromPrivate(recipientPriv)
	if err != nil {
		return nil, err
	}

	info := kemkdf.BuildInfo(kdfName, aeadName, envelope.NS, enc, pkR)
	derived, err := kemkdf.Derive(sharedSecret, info)
	if err != nil {
		return nil, err
	}
	defer derived.Wipe()

	plaintext, err := aeadOpen(derived.Key[:], derived.Nonce[:], ctBytes, aadBytes)
	if err != nil {
		return nil, x402errors.ErrAEADMismatch
	}

	nsSeg, _, headersJSON, bodyJSON, err := aad.ParseSegments(aadBytes)
	if err != nil {
		return nil, err
	}
	if nsSeg != envelope.NS {
		return nil, x402errors.ErrNSMismatch
	}

	headersVal, err := canonical.Unmarshal([]byte(headersJSON))
	if err != nil {
		return nil, x402errors.Wrap(x402errors.InvalidEnvelope, "parse headers segment", err)
	}
	headersArr, ok := headersVal.([]interface{})
	if !ok {
		return nil, x402errors.New(x402errors.InvalidEnvelope, "headers segment is not an array")
	}
	headers := make([]aad.Header, 0, len(headersArr))
	for _, item := range headersArr {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, x402errors.New(x402errors.InvalidEnvelope, "header entry is not an object")
		}
		name, _ := obj["name"].(string)
		if _, _, err := resolver.Canonicalize(name); err != nil {
			return nil, err
		}
		headers = append(headers, aad.Header{Name: name, Value: obj["value"]})
	}

	bodyVal, err := canonical.Unmarshal([]byte(bodyJSON))
	if err != nil {
		return nil, x402errors.Wrap(x402errors.InvalidEnvelope, "parse body segment", err)
	}
	body, ok := bodyVal.(map[string]interface{})
	if !ok {
		return nil, x402errors.New(x402errors.InvalidEnvelope, "body segment is not an object")
	}

	if cfg.publicHeaders != nil || cfg.publicBody != nil {
		if err := sidecar.Verify(headers, body, cfg.publicHeaders, cfg.publicBody); err != nil {
			return nil, err
		}
	}

	return &OpenResult{Plaintext: plaintext, Body: body, Headers: headers}, nil
}

func bodyOrEmpty(body map[string]interface{}) map[string]interface{} {
	if body == nil {
		return map[string]interface{}{}
	}
	return body
}

// MarshalEnvelope encodes an Envelope to its wire JSON form.
func MarshalEnvelope(e *Envelope) ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEnvelope decodes an Envelope from its wire JSON form.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, x402errors.Wrap(x402errors.InvalidEnvelope, "decode envelope json", err)
	}
	return &e, nil
}
