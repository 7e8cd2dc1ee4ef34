// Package x402errors defines the closed error taxonomy for the envelope
// codec. Every rejection performed by the codec maps to exactly one Kind;
// no operation partially succeeds or retries.
package x402errors

import (
	"errors"
	"fmt"
)

// Kind identifies one entry of the closed error taxonomy.
type Kind string

const (
	// Configuration / validation.
	NSForbidden        Kind = "NS_FORBIDDEN"
	NSMismatch         Kind = "NS_MISMATCH"
	JWKSURLRequired    Kind = "JWKS_URL_REQUIRED"
	JWKSHTTPSRequired  Kind = "JWKS_HTTPS_REQUIRED"
	JWKSHTTPStatus     Kind = "JWKS_HTTP_STATUS"
	JWKSInvalid        Kind = "JWKS_INVALID"
	JWKSKeyInvalid     Kind = "JWKS_KEY_INVALID"
	JWKSKeyUseInvalid  Kind = "JWKS_KEY_USE_INVALID"
	JWKSKidInvalid     Kind = "JWKS_KID_INVALID"

	// Transport model.
	OtherRequestHTTPCode      Kind = "OTHER_REQUEST_HTTP_CODE"
	OtherResponse402          Kind = "OTHER_RESPONSE_402"
	PaymentRequiredContent    Kind = "PAYMENT_REQUIRED_CONTENT"
	PaymentResponseContent    Kind = "PAYMENT_RESPONSE_CONTENT"
	PaymentResponseHTTPCode   Kind = "PAYMENT_RESPONSE_HTTP_CODE"
	PaymentHTTPCode           Kind = "PAYMENT_HTTP_CODE"
	PaymentPayload            Kind = "PAYMENT_PAYLOAD"
	PaymentVersion            Kind = "PAYMENT_VERSION"
	PaymentSchema             Kind = "PAYMENT_SCHEMA"
	ContentObject             Kind = "CONTENT_OBJECT"
	X402ExtensionUnapproved   Kind = "X402_EXTENSION_UNAPPROVED"
	X402ExtensionDuplicate    Kind = "X402_EXTENSION_DUPLICATE"
	X402ExtensionPayload      Kind = "X402_EXTENSION_PAYLOAD"
	BodyHeaderNameCollision   Kind = "BODY_HEADER_NAME_COLLISION"
	MultipleCoreX402Headers   Kind = "MULTIPLE_CORE_X402_HEADERS"

	// KEM/KDF.
	ECDHLowOrder Kind = "ECDH_LOW_ORDER"

	// AEAD/envelope.
	AEADUnsupported      Kind = "AEAD_UNSUPPORTED"
	AEADMismatch         Kind = "AEAD_MISMATCH"
	InvalidEnvelope      Kind = "INVALID_ENVELOPE"
	KIDMismatch          Kind = "KID_MISMATCH"
	AEADLimit            Kind = "AEAD_LIMIT"
	StreamNoncePrefixLen Kind = "STREAM_NONCE_PREFIX_LEN"

	// Sidecar verification.
	AADMismatch         Kind = "AAD_MISMATCH"
	PublicKeyNotInAAD   Kind = "PUBLIC_KEY_NOT_IN_AAD"
)

// Error is the concrete error type for every taxonomized rejection in this
// module. Lower-level failures (canonical encoding, random-source reads,
// HKDF expansion) are returned as plain errors without a Kind. Message is a
// human-readable diagnostic; it never contains ciphertext, AAD bytes, or
// key material.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("x402hpke: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	if e.Message != "" {
		return fmt.Sprintf("x402hpke: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("x402hpke: %s", e.Kind)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches a target sentinel by Kind, mirroring how the taxonomy is
// meant to be tested with errors.Is(err, x402errors.ErrNSForbidden) and
// friends.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return sentinelKind(target) == e.Kind
}

// New constructs a taxonomized error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs a taxonomized error wrapping an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// HTTPStatusKind builds the dynamic JWKS_HTTP_<status> kind.
func HTTPStatusKind(status int) Kind {
	return Kind(fmt.Sprintf("JWKS_HTTP_%d", status))
}

// sentinel errors, one per fixed Kind (JWKS_HTTP_STATUS, whose concrete
// kinds come from HTTPStatusKind, has none), for callers that prefer errors.Is against
// a package-level variable instead of constructing an *Error to compare
// against.
var (
	ErrNSForbidden      = New(NSForbidden, "namespace is reserved")
	ErrNSMismatch       = New(NSMismatch, "namespace does not match envelope")
	ErrJWKSURLRequired  = New(JWKSURLRequired, "jwks url is required")
	ErrJWKSHTTPSRequired = New(JWKSHTTPSRequired, "jwks url must use https")
	ErrJWKSInvalid      = New(JWKSInvalid, "jwks document is invalid")
	ErrJWKSKeyInvalid   = New(JWKSKeyInvalid, "jwk is invalid")
	ErrJWKSKeyUseInvalid = New(JWKSKeyUseInvalid, "jwk use is invalid")
	ErrJWKSKidInvalid   = New(JWKSKidInvalid, "jwk kid is invalid")

	ErrOtherRequestHTTPCode    = New(OtherRequestHTTPCode, "OTHER_REQUEST must not carry an http response code")
	ErrOtherResponse402        = New(OtherResponse402, "OTHER_RESPONSE must not use status 402")
	ErrPaymentRequiredContent  = New(PaymentRequiredContent, "PAYMENT_REQUIRED requires non-empty content")
	ErrPaymentResponseContent  = New(PaymentResponseContent, "PAYMENT_RESPONSE requires non-empty content")
	ErrPaymentResponseHTTPCode = New(PaymentResponseHTTPCode, "PAYMENT_RESPONSE http response code must be absent or 200")
	ErrPaymentHTTPCode         = New(PaymentHTTPCode, "PAYMENT must not carry an http response code")
	ErrPaymentPayload          = New(PaymentPayload, "PAYMENT content must contain a payload key")
	ErrPaymentVersion          = New(PaymentVersion, "PAYMENT content x402Version must be 1")
	ErrPaymentSchema           = New(PaymentSchema, "PAYMENT content scheme/network must be strings when present")
	ErrContentObject           = New(ContentObject, "content must be a JSON object")
	ErrX402ExtensionUnapproved = New(X402ExtensionUnapproved, "extension header name is not approved")
	ErrX402ExtensionDuplicate  = New(X402ExtensionDuplicate, "duplicate extension header name")
	ErrX402ExtensionPayload    = New(X402ExtensionPayload, "extension header value must be a JSON object")
	ErrBodyHeaderNameCollision = New(BodyHeaderNameCollision, "body key collides with a header name")
	ErrMultipleCoreX402Headers = New(MultipleCoreX402Headers, "message has more than one core header")

	ErrECDHLowOrder = New(ECDHLowOrder, "ECDH produced a low-order/all-zero shared secret")

	ErrAEADUnsupported      = New(AEADUnsupported, "unsupported aead algorithm")
	ErrAEADMismatch         = New(AEADMismatch, "envelope authentication failed")
	ErrInvalidEnvelope      = New(InvalidEnvelope, "envelope is malformed")
	ErrKIDMismatch          = New(KIDMismatch, "kid does not match expected value")
	ErrAEADLimit            = New(AEADLimit, "chunk/byte limit exceeded")
	ErrStreamNoncePrefixLen = New(StreamNoncePrefixLen, "stream nonce prefix must be 16 bytes")

	ErrAADMismatch       = New(AADMismatch, "sidecar value does not match AAD")
	ErrPublicKeyNotInAAD = New(PublicKeyNotInAAD, "sidecar key is not present in AAD")
)

func sentinelKind(target error) Kind {
	var e *Error
	if errors.As(target, &e) {
		return e.Kind
	}
	return ""
}
