package x402hpke

import (
	"github.com/x402/x402hpke/internal/aad"
	"github.com/x402/x402hpke/internal/x402errors"
)

// Extension is one approved-registry extension header attached verbatim
// to a transport (spec.md §4.2).
type Extension struct {
	Name  string
	Value map[string]interface{}
}

// resolved is the normalized form every Transport variant produces:
// (headerCore?, body, extensions, effectiveHttpResponseCode?).
type resolved struct {
	headerCore                *aad.Header
	body                      map[string]interface{}
	extensions                []Extension
	effectiveHTTPResponseCode int
	hasHTTPResponseCode       bool
}

// Transport is the validated semantic message the codec seals or opens.
// Each concrete implementation carries only the fields valid for its
// variant (spec.md Design Note "Dynamic header validation → tagged
// variants") and enforces the validation table of spec.md §4.2 in its
// constructor.
type Transport interface {
	resolve() (resolved, error)
}

type otherRequestTransport struct {
	content    map[string]interface{}
	extensions []Extension
}

// NewOtherRequest validates an OTHER_REQUEST transport: an http response
// code must be absent.
func NewOtherRequest(content map[string]interface{}, extensions []Extension) (Transport, error) {
	return &otherRequestTransport{content: content, extensions: extensions}, nil
}

func (t *otherRequestTransport) resolve() (resolved, error) {
	return resolved{
		body:       t.content,
		extensions: t.extensions,
	}, nil
}

type otherResponseTransport struct {
	content          map[string]interface{}
	httpResponseCode int
	extensions       []Extension
}

// NewOtherResponse validates an OTHER_RESPONSE transport: an http
// response code is required and must not equal 402.
func NewOtherResponse(content map[string]interface{}, httpResponseCode int, extensions []Extension) (Transport, error) {
	if httpResponseCode == 402 {
		return nil, x402errors.ErrOtherResponse402
	}
	return &otherResponseTransport{content: content, httpResponseCode: httpResponseCode, extensions: extensions}, nil
}

func (t *otherResponseTransport) resolve() (resolved, error) {
	return resolved{
		body:                      t.content,
		extensions:                t.extensions,
		effectiveHTTPResponseCode: t.httpResponseCode,
		hasHTTPResponseCode:       true,
	}, nil
}

type paymentRequiredTransport struct {
	content          map[string]interface{}
	httpResponseCode int
	hasCode          bool
	extensions       []Extension
}

// NewPaymentRequired validates a PAYMENT_REQUIRED transport: content must
// be non-empty; httpResponseCode, if given, must be 402 (any other value
// is auto-coerced to 402 with a diagnostic-only warning — it never changes
// the error channel per spec.md §7).
func NewPaymentRequired(content map[string]interface{}, httpResponseCode *int, extensions []Extension) (Transport, error) {
	if len(content) == 0 {
		return nil, x402errors.ErrPaymentRequiredContent
	}
	code := 402
	hasCode := httpResponseCode != nil
	if hasCode {
		code = *httpResponseCode
	}
	return &paymentRequiredTransport{content: content, httpResponseCode: code, hasCode: hasCode, extensions: extensions}, nil
}

// CoercionWarning reports whether constructing this PAYMENT_REQUIRED
// transport coerced a non-402 http response code to 402. Diagnostic only.
func (t *paymentRequiredTransport) CoercionWarning() bool {
	return t.hasCode && t.httpResponseCode != 402
}

func (t *paymentRequiredTransport) resolve() (resolved, error) {
	return resolved{
		body:                      t.content,
		extensions:                t.extensions,
		effectiveHTTPResponseCode: 402,
		hasHTTPResponseCode:       true,
	}, nil
}

type paymentResponseTransport struct {
	content    map[string]interface{}
	extensions []Extension
}

// NewPaymentResponse validates a PAYMENT_RESPONSE transport: content must
// be non-empty; the http response code, if given, must be absent or 200
// (coerced to 200).
func NewPaymentResponse(content map[string]interface{}, httpResponseCode *int, extensions []Extension) (Transport, error) {
	if len(content) == 0 {
		return nil, x402errors.ErrPaymentResponseContent
	}
	if httpResponseCode != nil && *httpResponseCode != 200 {
		return nil, x402errors.ErrPaymentResponseHTTPCode
	}
	return &paymentResponseTransport{content: content, extensions: extensions}, nil
}

func (t *paymentResponseTransport) resolve() (resolved, error) {
	return resolved{
		headerCore: &aad.Header{Name: aad.CoreXPaymentResponse, Value: t.content},
		body:       map[string]interface{}{},
		extensions: t.extensions,
		effectiveHTTPResponseCode: 200,
		hasHTTPResponseCode:       true,
	}, nil
}

type paymentTransport struct {
	content    map[string]interface{}
	extensions []Extension
}

// NewPayment validates a PAYMENT transport: no http response code is
// permitted, and content must contain a "payload" key. Content is further
// validated against the richer payment-header schema (x402Version, scheme,
// network, payload shape) via NormalizePaymentLike, additive to the payload
// key check above.
func NewPayment(content map[string]interface{}, extensions []Extension) (Transport, error) {
	if _, ok := content["payload"]; !ok {
		return nil, x402errors.ErrPaymentPayload
	}
	if _, err := NormalizePaymentLike(content); err != nil {
		return nil, err
	}
	return &paymentTransport{content: content, extensions: extensions}, nil
}

func (t *paymentTransport) resolve() (resolved, error) {
	return resolved{
		headerCore: &aad.Header{Name: aad.CoreXPayment, Value: t.content},
		body:       map[string]interface{}{},
		extensions: t.extensions,
	}, nil
}
