package x402hpke

import "github.com/x402/x402hpke/internal/x402errors"

// NormalizePaymentLike validates a PAYMENT content map against the richer
// payment-header schema, additive to the base "has a payload key" check
// NewPayment already enforces. x402Version must be 1, scheme and network
// must be strings when present, and payload must be an object. It returns content
// unchanged on success.
func NormalizePaymentLike(content map[string]interface{}) (map[string]interface{}, error) {
	version, ok := content["x402Version"]
	if !ok || !isOne(version) {
		return nil, x402errors.ErrPaymentVersion
	}
	for _, key := range []string{"scheme", "network"} {
		if v, present := content[key]; present {
			if _, ok := v.(string); !ok {
				return nil, x402errors.ErrPaymentSchema
			}
		}
	}
	if _, ok := content["payload"].(map[string]interface{}); !ok {
		return nil, x402errors.ErrPaymentSchema
	}
	return content, nil
}

// isOne reports whether v is the JSON number 1, accepting the concrete
// numeric types content maps built by hand or decoded via encoding/json
// (without UseNumber) may carry.
func isOne(v interface{}) bool {
	switch n := v.(type) {
	case int:
		return n == 1
	case int64:
		return n == 1
	case float64:
		return n == 1
	default:
		return false
	}
}

// ExtendedAppPayment is the best-effort payment metadata pulled out of a
// validated payment-like content map, useful for callers that log or route
// on payment attributes without re-parsing the payload by hand.
type ExtendedAppPayment struct {
	Scheme      string
	Network     string
	From        string
	To          string
	Value       string
	ValidAfter  string
	ValidBefore string
	Nonce       string
	Signature   string
}

// DeriveExtendedAppFromPayment extracts ExtendedAppPayment from a PAYMENT
// content map. It never fails: any missing or malformed field is left as
// the empty string, mirroring the best-effort, never-raises extraction it
// is grounded on.
func DeriveExtendedAppFromPayment(content map[string]interface{}) ExtendedAppPayment {
	scheme, _ := content["scheme"].(string)
	network, _ := content["network"].(string)

	payload, _ := content["payload"].(map[string]interface{})
	auth, _ := payload["authorization"].(map[string]interface{})
	signature, _ := payload["signature"].(string)

	from, _ := auth["from"].(string)
	to, _ := auth["to"].(string)
	value, _ := auth["value"].(string)
	validAfter, _ := auth["validAfter"].(string)
	validBefore, _ := auth["validBefore"].(string)
	nonce, _ := auth["nonce"].(string)

	return ExtendedAppPayment{
		Scheme:      scheme,
		Network:     network,
		From:        from,
		To:          to,
		Value:       value,
		ValidAfter:  validAfter,
		ValidBefore: validBefore,
		Nonce:       nonce,
		Signature:   signature,
	}
}
