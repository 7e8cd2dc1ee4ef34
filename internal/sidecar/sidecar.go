// Package sidecar implements the selectively-public projection and
// verification algorithm described in spec.md §4.6: on seal, a subset of
// headers and/or body keys is projected into a public map; on open, the
// caller-supplied projection is checked byte-for-byte against the AAD
// using constant-time comparisons.
package sidecar

import (
	"crypto/subtle"
	"strings"

	"github.com/x402/x402hpke/internal/aad"
	"github.com/x402/x402hpke/internal/canonical"
	"github.com/x402/x402hpke/internal/x402errors"
)

// Selection names what to make public. All is the "all"/"*" literal
// selection; Names lists explicit header/body key names.
type Selection struct {
	All   bool
	Names []string
}

// Projected is the sidecar computed at seal time.
type Projected struct {
	Headers map[string]string      // uppercase canonical header name -> canonical JSON string
	Body    map[string]interface{} // body key -> value, verbatim
}

// IsEmpty reports whether neither headers nor body keys were selected,
// in which case the sidecar must be omitted entirely (spec.md §4.6).
func (p *Projected) IsEmpty() bool {
	return p == nil || (len(p.Headers) == 0 && len(p.Body) == 0)
}

func matches(name string, sel Selection, caseInsensitive bool) bool {
	if sel.All {
		return true
	}
	for _, n := range sel.Names {
		if caseInsensitive {
			if strings.EqualFold(n, name) {
				return true
			}
		} else if n == name {
			return true
		}
	}
	return false
}

// Project implements the seal-side algorithm. effectiveHTTPResponseCode
// is the transport's effective status code; when it equals 402, core
// payment header names are excluded from selection regardless of what was
// requested.
func Project(headersNormalized []aad.Header, bodyNormalized map[string]interface{}, makePublic, makePrivate *Selection, effectiveHTTPResponseCode int) *Projected {
	result := &Projected{Headers: map[string]string{}, Body: map[string]interface{}{}}
	if makePublic == nil {
		return result
	}

	excludeCore := effectiveHTTPResponseCode == 402

	for _, h := range headersNormalized {
		if excludeCore && (strings.EqualFold(h.Name, aad.CoreXPayment) || strings.EqualFold(h.Name, aad.CoreXPaymentResponse)) {
			continue
		}
		if h.Name == "" {
			continue
		}
		if !matches(h.Name, *makePublic, true) {
			continue
		}
		if makePrivate != nil && matches(h.Name, *makePrivate, true) {
			continue
		}
		valueJSON, err := canonical.EncodeToString(h.Value)
		if err != nil {
			continue
		}
		result.Headers[strings.ToUpper(h.Name)] = valueJSON
	}

	for k, v := range bodyNormalized {
		if !matches(k, *makePublic, false) {
			continue
		}
		if makePrivate != nil && matches(k, *makePrivate, false) {
			continue
		}
		result.Body[k] = v
	}

	return result
}

// Verify implements the open-side algorithm: every entry in publicHeaders
// and publicBody must exist in the AAD-derived normalized headers/body and
// compare equal, using a constant-time comparison, after trimming
// surrounding whitespace from supplied header strings.
func Verify(headersNormalized []aad.Header, bodyNormalized map[string]interface{}, publicHeaders map[string]string, publicBody map[string]interface{}) error {
	headerByName := make(map[string]interface{}, len(headersNormalized))
	for _, h := range headersNormalized {
		headerByName[strings.ToUpper(h.Name)] = h.Value
	}

	for name, suppliedJSON := range publicHeaders {
		value, ok := headerByName[strings.ToUpper(name)]
		if !ok {
			return x402errors.ErrPublicKeyNotInAAD
		}
		expectedJSON, err := canonical.EncodeToString(value)
		if err != nil {
			return x402errors.ErrAADMismatch
		}
		if !constantTimeEqualStrings(expectedJSON, strings.TrimSpace(suppliedJSON)) {
			return x402errors.ErrAADMismatch
		}
	}

	for key, suppliedValue := range publicBody {
		value, ok := bodyNormalized[key]
		if !ok {
			return x402errors.ErrPublicKeyNotInAAD
		}
		expectedJSON, err := canonical.EncodeToString(value)
		if err != nil {
			return x402errors.ErrAADMismatch
		}
		suppliedJSON, err := canonical.EncodeToString(suppliedValue)
		if err != nil {
			return x402errors.ErrAADMismatch
		}
		if !constantTimeEqualStrings(expectedJSON, suppliedJSON) {
			return x402errors.ErrAADMismatch
		}
	}

	return nil
}

// constantTimeEqualStrings compares two strings in constant time
// regardless of length mismatch: unequal lengths are padded to a common
// size before comparison so early-exit on length never leaks how much of
// the value matched.
func constantTimeEqualStrings(a, b string) bool {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	ab := make([]byte, maxLen)
	bb := make([]byte, maxLen)
	copy(ab, a)
	copy(bb, b)
	lengthEqual := len(a) == len(b)
	contentEqual := subtle.ConstantTimeCompare(ab, bb) == 1
	return lengthEqual && contentEqual
}
