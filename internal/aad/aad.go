// Package aad implements the associated-authenticated-data builder
// described in spec.md §4.3: it canonicalizes the (namespace,
// headers-array, body-object) triple into a byte-exact AAD string shared
// between seal and open.
package aad

import (
	"fmt"
	"sort"
	"strings"

	"github.com/x402/x402hpke/internal/canonical"
	"github.com/x402/x402hpke/internal/x402errors"
)

// ReservedNamespace is the case-insensitive namespace value that must
// always be rejected.
const ReservedNamespace = "x402"

// versionTag is the fixed AAD version segment.
const versionTag = "v1"

// Header is one header entry contributed to the AAD, prior to name
// canonicalization.
type Header struct {
	Name   string
	Value  interface{}
	Extras map[string]interface{}
}

// Built is the output of Build: the canonical AAD bytes plus normalized
// copies for later equality checks (sidecar verification, tests).
type Built struct {
	AADBytes          []byte
	HeadersNormalized []Header
	BodyNormalized    map[string]interface{}
}

// Build runs the AAD algorithm of spec.md §4.3 steps 1-6, using resolver
// to canonicalize each header name and classify it as core or extension.
func Build(ns string, headers []Header, body map[string]interface{}, resolver Resolver) (*Built, error) {
	if err := ValidateNamespace(ns); err != nil {
		return nil, err
	}

	canonicalized := make([]Header, len(headers))
	isCoreByIndex := make([]bool, len(headers))
	for i, h := range headers {
		name, isCore, err := resolver.Canonicalize(h.Name)
		if err != nil {
			return nil, err
		}
		canonicalized[i] = Header{Name: name, Value: h.Value, Extras: h.Extras}
		isCoreByIndex[i] = isCore
	}

	headerNames := make(map[string]struct{}, len(canonicalized))
	for _, h := range canonicalized {
		headerNames[strings.ToLower(h.Name)] = struct{}{}
	}
	for k := range body {
		if _, collide := headerNames[strings.ToLower(k)]; collide {
			return nil, x402errors.ErrBodyHeaderNameCollision
		}
	}

	seenCore := false
	seenExt := make(map[string]struct{}, len(canonicalized))
	for i, h := range canonicalized {
		lower := strings.ToLower(h.Name)
		if isCoreByIndex[i] {
			if seenCore {
				return nil, x402errors.ErrMultipleCoreX402Headers
			}
			seenCore = true
			continue
		}
		if _, dup := seenExt[lower]; dup {
			return nil, x402errors.ErrX402ExtensionDuplicate
		}
		seenExt[lower] = struct{}{}
	}

	sort.SliceStable(canonicalized, func(i, j int) bool {
		return strings.ToLower(canonicalized[i].Name) < strings.ToLower(canonicalized[j].Name)
	})

	headersJSONValue := make([]interface{}, len(canonicalized))
	for i, h := range canonicalized {
		entry := map[string]interface{}{
			"name":  h.Name,
			"value": h.Value,
		}
		for k, v := range h.Extras {
			entry[k] = v
		}
		headersJSONValue[i] = entry
	}

	headersJSON, err := canonical.EncodeToString(headersJSONValue)
	if err != nil {
		return nil, fmt.Errorf("aad: canonicalize headers: %w", err)
	}

	bodyValue := interface{}(body)
	if body == nil {
		bodyValue = map[string]interface{}{}
	}
	bodyJSON, err := canonical.EncodeToString(bodyValue)
	if err != nil {
		return nil, fmt.Errorf("aad: canonicalize body: %w", err)
	}

	aadBytes := []byte(ns + "|" + versionTag + "|" + headersJSON + "|" + bodyJSON)

	bodyNorm, _ := bodyValue.(map[string]interface{})
	return &Built{
		AADBytes:          aadBytes,
		HeadersNormalized: canonicalized,
		BodyNormalized:    bodyNorm,
	}, nil
}

// ValidateNamespace rejects an empty or reserved namespace.
func ValidateNamespace(ns string) error {
	if ns == "" {
		return x402errors.New(x402errors.NSForbidden, "namespace must not be empty")
	}
	if strings.EqualFold(ns, ReservedNamespace) {
		return x402errors.ErrNSForbidden
	}
	return nil
}

// ParseSegments splits AAD bytes at "|" into at least four parts and
// returns (ns, ver, headersJSON, bodyJSON) as raw strings, mirroring
// spec.md §4.5 step 10's "split ... into at least four segments" rule.
func ParseSegments(aadBytes []byte) (ns, ver, headersJSON, bodyJSON string, err error) {
	parts := strings.SplitN(string(aadBytes), "|", 4)
	if len(parts) < 4 {
		return "", "", "", "", x402errors.New(x402errors.InvalidEnvelope, "aad must split into at least 4 segments")
	}
	return parts[0], parts[1], parts[2], parts[3], nil
}
