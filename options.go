package x402hpke

import "github.com/x402/x402hpke/internal/sidecar"

// sealConfig holds configuration for Seal, built up by SealOption values.
type sealConfig struct {
	registry           *Registry
	makeEntitiesPublic  *sidecar.Selection
	makeEntitiesPrivate *sidecar.Selection
	testEphemeralSeed   *[32]byte
}

// SealOption configures Seal.
type SealOption func(*sealConfig)

// WithRegistry sets the approved-extension-header registry used to
// validate and canonicalize this seal's headers. Defaults to
// DefaultRegistry().
func WithRegistry(r *Registry) SealOption {
	return func(c *sealConfig) { c.registry = r }
}

// MakeEntitiesPublicAll selects every header and body key for the sidecar
// projection (spec.md §4.6 "all"/"*").
func MakeEntitiesPublicAll() SealOption {
	return func(c *sealConfig) { c.makeEntitiesPublic = &sidecar.Selection{All: true} }
}

// MakeEntitiesPublic selects specific header/body key names for the
// sidecar projection.
func MakeEntitiesPublic(names ...string) SealOption {
	return func(c *sealConfig) { c.makeEntitiesPublic = &sidecar.Selection{Names: names} }
}

// MakeEntitiesPrivate subtracts specific header/body key names from an
// otherwise-selected sidecar projection.
func MakeEntitiesPrivate(names ...string) SealOption {
	return func(c *sealConfig) { c.makeEntitiesPrivate = &sidecar.Selection{Names: names} }
}

// WithTestEphemeralSeed derives the ephemeral X25519 key pair
// deterministically from a 32-byte seed instead of the CSPRNG, for
// known-answer tests (spec.md §4.4).
func WithTestEphemeralSeed(seed [32]byte) SealOption {
	return func(c *sealConfig) { c.testEphemeralSeed = &seed }
}

// openConfig holds configuration for Open, built up by OpenOption values.
type openConfig struct {
	registry      *Registry
	expectedKid   string
	publicHeaders map[string]string
	publicBody    map[string]interface{}
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

// WithOpenRegistry sets the approved-extension-header registry used to
// validate the header names parsed from the AAD headers array.
func WithOpenRegistry(r *Registry) OpenOption {
	return func(c *openConfig) { c.registry = r }
}

// WithExpectedKid rejects the envelope unless envelope.kid equals kid.
func WithExpectedKid(kid string) OpenOption {
	return func(c *openConfig) { c.expectedKid = kid }
}

// WithPublicHeaders supplies a sidecar headers projection to verify
// against the AAD (spec.md §4.6, the "publicHeaders" formatting choice).
func WithPublicHeaders(headers map[string]string) OpenOption {
	return func(c *openConfig) {
		if c.publicHeaders == nil {
			c.publicHeaders = map[string]string{}
		}
		for k, v := range headers {
			c.publicHeaders[k] = v
		}
	}
}

// WithPublicJSON supplies a sidecar headers projection encoded as a
// headers-in-JSON variant (spec.md §4.6, the "publicJson" formatting
// choice). Both WithPublicHeaders and WithPublicJSON project the same
// underlying set and yield identical verification outcomes (spec.md §9
// Open Question).
func WithPublicJSON(headers map[string]string) OpenOption {
	return WithPublicHeaders(headers)
}

// WithPublicBody supplies a sidecar body-key projection to verify against
// the AAD.
func WithPublicBody(body map[string]interface{}) OpenOption {
	return func(c *openConfig) {
		if c.publicBody == nil {
			c.publicBody = map[string]interface{}{}
		}
		for k, v := range body {
			c.publicBody[k] = v
		}
	}
}
