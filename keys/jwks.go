package keys

import (
	"context"

	"github.com/x402/x402hpke/internal/x402errors"
)

// JWKSSource fetches a JWKS document for a given URL. Transport, caching
// policy (TTL clamping, Cache-Control/Expires handling), and retries are
// external collaborators (spec.md §1, §6) — this interface only fixes the
// contract shape the codec depends on.
type JWKSSource interface {
	FetchJWKS(ctx context.Context, url string) (*Set, error)
}

// KeySelector picks one JWK out of a Set by kid.
type KeySelector interface {
	Select(set *Set, kid string) (*JWK, error)
}

// DefaultSelector selects by exact kid match and validates the result.
type DefaultSelector struct{}

// Select implements KeySelector.
func (DefaultSelector) Select(set *Set, kid string) (*JWK, error) {
	jwk, err := selectByKid(set, kid)
	if err != nil {
		return nil, err
	}
	if err := jwk.Validate(); err != nil {
		return nil, err
	}
	return jwk, nil
}

// StaticSource is an in-memory JWKSSource, useful for tests and examples
// that do not want to stand up an HTTPS JWKS endpoint. It rejects an empty
// url and otherwise returns the configured set whatever the url is.
type StaticSource struct {
	Set *Set
}

// FetchJWKS implements JWKSSource.
func (s StaticSource) FetchJWKS(_ context.Context, url string) (*Set, error) {
	if url == "" {
		return nil, x402errors.New(x402errors.JWKSURLRequired, "url is required")
	}
	if s.Set == nil {
		return nil, x402errors.New(x402errors.JWKSInvalid, "static source has no keys configured")
	}
	return s.Set, nil
}

// RequireHTTPS is a convenience validator external JWKSSource
// implementations are expected to apply before fetching (spec.md §6:
// "HTTPS-only").
func RequireHTTPS(scheme string) error {
	if scheme != "https" {
		return x402errors.New(x402errors.JWKSHTTPSRequired, "jwks url must use https")
	}
	return nil
}
