package x402hpke

import "github.com/x402/x402hpke/internal/aad"

// Registry is a per-instance approved-extension-header set. The default,
// zero-value Registry approves exactly the fixed registry named in
// spec.md §3/§6. Applications that need additional approved names should
// build their own Registry with NewRegistry rather than mutating global
// state (spec.md Design Note "Mutable global registry of approved
// extensions → per-instance builder"): the process-wide mutation hook the
// original implementation exposed for tests is intentionally not carried
// over as public API.
type Registry struct {
	resolver aad.Resolver
}

// DefaultRegistry approves exactly the fixed registry:
// {X-402-Routing, X-402-Limits, X-402-Acceptable, X-402-Metadata, X-402-Security}.
func DefaultRegistry() *Registry {
	return &Registry{resolver: aad.DefaultResolver()}
}

// NewRegistry approves the given extension names in addition to the
// default approved extensions and the fixed core header names.
func NewRegistry(approvedExtensions ...string) *Registry {
	return &Registry{resolver: aad.NewStaticResolver(append(append([]string{}, aad.DefaultApprovedExtensions...), approvedExtensions...))}
}

func (r *Registry) resolverOrDefault() aad.Resolver {
	if r == nil || r.resolver == nil {
		return aad.DefaultResolver()
	}
	return r.resolver
}
