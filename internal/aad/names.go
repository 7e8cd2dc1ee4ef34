package aad

import (
	"strings"

	"github.com/x402/x402hpke/internal/x402errors"
)

// Core header canonical names (spec.md §3).
const (
	CoreXPayment         = "X-Payment"
	CoreXPaymentResponse = "X-Payment-Response"
	// CoreEmptyMarker signals Payment-Required body reassignment.
	CoreEmptyMarker = ""
)

// UppercaseXPayment and UppercaseXPaymentResponse are the sidecar-wire
// aliases used per spec.md §6 ("Uppercase aliases ... are used on the
// sidecar wire").
const (
	UppercaseXPayment         = "X-PAYMENT"
	UppercaseXPaymentResponse = "X-PAYMENT-RESPONSE"
)

// DefaultApprovedExtensions is the fixed registry of approved extension
// header names (spec.md §3, §6).
var DefaultApprovedExtensions = []string{
	"X-402-Routing",
	"X-402-Limits",
	"X-402-Acceptable",
	"X-402-Metadata",
	"X-402-Security",
}

// Resolver canonicalizes a header name and reports whether it identifies
// a core header. Implementations validate extension names against an
// approved registry.
type Resolver interface {
	Canonicalize(name string) (canonicalName string, isCore bool, err error)
}

// staticResolver implements Resolver over a fixed, case-insensitive
// name -> canonical-name map, used as the default registry and as the
// base map the root package's per-instance Registry builds on.
type staticResolver struct {
	approved map[string]string // lowercase -> canonical
}

// NewStaticResolver builds a Resolver approving exactly the given
// canonical extension names (in addition to the two fixed core names and
// the empty-string marker, which are always recognized).
func NewStaticResolver(approvedExtensions []string) Resolver {
	m := make(map[string]string, len(approvedExtensions))
	for _, n := range approvedExtensions {
		m[strings.ToLower(n)] = n
	}
	return &staticResolver{approved: m}
}

// DefaultResolver approves exactly DefaultApprovedExtensions.
func DefaultResolver() Resolver {
	return NewStaticResolver(DefaultApprovedExtensions)
}

func (r *staticResolver) Canonicalize(name string) (string, bool, error) {
	if name == CoreEmptyMarker {
		return CoreEmptyMarker, true, nil
	}
	lower := strings.ToLower(name)
	switch lower {
	case strings.ToLower(CoreXPayment):
		return CoreXPayment, true, nil
	case strings.ToLower(CoreXPaymentResponse):
		return CoreXPaymentResponse, true, nil
	}
	if canon, ok := r.approved[lower]; ok {
		return canon, false, nil
	}
	return "", false, x402errors.ErrX402ExtensionUnapproved
}
