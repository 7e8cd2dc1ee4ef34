// Package x402hpke implements a provider-agnostic Hybrid Public Key
// Encryption envelope codec that binds application payloads to
// cryptographically-authenticated metadata for the x402 payment-request
// protocol.
//
// # Algorithm suite
//
// The codec fixes a single v1 cryptographic suite:
//
//   - X25519 (RFC 7748): key encapsulation via ephemeral-static
//     Diffie-Hellman.
//   - HKDF-SHA256 (RFC 5869): key derivation, bound to a namespace and
//     ciphersuite via an explicit info string.
//   - ChaCha20-Poly1305 (RFC 8439): authenticated encryption of the
//     canonical body, bound to canonical headers/body metadata as AAD.
//
// A parallel streaming subsystem (see internal/stream) uses
// XChaCha20-Poly1305 for per-chunk sealing outside the envelope format.
//
// # Security model
//
// Seal and Open provide confidentiality of the transport body and
// integrity of both the body and the transport metadata (headers,
// extensions, namespace) via AAD binding. They do not authenticate the
// sender, do not provide transport security, and do not prevent replay —
// those are the caller's responsibility, using the unique identifiers
// AAD-bound extensions let applications carry.
//
// # State machine
//
// Each Seal/Open call moves conceptually through:
//
//	DRAFT -> NORMALIZED (transport validated) -> READY (AAD built)
//	      -> SEALED (KEM+KDF+AEAD succeeded) | ERROR (taxonomized failure)
//
// SEALED and ERROR are terminal; there is no partial success.
//
// Basic usage:
//
//	transport, err := x402hpke.NewPayment(map[string]interface{}{
//		"x402Version": 1,
//		"scheme":      "exact",
//		"network":     "base",
//		"payload":     map[string]interface{}{"amount": "10.00"},
//	}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := x402hpke.Seal("acme", "key-1", recipientPub, transport)
//	if err != nil {
//		log.Fatal(err)
//	}
//	opened, err := x402hpke.Open("acme", recipientPriv, result.Envelope)
package x402hpke
