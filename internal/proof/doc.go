// Package proof implements the Ed25519-over-canonical-JSON proof engine:
// signing authority claims and subject receipts, and verifying bundles
// against an expected signer public key, an expiry, and fingerprint
// bindings asserted by the caller.
package proof
