// Package keymaterial generates Ed25519 keypairs, derives fingerprints, and
// wraps/unwraps ignition-tier private material.
//
// Contents
//
//   - Ed25519 key generation (GenerateKeypair)
//   - Fingerprint derivation (Fingerprint)
//   - Argon2id + XChaCha20-Poly1305 wrapping of private key bytes for
//     ignition tiers (Wrap, Unwrap)
//
// # Notes
//
// Wrap zeroes the caller's plaintext private key buffer before returning.
// Unwrap returns freshly allocated private key bytes; callers are
// responsible for zeroing them with memzero.Zero once done. A wrong
// passphrase surfaces as an AEAD tag failure (ErrBadPassphrase); the
// optional passphrase-check digest stored alongside a WrappedPayload is a
// fast-fail shortcut only, never authoritative.
package keymaterial
