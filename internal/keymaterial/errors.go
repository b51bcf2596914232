package keymaterial

import "errors"

// Sentinel errors for passphrase and envelope failures. ErrBadPassphrase
// covers both the fast-fail check digest and the authoritative AEAD tag
// failure, so callers cannot distinguish which layer rejected the
// passphrase.
var (
	ErrBadPassphrase = errors.New("keymaterial: wrong passphrase or corrupted envelope")
	ErrBadSaltSize   = errors.New("keymaterial: invalid salt size")
	ErrBadNonceSize  = errors.New("keymaterial: invalid nonce size")
	ErrUnknownKDF    = errors.New("keymaterial: unknown KDF identifier")
	ErrUnknownAEAD   = errors.New("keymaterial: unknown AEAD identifier")
)
