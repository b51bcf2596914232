package proof

import "errors"

// Sentinel errors a proof bundle can fail verification with.
var (
	ErrSignatureInvalid         = errors.New("proof: signature invalid")
	ErrExpired                  = errors.New("proof: expired")
	ErrFingerprintMismatch      = errors.New("proof: fingerprint mismatch")
	ErrTampered                 = errors.New("proof: canonical re-serialization does not match stored digest")
	ErrCryptoBackendUnavailable = errors.New("proof: crypto backend unavailable")
)
