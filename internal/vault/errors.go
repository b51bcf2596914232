package vault

import "errors"

// Storage sentinels. LockTimeout and the unwrapped I/O class are
// retryable; Tampered and FingerprintPoisoned are fatal and must never be
// auto-retried.
var (
	ErrLockTimeout         = errors.New("vault: lock acquisition timed out")
	ErrTampered            = errors.New("vault: stored artifact failed canonical/digest verification")
	ErrFingerprintPoisoned = errors.New("vault: fingerprint is tombstoned")
	ErrNotFound            = errors.New("vault: record not found")
)
