package authority

import "errors"

// Chain-level sentinels. Lower-layer errors (vault.ErrTampered,
// keymaterial.ErrBadPassphrase, proof.ErrExpired, policy.Error) propagate
// unwrapped through pkg/errors.Wrap so callers can still errors.Is/As
// through the added context.
var (
	// ErrIllegalEdge is returned when role is not the one legal child of the
	// parent's role.
	ErrIllegalEdge = errors.New("authority: role is not a legal child of the parent's role")

	// ErrPassphraseRequired is returned when Create/Rotate targets an
	// Ignition or Distro role without a passphrase. A Skull rotation without
	// one fails the passphrase policy check instead.
	ErrPassphraseRequired = errors.New("authority: passphrase required for this role")

	// ErrPassphraseNotAllowed is returned when a passphrase is supplied for a
	// non-ignition-tier role (Master, Repo), which stores its private key
	// unwrapped.
	ErrPassphraseNotAllowed = errors.New("authority: passphrase not accepted for this role")

	// ErrLocked is returned by a signing operation that needs a parent's (or
	// a key's own) private material when that fingerprint has not been
	// unlocked in this process yet.
	ErrLocked = errors.New("authority: signer is locked; call Unlock first")

	// ErrNotActive is returned when an operation requires an Active key but
	// found one Archived or Revoked.
	ErrNotActive = errors.New("authority: key is not active")

	// ErrCannotRevokeRoot is returned by Revoke when targetFP is the Skull:
	// there is no higher authority to attest to the revocation, so the chain
	// has no way to cascade it. Rotating the Skull is allowed; revoking it
	// is not.
	ErrCannotRevokeRoot = errors.New("authority: the root key cannot be revoked, only rotated")

	// ErrKeyExpired is returned by VerifyChain when a key on the path to the
	// root has passed its expiration (beyond the configured grace window).
	ErrKeyExpired = errors.New("authority: key has expired")

	// ErrManifestTampered is returned by VerifyManifest when the recomputed
	// canonical-body digest does not match the stored digest.value.
	ErrManifestTampered = errors.New("authority: manifest digest does not match canonical body")
)
