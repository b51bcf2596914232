package interfaces

import (
	domaintypes "github.com/padlokk/ignition/internal/domain/types"
)

// AuthorityService is the narrow external surface the authority chain
// exposes to callers (the CLI being the primary one).
type AuthorityService interface {
	Create(parentFP domaintypes.Fingerprint, role domaintypes.KeyRole, passphrase string) (domaintypes.AuthorityKey, error)
	Rotate(targetFP domaintypes.Fingerprint, passphrase string) (domaintypes.AuthorityKey, domaintypes.Manifest, error)
	Revoke(targetFP domaintypes.Fingerprint, reason string) (domaintypes.Manifest, error)
	VerifyChain(fp domaintypes.Fingerprint) error
	VerifyProof(path string) error
	VerifyManifest(path string) error
	Dependents(fp domaintypes.Fingerprint) ([]domaintypes.Fingerprint, error)
	List(roleFilter domaintypes.KeyRole) ([]domaintypes.AuthorityKey, error)
	Status() (domaintypes.ChainHealth, error)
}

// KeyGenerator is the narrow black-box the authority core invokes for
// recipient-set recording; it never performs file-content encryption
// itself (that remains the out-of-scope Age tool's job).
type KeyGenerator interface {
	RecordRecipient(fp domaintypes.Fingerprint, publicKey []byte) error
	Recipients(scope string) ([][]byte, error)
}
