package interfaces

import domaintypes "github.com/padlokk/ignition/internal/domain/types"

// VaultStore is the persistence contract the authority chain mutates
// through. Concrete implementations live in internal/vault.
type VaultStore interface {
	PutKey(key domaintypes.AuthorityKey) error
	GetKey(fp domaintypes.Fingerprint) (domaintypes.AuthorityKey, error)
	ListKeys(role domaintypes.KeyRole) ([]domaintypes.AuthorityKey, error)
	ArchiveKey(bundle domaintypes.ArchiveRecord) error

	PutProof(ownerFP domaintypes.Fingerprint, purpose string, bundle domaintypes.ProofBundle) (string, error)
	ProofRef(ownerFP domaintypes.Fingerprint, purpose string, bundle domaintypes.ProofBundle) (string, error)
	GetProof(path string) (domaintypes.ProofBundle, error)

	PutManifest(manifest domaintypes.Manifest) (string, error)
	GetManifest(path string) (domaintypes.Manifest, error)
	ManifestRef(manifest domaintypes.Manifest) (string, error)

	PutTombstone(tomb domaintypes.Tombstone) error
	IsTombstoned(fp domaintypes.Fingerprint) (domaintypes.Tombstone, bool, error)
	ListTombstones() ([]domaintypes.Tombstone, error)

	LoadPolicyFile() ([]byte, error)
	SavePolicyFile(raw []byte) error
}
