package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/padlokk/ignition/internal/domain"
	"github.com/padlokk/ignition/internal/domain/types"
)

// Compile-time assertion that FileVault implements domain.VaultStore.
var _ domain.VaultStore = (*FileVault)(nil)

// DefaultLockTimeout bounds how long a mutating or read-only operation
// waits on <root>/.lock before failing with ErrLockTimeout.
const DefaultLockTimeout = 5 * time.Second

var allRoles = []types.KeyRole{
	types.RoleSkull, types.RoleMaster, types.RoleRepo, types.RoleIgnition, types.RoleDistro,
}

// FileVault is the filesystem-backed implementation of
// github.com/padlokk/ignition/internal/domain.VaultStore: keys/, proofs/,
// manifests/ and metadata/ trees under a single root, every record written
// atomically under the vault lock.
type FileVault struct {
	root        string
	lockTimeout time.Duration
}

// Open returns a FileVault rooted at root, creating the directory if
// needed and sweeping any stray temp files left by a prior crash.
func Open(root string) (*FileVault, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	if err := sweepStrayTemp(root); err != nil {
		return nil, err
	}
	return &FileVault{root: root, lockTimeout: DefaultLockTimeout}, nil
}

// Root returns the vault's filesystem root.
func (v *FileVault) Root() string { return v.root }

// WithLockTimeout returns a shallow copy of v using the given timeout
// instead of DefaultLockTimeout.
func (v *FileVault) WithLockTimeout(d time.Duration) *FileVault {
	cp := *v
	cp.lockTimeout = d
	return &cp
}

func (v *FileVault) withExclusive(fn func() error) error {
	fl, err := acquireExclusive(v.root, v.lockTimeout)
	if err != nil {
		return err
	}
	defer release(fl)
	return fn()
}

func (v *FileVault) withShared(fn func() error) error {
	fl, err := acquireShared(v.root, v.lockTimeout)
	if err != nil {
		return err
	}
	defer release(fl)
	return fn()
}

// PutKey persists key under keys/<role>/<fp_short>/<fp>.json, refusing
// fingerprints that are already tombstoned.
func (v *FileVault) PutKey(key types.AuthorityKey) error {
	return v.withExclusive(func() error {
		if _, ok, err := v.isTombstonedLocked(key.Fingerprint); err != nil {
			return err
		} else if ok {
			return ErrFingerprintPoisoned
		}
		return writeCanonical(keyPath(v.root, key.Role, key.Fingerprint), key, 0o600)
	})
}

// GetKey loads a key by fingerprint, searching each role's directory since
// the caller does not always know the role in advance.
func (v *FileVault) GetKey(fp types.Fingerprint) (types.AuthorityKey, error) {
	var out types.AuthorityKey
	err := v.withShared(func() error {
		for _, role := range allRoles {
			var key types.AuthorityKey
			path := keyPath(v.root, role, fp)
			if err := readCanonical(path, &key); err == nil {
				out = key
				return nil
			} else if err != ErrNotFound {
				return err
			}
		}
		return ErrNotFound
	})
	return out, err
}

// ListKeys returns every key record under keys/<role>/, or across all
// roles when role is empty.
func (v *FileVault) ListKeys(role types.KeyRole) ([]types.AuthorityKey, error) {
	var out []types.AuthorityKey
	err := v.withShared(func() error {
		roles := allRoles
		if role != "" {
			roles = []types.KeyRole{role}
		}
		for _, r := range roles {
			matches, err := filepath.Glob(filepath.Join(keyRoleDir(v.root, r), "*", "*.json"))
			if err != nil {
				return err
			}
			for _, m := range matches {
				var key types.AuthorityKey
				if err := readCanonical(m, &key); err != nil {
					return fmt.Errorf("vault: reading %s: %w", m, err)
				}
				out = append(out, key)
			}
		}
		return nil
	})
	return out, err
}

// ArchiveKey writes bundle (the prior key record plus its parent's, or for a
// Skull its own, signature over that record) into a dated container under
// metadata/archive/ and removes the live keys/ record, so rotated keys
// disappear from the active tree but stay auditable.
func (v *FileVault) ArchiveKey(bundle types.ArchiveRecord) error {
	return v.withExclusive(func() error {
		ts := bundle.ArchivedAt.UnixNano()
		if err := writeCanonical(archiveBundlePath(v.root, ts, bundle.Key.Role), bundle, 0o600); err != nil {
			return err
		}
		path := keyPath(v.root, bundle.Key.Role, bundle.Key.Fingerprint)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})
}

// PutProof persists a proof bundle under proofs/<parent_fp_short>/ and
// returns its path relative to the vault root.
func (v *FileVault) PutProof(parentFP types.Fingerprint, purpose string, bundle types.ProofBundle) (string, error) {
	var rel string
	err := v.withExclusive(func() error {
		issuedAt := proofIssuedAt(bundle)
		abs := proofPath(v.root, parentFP, issuedAt, purpose)
		if err := writeCanonical(abs, bundle, 0o600); err != nil {
			return err
		}
		r, err := filepath.Rel(v.root, abs)
		if err != nil {
			return err
		}
		rel = r
		return nil
	})
	return rel, err
}

// ProofRef returns the vault-relative path PutProof will write bundle to,
// without writing anything. Key records carry their proof refs inline, and
// the record is the first artifact a mutation writes, so the refs must be
// computable before the proofs themselves land.
func (v *FileVault) ProofRef(parentFP types.Fingerprint, purpose string, bundle types.ProofBundle) (string, error) {
	abs := proofPath(v.root, parentFP, proofIssuedAt(bundle), purpose)
	return filepath.Rel(v.root, abs)
}

func proofIssuedAt(bundle types.ProofBundle) int64 {
	switch bundle.Kind {
	case types.ProofAuthorityClaim:
		if bundle.Claim != nil {
			return bundle.Claim.IssuedAt.UnixNano()
		}
	case types.ProofSubjectReceipt:
		if bundle.Receipt != nil {
			return bundle.Receipt.AcknowledgedAt.UnixNano()
		}
	}
	return time.Now().UTC().UnixNano()
}

// GetProof loads a proof bundle from a vault-relative path returned by
// PutProof.
func (v *FileVault) GetProof(relPath string) (types.ProofBundle, error) {
	var out types.ProofBundle
	err := v.withShared(func() error {
		return readCanonical(filepath.Join(v.root, relPath), &out)
	})
	return out, err
}

// PutManifest persists a manifest under
// manifests/<parent_fp_short>/<timestamp>_<event>.json and returns its
// vault-relative path.
func (v *FileVault) PutManifest(manifest types.Manifest) (string, error) {
	var rel string
	err := v.withExclusive(func() error {
		ts := manifest.Event.InitiatedAt.UnixNano()
		abs := manifestPath(v.root, manifest.Event.ParentFingerprint, ts, manifest.Event.Type)
		if err := writeCanonical(abs, manifest, 0o600); err != nil {
			return err
		}
		r, err := filepath.Rel(v.root, abs)
		if err != nil {
			return err
		}
		rel = r
		return nil
	})
	return rel, err
}

// ManifestRef returns the vault-relative path PutManifest will write
// manifest to, without writing anything. Tombstones record this path before
// the manifest itself lands; the manifest is always the last artifact a
// cascade writes.
func (v *FileVault) ManifestRef(manifest types.Manifest) (string, error) {
	ts := manifest.Event.InitiatedAt.UnixNano()
	abs := manifestPath(v.root, manifest.Event.ParentFingerprint, ts, manifest.Event.Type)
	return filepath.Rel(v.root, abs)
}

// GetManifest loads a manifest from a vault-relative path.
func (v *FileVault) GetManifest(relPath string) (types.Manifest, error) {
	var out types.Manifest
	err := v.withShared(func() error {
		return readCanonical(filepath.Join(v.root, relPath), &out)
	})
	return out, err
}

// PutTombstone writes a permanent tombstone for tomb.Fingerprint.
func (v *FileVault) PutTombstone(tomb types.Tombstone) error {
	return v.withExclusive(func() error {
		return writeCanonical(tombstonePath(v.root, tomb.Fingerprint), tomb, 0o600)
	})
}

// IsTombstoned reports whether fp has already been tombstoned.
func (v *FileVault) IsTombstoned(fp types.Fingerprint) (types.Tombstone, bool, error) {
	var out types.Tombstone
	var found bool
	err := v.withShared(func() error {
		t, ok, err := v.isTombstonedLocked(fp)
		out, found = t, ok
		return err
	})
	return out, found, err
}

// isTombstonedLocked assumes the caller already holds the vault lock.
func (v *FileVault) isTombstonedLocked(fp types.Fingerprint) (types.Tombstone, bool, error) {
	var t types.Tombstone
	err := readCanonical(tombstonePath(v.root, fp), &t)
	if err == ErrNotFound {
		return types.Tombstone{}, false, nil
	}
	if err != nil {
		return types.Tombstone{}, false, err
	}
	return t, true, nil
}

// ListTombstones returns every tombstone on record.
func (v *FileVault) ListTombstones() ([]types.Tombstone, error) {
	var out []types.Tombstone
	err := v.withShared(func() error {
		matches, err := filepath.Glob(filepath.Join(tombstoneDir(v.root), "*.json"))
		if err != nil {
			return err
		}
		for _, m := range matches {
			var t types.Tombstone
			if err := readCanonical(m, &t); err != nil {
				return err
			}
			out = append(out, t)
		}
		return nil
	})
	return out, err
}

// LoadPolicyFile reads metadata/policy.toml, returning nil bytes (not an
// error) if the file does not exist; absence means built-in defaults.
func (v *FileVault) LoadPolicyFile() ([]byte, error) {
	var out []byte
	err := v.withShared(func() error {
		b, err := os.ReadFile(policyPath(v.root))
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

// SavePolicyFile atomically writes raw TOML bytes to metadata/policy.toml.
func (v *FileVault) SavePolicyFile(raw []byte) error {
	return v.withExclusive(func() error {
		return writeAtomic(policyPath(v.root), raw, 0o600)
	})
}
