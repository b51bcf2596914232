package authority

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/padlokk/ignition/internal/domain"
)

// Rotate retires targetFP and mints its replacement under the same parent,
// same role, same scope and owner. The superseded record moves into the
// archive, signed by its parent tier, and every transitive descendant of
// targetFP is revoked and tombstoned: a rotated key's subtree does not
// survive it, since each descendant's authority claim chains through the
// key that just left service. The manifest is written last, so its
// presence on disk proves the whole cascade committed.
//
// For every role but Skull, targetFP's parent must already be unlocked: it
// both signs the replacement's authority claim and attests to the archived
// record. Skull rotation signs its own archive record, since there is no
// higher authority to ask; the replacement Skull is minted via Bootstrap
// under the hood, so it in turn needs no claim either.
func (c *Chain) Rotate(targetFP domain.Fingerprint, passphrase string) (domain.AuthorityKey, domain.Manifest, error) {
	target, err := c.vault.GetKey(targetFP)
	if err != nil {
		return domain.AuthorityKey{}, domain.Manifest{}, errors.Wrapf(err, "authority: rotate %s", targetFP.ShortPrefix(12))
	}
	if target.Status != domain.StatusActive {
		return domain.AuthorityKey{}, domain.Manifest{}, ErrNotActive
	}

	descendants, err := c.dependentKeys(targetFP)
	if err != nil {
		return domain.AuthorityKey{}, domain.Manifest{}, errors.Wrap(err, "authority: rotate dependents")
	}

	var replacement domain.AuthorityKey
	if target.Role == domain.RoleSkull {
		replacement, err = c.Bootstrap(passphrase, target.Scope, target.Owner)
	} else {
		replacement, err = c.mint(target.ParentFingerprint, target.Role, passphrase, target.Scope, target.Owner, "rotate")
	}
	if err != nil {
		return domain.AuthorityKey{}, domain.Manifest{}, errors.Wrap(err, "authority: rotate mint replacement")
	}

	target.Status = domain.StatusArchived
	if err := c.archiveKey(target); err != nil {
		return domain.AuthorityKey{}, domain.Manifest{}, err
	}

	eventAt := c.clock.Now()
	for i := range descendants {
		descendants[i].Status = domain.StatusRevoked
		if err := c.vault.PutKey(descendants[i]); err != nil {
			return domain.AuthorityKey{}, domain.Manifest{}, errors.Wrapf(err, "authority: rotate revoke %s", descendants[i].Fingerprint.ShortPrefix(12))
		}
		c.Lock(descendants[i].Fingerprint)
	}

	manifest, err := c.buildManifest("rotation", target, descendants, "", eventAt)
	if err != nil {
		return domain.AuthorityKey{}, domain.Manifest{}, err
	}
	ref, err := c.vault.ManifestRef(manifest)
	if err != nil {
		return domain.AuthorityKey{}, domain.Manifest{}, errors.Wrap(err, "authority: rotate manifest ref")
	}
	for _, d := range descendants {
		if err := c.vault.PutTombstone(domain.Tombstone{
			Fingerprint: d.Fingerprint,
			RevokedAt:   eventAt,
			Reason:      "ancestor-rotated",
			ManifestRef: ref,
		}); err != nil {
			return domain.AuthorityKey{}, domain.Manifest{}, errors.Wrap(err, "authority: rotate store tombstone")
		}
	}
	if _, err := c.vault.PutManifest(manifest); err != nil {
		return domain.AuthorityKey{}, domain.Manifest{}, errors.Wrap(err, "authority: rotate store manifest")
	}

	c.log.Info("authority key rotated",
		zap.String("old_fingerprint", string(targetFP)),
		zap.String("new_fingerprint", string(replacement.Fingerprint)),
		zap.Int("descendants_revoked", len(descendants)),
	)
	return replacement, manifest, nil
}
