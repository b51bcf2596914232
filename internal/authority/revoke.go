package authority

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/padlokk/ignition/internal/domain"
)

// Revoke permanently retires targetFP and its whole subtree: the target
// and every transitive descendant are marked Revoked in place and their
// fingerprints tombstoned against ever being re-registered. No replacement
// is minted; the still-Active parent can issue new keys afterwards. The
// revoked records stay in keys/ so later lookups see an inactive parent
// rather than a hole in the hierarchy. The Skull cannot be revoked
// (ErrCannotRevokeRoot): revocation severs a subtree from the authority
// above it, and the root has nothing above it — rotating it is the only
// way to replace a compromised root.
func (c *Chain) Revoke(targetFP domain.Fingerprint, reason string) (domain.Manifest, error) {
	target, err := c.vault.GetKey(targetFP)
	if err != nil {
		return domain.Manifest{}, errors.Wrapf(err, "authority: revoke %s", targetFP.ShortPrefix(12))
	}
	if target.Role == domain.RoleSkull {
		return domain.Manifest{}, ErrCannotRevokeRoot
	}
	if target.Status != domain.StatusActive {
		return domain.Manifest{}, ErrNotActive
	}

	descendants, err := c.dependentKeys(targetFP)
	if err != nil {
		return domain.Manifest{}, errors.Wrap(err, "authority: revoke dependents")
	}

	eventAt := c.clock.Now()
	target.Status = domain.StatusRevoked
	if err := c.vault.PutKey(target); err != nil {
		return domain.Manifest{}, errors.Wrap(err, "authority: revoke store target")
	}
	c.Lock(target.Fingerprint)
	for i := range descendants {
		descendants[i].Status = domain.StatusRevoked
		if err := c.vault.PutKey(descendants[i]); err != nil {
			return domain.Manifest{}, errors.Wrapf(err, "authority: revoke %s", descendants[i].Fingerprint.ShortPrefix(12))
		}
		c.Lock(descendants[i].Fingerprint)
	}

	manifest, err := c.buildManifest("revocation", target, descendants, reason, eventAt)
	if err != nil {
		return domain.Manifest{}, err
	}
	ref, err := c.vault.ManifestRef(manifest)
	if err != nil {
		return domain.Manifest{}, errors.Wrap(err, "authority: revoke manifest ref")
	}
	for _, k := range append([]domain.AuthorityKey{target}, descendants...) {
		if err := c.vault.PutTombstone(domain.Tombstone{
			Fingerprint: k.Fingerprint,
			RevokedAt:   eventAt,
			Reason:      reason,
			ManifestRef: ref,
		}); err != nil {
			return domain.Manifest{}, errors.Wrap(err, "authority: revoke store tombstone")
		}
	}
	if _, err := c.vault.PutManifest(manifest); err != nil {
		return domain.Manifest{}, errors.Wrap(err, "authority: revoke store manifest")
	}

	c.log.Info("authority key revoked",
		zap.String("fingerprint", string(targetFP)),
		zap.String("reason", reason),
		zap.Int("descendants_revoked", len(descendants)),
	)
	return manifest, nil
}
