package authority

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/padlokk/ignition/internal/codec"
	"github.com/padlokk/ignition/internal/domain"
	"github.com/padlokk/ignition/internal/domain/types"
)

// archiveKey signs target's canonical digest with the signer appropriate
// for its tier (the parent, for every role but Skull, which has none and
// so attests to its own retirement) and hands the resulting ArchiveRecord
// to the vault, which removes the live keys/ record as it writes the
// bundle under metadata/archive/.
func (c *Chain) archiveKey(target types.AuthorityKey) error {
	signerFP := target.ParentFingerprint
	if target.Role == domain.RoleSkull {
		signerFP = target.Fingerprint
	}
	signerPriv, signerPub, err := c.signerFor(signerFP)
	if err != nil {
		return errors.Wrap(err, "authority: archive needs signer unlocked")
	}

	digest, err := codec.Digest(target)
	if err != nil {
		return errors.Wrap(err, "authority: digest archived key")
	}

	record := types.ArchiveRecord{
		Key:             target,
		Digest:          digest[:],
		Signature:       ed25519.Sign(signerPriv, digest[:]),
		SignerPublicKey: append([]byte(nil), signerPub...),
		ArchivedAt:      c.clock.Now(),
	}
	if err := c.vault.ArchiveKey(record); err != nil {
		return errors.Wrap(err, "authority: archive store")
	}
	c.Lock(target.Fingerprint)
	return nil
}
