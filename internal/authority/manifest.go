package authority

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/padlokk/ignition/internal/codec"
	"github.com/padlokk/ignition/internal/domain/types"
)

// buildManifest assembles and digests a cascade manifest: the target plus
// every descendant the cascade swept up, each carrying the status the
// cascade just moved it to (Archived for a rotated target, Revoked for
// everything a revocation touched). Children are sorted by (role,
// fingerprint) so their order does not depend on discovery order; the
// event ID and timestamps still differ between runs. The digest is
// computed over the canonical body with the
// digest field itself elided.
func (c *Chain) buildManifest(eventType string, target types.AuthorityKey, descendants []types.AuthorityKey, reason string, eventAt time.Time) (types.Manifest, error) {
	children := make([]types.ManifestChild, 0, len(descendants)+1)
	children = append(children, manifestChildOf(target, eventAt))
	for _, d := range descendants {
		children = append(children, manifestChildOf(d, eventAt))
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].Role != children[j].Role {
			return children[i].Role < children[j].Role
		}
		return children[i].Fingerprint < children[j].Fingerprint
	})

	m := types.Manifest{
		SchemaVersion: 1,
		Event: types.ManifestEvent{
			ID:                uuid.New().String(),
			Type:              eventType,
			ParentFingerprint: target.ParentFingerprint,
			InitiatedAt:       eventAt,
			InitiatedBy:       "ignitectl",
			Reason:            reason,
		},
		Children: children,
	}

	bodyDigest, err := codec.Digest(struct {
		SchemaVersion int                   `json:"schema_version"`
		Event         types.ManifestEvent   `json:"event"`
		Children      []types.ManifestChild `json:"children"`
	}{m.SchemaVersion, m.Event, m.Children})
	if err != nil {
		return types.Manifest{}, errors.Wrap(err, "authority: digest manifest")
	}
	m.Digest = types.ManifestDigest{
		Algorithm:    "SHA256",
		Value:        hex.EncodeToString(bodyDigest[:]),
		ManifestBody: "canonical",
	}
	return m, nil
}

// manifestChildOf describes k as it stands after the cascade moved it to
// its terminal status. RevokedAt is the cascade's own timestamp, not the
// key's creation time: every revoked descendant died at the same instant
// the target did.
func manifestChildOf(k types.AuthorityKey, eventAt time.Time) types.ManifestChild {
	child := types.ManifestChild{
		Fingerprint: k.Fingerprint,
		Role:        k.Role,
		Status:      k.Status,
		Scope:       k.Scope,
		IssuedAt:    k.CreatedAt,
	}
	if ciphertext := ciphertextOf(k); len(ciphertext) > 0 {
		sum := md5.Sum(ciphertext)
		child.CiphertextMD5 = hex.EncodeToString(sum[:])
	}
	if k.Status == types.StatusRevoked {
		child.RevokedAt = &eventAt
	}
	return child
}

func ciphertextOf(k types.AuthorityKey) []byte {
	if k.Private.Wrapped != nil {
		return k.Private.Wrapped.Ciphertext
	}
	return k.Private.Raw
}
