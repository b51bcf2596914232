package authority

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/padlokk/ignition/internal/codec"
	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/proof"
)

// VerifyProof loads a proof bundle from path (a vault-relative path as
// returned by PutProof, e.g. from an AuthorityKey's ClaimProofRef/
// ReceiptProofRef) and checks it is internally consistent: its canonical
// digest matches the stored one, its Ed25519 signature matches its own
// embedded public key, and it has not expired. It does not require the
// caller to already know which key signed it — VerifyChain is the
// operation that binds a proof to a specific parent/child pair; this one
// is a standalone spot-check of a single bundle.
func (c *Chain) VerifyProof(path string) error {
	bundle, err := c.vault.GetProof(path)
	if err != nil {
		return errors.Wrapf(err, "authority: verify_proof load %s", path)
	}
	return proof.Verify(c.clock, bundle, proof.VerifyOptions{
		ExpectedSigner: ed25519.PublicKey(bundle.PublicKey),
		GraceWindow:    c.graceWindow(),
	})
}

// VerifyManifest loads a manifest from path and recomputes digest.value
// over the canonical body with the digest field elided, which must match
// the stored value exactly.
func (c *Chain) VerifyManifest(path string) error {
	manifest, err := c.vault.GetManifest(path)
	if err != nil {
		return errors.Wrapf(err, "authority: verify_manifest load %s", path)
	}

	bodyDigest, err := codec.Digest(struct {
		SchemaVersion int                   `json:"schema_version"`
		Event         types.ManifestEvent   `json:"event"`
		Children      []types.ManifestChild `json:"children"`
	}{manifest.SchemaVersion, manifest.Event, manifest.Children})
	if err != nil {
		return errors.Wrap(err, "authority: verify_manifest digest")
	}
	if hex.EncodeToString(bodyDigest[:]) != manifest.Digest.Value {
		return ErrManifestTampered
	}
	return nil
}
