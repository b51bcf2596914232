package authority

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/padlokk/ignition/internal/domain"
	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/keymaterial"
	"github.com/padlokk/ignition/internal/policy"
	"github.com/padlokk/ignition/internal/proof"
	"github.com/padlokk/ignition/internal/vault"
)

// Bootstrap mints the chain's root Skull key. There is no parent to issue
// it an authority claim, and it issues no subject receipt of its own — the
// one exception to the claim/receipt invariant every other role carries.
func (c *Chain) Bootstrap(passphrase string, scope map[string]string, owner string) (domain.AuthorityKey, error) {
	if err := c.bundle.ValidatePassphrase(passphrase, domain.RoleSkull); err != nil {
		return domain.AuthorityKey{}, err
	}
	draft := policy.NewDraft(domain.RoleSkull, scope, owner)
	if err := c.bundle.ApplyKeyDefaults(draft); err != nil {
		return domain.AuthorityKey{}, err
	}
	if err := c.bundle.ValidateKey(draft); err != nil {
		return domain.AuthorityKey{}, err
	}

	pub, priv, err := keymaterial.GenerateKeypair()
	if err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: bootstrap keygen")
	}
	fp := domain.Fingerprint(keymaterial.Fingerprint(pub))
	if err := c.rejectTombstoned(fp); err != nil {
		return domain.AuthorityKey{}, err
	}

	key := types.AuthorityKey{
		Fingerprint: fp,
		Role:        domain.RoleSkull,
		PublicKey:   append([]byte(nil), pub...),
		CreatedAt:   c.clock.Now(),
		ExpiresAt:   draft.ExpiresAt,
		Status:      domain.StatusActive,
		Scope:       draft.Scope,
		Owner:       draft.Owner,
	}

	wrapped, err := c.wrapPrivate(key, priv, passphrase)
	if err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: bootstrap wrap")
	}
	key.Private = types.PrivateMaterial{Wrapped: wrapped}

	if err := c.vault.PutKey(key); err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: bootstrap store")
	}

	c.mu.Lock()
	c.unlocked[fp] = newUnlockedSigner(priv, pub)
	c.mu.Unlock()

	c.log.Info("authority key bootstrapped", zap.String("fingerprint", string(fp)), zap.String("role", string(domain.RoleSkull)))
	return key.Clone(), nil
}

// Create mints a new key under parentFP, whose private key signs the
// child's authority claim. An ignition-tier parentFP must already be
// unlocked (via Unlock or a prior Create/Bootstrap in this process); a
// Master/Repo parent is loaded on demand. passphrase is required for
// ignition-tier roles (Skull never reaches here; Ignition, Distro) and
// rejected for Master/Repo.
func (c *Chain) Create(parentFP domain.Fingerprint, role domain.KeyRole, passphrase string) (domain.AuthorityKey, error) {
	return c.CreateWithMetadata(parentFP, role, passphrase, nil, "")
}

// CreateWithMetadata is Create plus scope/owner metadata, split out so the
// domain.AuthorityService signature Create satisfies stays narrow while the
// CLI and tests can still set scope and owner at mint time.
func (c *Chain) CreateWithMetadata(
	parentFP domain.Fingerprint,
	role domain.KeyRole,
	passphrase string,
	scope map[string]string,
	owner string,
) (domain.AuthorityKey, error) {
	return c.mint(parentFP, role, passphrase, scope, owner, "create")
}

// mint is the shared key-creation pipeline behind Create and Rotate.
// action ("create" or "rotate") prefixes the authority claim's purpose, so
// a claim records whether it was issued for a fresh key or a rotation
// replacement.
func (c *Chain) mint(
	parentFP domain.Fingerprint,
	role domain.KeyRole,
	passphrase string,
	scope map[string]string,
	owner string,
	action string,
) (domain.AuthorityKey, error) {
	if !role.Valid() {
		return domain.AuthorityKey{}, types.ErrInvalidRole{Role: role}
	}
	parent, err := c.vault.GetKey(parentFP)
	if err != nil {
		return domain.AuthorityKey{}, errors.Wrapf(err, "authority: create under %s", parentFP.ShortPrefix(12))
	}
	if parent.Status != domain.StatusActive {
		return domain.AuthorityKey{}, ErrNotActive
	}
	if !domain.LegalChild(parent.Role, role) {
		return domain.AuthorityKey{}, ErrIllegalEdge
	}

	draft := policy.NewDraft(role, scope, owner)
	if err := c.bundle.ApplyKeyDefaults(draft); err != nil {
		return domain.AuthorityKey{}, err
	}
	if err := c.bundle.ValidateKey(draft); err != nil {
		return domain.AuthorityKey{}, err
	}

	if role.IsIgnitionTier() {
		if passphrase == "" {
			return domain.AuthorityKey{}, ErrPassphraseRequired
		}
		if err := c.bundle.ValidatePassphrase(passphrase, role); err != nil {
			return domain.AuthorityKey{}, err
		}
	} else if passphrase != "" {
		return domain.AuthorityKey{}, ErrPassphraseNotAllowed
	}

	parentSigner, parentPub, err := c.signerFor(parentFP)
	if err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: create needs parent unlocked")
	}

	pub, priv, err := keymaterial.GenerateKeypair()
	if err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: create keygen")
	}
	fp := domain.Fingerprint(keymaterial.Fingerprint(pub))
	if err := c.rejectTombstoned(fp); err != nil {
		return domain.AuthorityKey{}, err
	}

	key := types.AuthorityKey{
		Fingerprint:       fp,
		Role:              role,
		ParentFingerprint: parentFP,
		PublicKey:         append([]byte(nil), pub...),
		CreatedAt:         c.clock.Now(),
		ExpiresAt:         draft.ExpiresAt,
		Status:            domain.StatusActive,
		Scope:             draft.Scope,
		Owner:             draft.Owner,
	}

	if role.IsIgnitionTier() {
		wrapped, err := c.wrapPrivate(key, priv, passphrase)
		if err != nil {
			return domain.AuthorityKey{}, errors.Wrap(err, "authority: create wrap")
		}
		key.Private = types.PrivateMaterial{Wrapped: wrapped}
	} else {
		key.Private = types.PrivateMaterial{Raw: append([]byte(nil), priv...)}
	}

	// Both proofs are signed up front and their vault paths precomputed, so
	// the key record (which carries the refs inline) can be the first
	// artifact written; the proofs land immediately after.
	purpose := action + "-" + string(role)
	receiptPurpose := "receipt-" + string(role)
	validity := c.proofValidity()
	claimBundle, err := proof.SignAuthorityClaim(c.clock, parentSigner, parentPub, parentFP, fp, purpose, validity)
	if err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: sign claim")
	}
	receiptBundle, err := proof.IssueSubjectReceipt(c.clock, priv, pub, fp, parentFP, validity)
	if err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: sign receipt")
	}
	if key.ClaimProofRef, err = c.vault.ProofRef(parentFP, purpose, claimBundle); err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: claim ref")
	}
	if key.ReceiptProofRef, err = c.vault.ProofRef(parentFP, receiptPurpose, receiptBundle); err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: receipt ref")
	}

	if err := c.vault.PutKey(key); err != nil {
		if errors.Is(err, vault.ErrFingerprintPoisoned) {
			return domain.AuthorityKey{}, err
		}
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: create store")
	}
	if _, err := c.vault.PutProof(parentFP, purpose, claimBundle); err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: store claim")
	}
	if _, err := c.vault.PutProof(parentFP, receiptPurpose, receiptBundle); err != nil {
		return domain.AuthorityKey{}, errors.Wrap(err, "authority: store receipt")
	}

	c.mu.Lock()
	c.unlocked[fp] = newUnlockedSigner(priv, pub)
	c.mu.Unlock()

	if role == domain.RoleDistro && c.recipients != nil {
		if err := c.recipients.RecordRecipient(fp, pub); err != nil {
			c.log.Warn("recipient record failed", zap.String("fingerprint", string(fp)), zap.Error(err))
		}
	}

	c.log.Info("authority key created",
		zap.String("fingerprint", string(fp)),
		zap.String("role", string(role)),
		zap.String("parent", string(parentFP)),
	)
	return key.Clone(), nil
}

// wrapPrivate copies priv (so the caller's in-process signer survives
// keymaterial.Wrap zeroing its own plaintext argument) and seals it under
// passphrase.
func (c *Chain) wrapPrivate(key types.AuthorityKey, priv ed25519.PrivateKey, passphrase string) (*types.WrappedPayload, error) {
	aad, err := wrapAAD(key)
	if err != nil {
		return nil, err
	}
	plainCopy := append([]byte(nil), priv...)
	return keymaterial.Wrap(passphrase, plainCopy, aad, c.cfg.KDFParams())
}

func (c *Chain) rejectTombstoned(fp domain.Fingerprint) error {
	_, tombstoned, err := c.vault.IsTombstoned(fp)
	if err != nil {
		return errors.Wrap(err, "authority: tombstone check")
	}
	if tombstoned {
		return vault.ErrFingerprintPoisoned
	}
	return nil
}
