package authority

import (
	"time"

	"github.com/pkg/errors"

	"github.com/padlokk/ignition/internal/domain"
	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/proof"
)

// VerifyChain walks fp up to the Skull root. At every link it requires the
// key to be Active and unexpired, then verifies the authority claim the
// parent signed for that child and the subject receipt the child signed
// for its parent. It stops at the first failure: a revoked descendant
// surfaces as ErrNotActive, an archived ancestor (removed from keys/ on
// rotation) as a missing-record error.
func (c *Chain) VerifyChain(fp domain.Fingerprint) error {
	cur, err := c.vault.GetKey(fp)
	if err != nil {
		return errors.Wrapf(err, "authority: verify_chain %s", fp.ShortPrefix(12))
	}
	grace := c.graceWindow()
	now := c.clock.Now()
	if err := checkLive(cur, now, grace); err != nil {
		return err
	}

	for cur.Role != domain.RoleSkull {
		parent, err := c.vault.GetKey(cur.ParentFingerprint)
		if err != nil {
			return errors.Wrapf(err, "authority: verify_chain ancestor %s", cur.ParentFingerprint.ShortPrefix(12))
		}
		if err := checkLive(parent, now, grace); err != nil {
			return err
		}

		claim, err := c.vault.GetProof(cur.ClaimProofRef)
		if err != nil {
			return errors.Wrap(err, "authority: load claim proof")
		}
		if err := proof.Verify(c.clock, claim, proof.VerifyOptions{
			ExpectedSigner:   parent.PublicKey,
			ExpectedParentFP: parent.Fingerprint,
			ExpectedChildFP:  cur.Fingerprint,
			GraceWindow:      grace,
		}); err != nil {
			return errors.Wrapf(err, "authority: claim invalid for %s", cur.Fingerprint.ShortPrefix(12))
		}

		receipt, err := c.vault.GetProof(cur.ReceiptProofRef)
		if err != nil {
			return errors.Wrap(err, "authority: load receipt proof")
		}
		if err := proof.Verify(c.clock, receipt, proof.VerifyOptions{
			ExpectedSigner:   cur.PublicKey,
			ExpectedParentFP: parent.Fingerprint,
			ExpectedChildFP:  cur.Fingerprint,
			GraceWindow:      grace,
		}); err != nil {
			return errors.Wrapf(err, "authority: receipt invalid for %s", cur.Fingerprint.ShortPrefix(12))
		}

		cur = parent
	}
	return nil
}

// checkLive requires a chain link to be Active and, when it carries an
// expiry, still inside it (plus the configured clock-skew grace).
func checkLive(k types.AuthorityKey, now time.Time, grace time.Duration) error {
	if k.Status != domain.StatusActive {
		return errors.Wrapf(ErrNotActive, "authority: %s is %s", k.Fingerprint.ShortPrefix(12), k.Status)
	}
	if k.ExpiresAt != nil && now.After(k.ExpiresAt.Add(grace)) {
		return errors.Wrapf(ErrKeyExpired, "authority: %s expired %s", k.Fingerprint.ShortPrefix(12), k.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// Dependents returns the fingerprints of every transitive descendant of
// fp, in breadth-first discovery order.
func (c *Chain) Dependents(fp domain.Fingerprint) ([]domain.Fingerprint, error) {
	keys, err := c.dependentKeys(fp)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Fingerprint, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Fingerprint)
	}
	return out, nil
}

func (c *Chain) dependentKeys(fp domain.Fingerprint) ([]types.AuthorityKey, error) {
	all, err := c.vault.ListKeys("")
	if err != nil {
		return nil, errors.Wrap(err, "authority: list keys")
	}
	childrenOf := make(map[domain.Fingerprint][]types.AuthorityKey, len(all))
	for _, k := range all {
		if k.ParentFingerprint == "" {
			continue
		}
		childrenOf[k.ParentFingerprint] = append(childrenOf[k.ParentFingerprint], k)
	}

	var out []types.AuthorityKey
	queue := []domain.Fingerprint{fp}
	for len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]
		for _, child := range childrenOf[head] {
			out = append(out, child)
			queue = append(queue, child.Fingerprint)
		}
	}
	return out, nil
}

// List returns every key of roleFilter, or of every role when roleFilter
// is empty, with private material stripped: List is a read surface for
// operators and the CLI, not a signer recovery path.
func (c *Chain) List(roleFilter domain.KeyRole) ([]domain.AuthorityKey, error) {
	keys, err := c.vault.ListKeys(roleFilter)
	if err != nil {
		return nil, errors.Wrap(err, "authority: list")
	}
	out := make([]domain.AuthorityKey, len(keys))
	for i, k := range keys {
		out[i] = stripPrivate(k)
	}
	return out, nil
}

func stripPrivate(k types.AuthorityKey) types.AuthorityKey {
	out := k.Clone()
	out.Private = types.PrivateMaterial{}
	return out
}

// Status summarizes the whole chain: per-role counts, keys entering their
// expiry warning window, proofs past expiry, and tombstones on record.
func (c *Chain) Status() (domain.ChainHealth, error) {
	keys, err := c.vault.ListKeys("")
	if err != nil {
		return domain.ChainHealth{}, errors.Wrap(err, "authority: status list keys")
	}
	tombstones, err := c.vault.ListTombstones()
	if err != nil {
		return domain.ChainHealth{}, errors.Wrap(err, "authority: status list tombstones")
	}

	now := c.clock.Now()
	health := domain.ChainHealth{
		Counts:            map[domain.KeyRole]int{},
		PendingTombstones: len(tombstones),
	}

	for _, k := range keys {
		health.Counts[k.Role]++
		if k.Status != domain.StatusActive {
			continue
		}
		if k.ExpiresAt != nil && k.ExpiresAt.Sub(now) <= c.warningWindow(k.Role) {
			health.ExpiringSoon = append(health.ExpiringSoon, k.Fingerprint)
		}
		if stale, err := c.hasStaleProof(k, now); err == nil && stale {
			health.StaleProofs = append(health.StaleProofs, k.Fingerprint)
		}
	}
	return health, nil
}

func (c *Chain) warningWindow(role domain.KeyRole) time.Duration {
	var lifetimeDays int
	switch role {
	case domain.RoleIgnition:
		lifetimeDays = c.cfg.Expiration.IgnitionDays
	case domain.RoleDistro:
		lifetimeDays = c.cfg.Expiration.DistroDays
	default:
		return 0
	}
	lifetime := time.Duration(lifetimeDays) * 24 * time.Hour
	return time.Duration(float64(lifetime) * c.cfg.Expiration.WarningFraction)
}

func (c *Chain) hasStaleProof(k types.AuthorityKey, now time.Time) (bool, error) {
	if k.ClaimProofRef == "" {
		return false, nil
	}
	claim, err := c.vault.GetProof(k.ClaimProofRef)
	if err != nil {
		return false, err
	}
	return now.After(claim.ExpiresAt.Add(c.graceWindow())), nil
}
