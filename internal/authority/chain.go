package authority

import (
	"crypto/ed25519"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/padlokk/ignition/internal/codec"
	"github.com/padlokk/ignition/internal/domain"
	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/keymaterial"
	"github.com/padlokk/ignition/internal/policy"
	"github.com/padlokk/ignition/internal/proof"
)

// Compile-time assertion that Chain implements domain.AuthorityService.
var _ domain.AuthorityService = (*Chain)(nil)

// Chain is the authority core: the vault-backed operation set for Create,
// Rotate, Revoke, VerifyChain, Dependents, List and Status. A Chain caches
// unwrapped private signing material in memory for the lifetime of the
// process (never on disk); operations that need a parent's or a key's own
// signature require that fingerprint to have been unlocked first via
// Unlock; a signer unlocked once stays usable for the rest of the
// process, so a cascade never re-prompts mid-operation.
type Chain struct {
	vault      domain.VaultStore
	bundle     *policy.Bundle
	cfg        policy.Config
	clock      proof.Clock
	recipients domain.KeyGenerator
	log        *zap.Logger

	mu       sync.Mutex
	unlocked map[domain.Fingerprint]unlockedSigner
}

type unlockedSigner struct {
	priv types.Ed25519Private
	pub  types.Ed25519Public
}

func newUnlockedSigner(priv ed25519.PrivateKey, pub ed25519.PublicKey) unlockedSigner {
	var s unlockedSigner
	copy(s.priv[:], priv)
	copy(s.pub[:], pub)
	return s
}

func (s unlockedSigner) keys() (ed25519.PrivateKey, ed25519.PublicKey) {
	return ed25519.PrivateKey(s.priv.Slice()), ed25519.PublicKey(s.pub.Slice())
}

// New returns a Chain backed by store, enforcing cfg's policy bundle,
// recording Distro-tier recipients through gen, and logging key creation
// and cascade events to log. A nil log falls back to zap.NewNop().
func New(store domain.VaultStore, cfg policy.Config, gen domain.KeyGenerator, log *zap.Logger) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain{
		vault:      store,
		bundle:     policy.BuildBundle(cfg),
		cfg:        cfg,
		clock:      proof.SystemClock,
		recipients: gen,
		log:        log,
		unlocked:   make(map[domain.Fingerprint]unlockedSigner),
	}
}

// Unlock decrypts fp's private material (if it is ignition-tier, using
// passphrase; otherwise passphrase is ignored) and caches the resulting
// signer in memory so Create/Rotate/Revoke can sign on fp's behalf.
func (c *Chain) Unlock(fp domain.Fingerprint, passphrase string) error {
	key, err := c.vault.GetKey(fp)
	if err != nil {
		return errors.Wrapf(err, "authority: unlock %s", fp.ShortPrefix(12))
	}
	priv, pub, err := c.recoverSigner(key, passphrase)
	if err != nil {
		return errors.Wrapf(err, "authority: unlock %s", fp.ShortPrefix(12))
	}
	c.mu.Lock()
	c.unlocked[fp] = newUnlockedSigner(priv, pub)
	c.mu.Unlock()
	return nil
}

// Lock discards fp's cached signer, if any.
func (c *Chain) Lock(fp domain.Fingerprint) {
	c.mu.Lock()
	delete(c.unlocked, fp)
	c.mu.Unlock()
}

func (c *Chain) recoverSigner(key types.AuthorityKey, passphrase string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	if !key.Role.IsIgnitionTier() {
		return ed25519.PrivateKey(append([]byte(nil), key.Private.Raw...)), ed25519.PublicKey(key.PublicKey), nil
	}
	if key.Private.Wrapped == nil {
		return nil, nil, keymaterial.ErrBadPassphrase
	}
	aad, err := wrapAAD(key)
	if err != nil {
		return nil, nil, err
	}
	raw, err := keymaterial.Unwrap(passphrase, aad, *key.Private.Wrapped)
	if err != nil {
		return nil, nil, err
	}
	return ed25519.PrivateKey(raw), ed25519.PublicKey(key.PublicKey), nil
}

// signerFor returns a cached signer for fp, auto-loading Master/Repo keys
// (which need no passphrase) on first use. Ignition-tier keys must already
// have been Unlock-ed.
func (c *Chain) signerFor(fp domain.Fingerprint) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	c.mu.Lock()
	s, ok := c.unlocked[fp]
	c.mu.Unlock()
	if ok {
		priv, pub := s.keys()
		return priv, pub, nil
	}

	key, err := c.vault.GetKey(fp)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "authority: load signer %s", fp.ShortPrefix(12))
	}
	if key.Role.IsIgnitionTier() {
		return nil, nil, ErrLocked
	}
	priv, pub, err := c.recoverSigner(key, "")
	if err != nil {
		return nil, nil, err
	}
	c.mu.Lock()
	c.unlocked[fp] = newUnlockedSigner(priv, pub)
	c.mu.Unlock()
	return priv, pub, nil
}

// wrapAAD binds a wrapped private key's AEAD envelope to its fingerprint,
// role and creation time, so a ciphertext cannot be silently reattached to
// a different key record.
func wrapAAD(key types.AuthorityKey) ([]byte, error) {
	return codec.Canonicalize(struct {
		FP        types.Fingerprint `json:"fingerprint"`
		Role      types.KeyRole     `json:"role"`
		CreatedAt time.Time         `json:"created_at"`
	}{key.Fingerprint, key.Role, key.CreatedAt})
}

func (c *Chain) proofValidity() time.Duration {
	if c.cfg.Proof.DefaultValidityHours <= 0 {
		return proof.DefaultValidity
	}
	return time.Duration(c.cfg.Proof.DefaultValidityHours) * time.Hour
}

func (c *Chain) graceWindow() time.Duration {
	return time.Duration(c.cfg.Proof.GraceWindowSeconds) * time.Second
}
