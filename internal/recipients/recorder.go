// Package recipients implements the narrow KeyGenerator contract: recording
// the recipient set associated with a Distro-tier key's scope, without ever
// touching file ciphertext. The Age tool that consumes the recorded set
// stays a separate collaborator outside this module; what it needs from the
// core is a bundle of public material per scope, which is all this package
// assembles.
package recipients

import (
	"crypto/rand"
	"sync"

	"golang.org/x/crypto/curve25519"

	"github.com/padlokk/ignition/internal/domain"
	"github.com/padlokk/ignition/internal/domain/types"
)

// Compile-time assertion that Recorder implements domain.KeyGenerator.
var _ domain.KeyGenerator = (*Recorder)(nil)

// recipientKey is the X25519 material recorded for a Distro-tier
// fingerprint. The private half never leaves this package; it exists so a
// future Age-recipients-file writer can derive shared secrets without the
// authority core having to understand the Age wire format itself.
type recipientKey struct {
	priv types.X25519Private
	pub  types.X25519Public
}

// Recorder is an in-memory, mutex-guarded implementation of
// domain.KeyGenerator. A vault-backed implementation would persist the same
// shape under metadata/; this one is enough for the core's own tests and for
// callers that only need the recorded set within a single process lifetime.
//
// RecordRecipient is deliberately blind to the Ed25519 signing key it is
// handed: the value recorded for Age-style file recipients is a freshly
// generated X25519 encryption key, distinct from the Ed25519 key that signs
// authority claims and subject receipts. The signing key's public bytes are
// not stored; the fingerprint is the association index.
type Recorder struct {
	mu      sync.Mutex
	byFP    map[types.Fingerprint]recipientKey
	byScope map[string][][]byte
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		byFP:    make(map[types.Fingerprint]recipientKey),
		byScope: make(map[string][][]byte),
	}
}

// RecordRecipient generates a fresh X25519 recipient keypair for fp and
// indexes it under fp, the fingerprint the authority chain already minted
// for the Distro-tier key. signingPub is accepted but not stored.
func (r *Recorder) RecordRecipient(fp types.Fingerprint, signingPub []byte) error {
	var priv types.X25519Private
	if _, err := rand.Read(priv[:]); err != nil {
		return err
	}
	clamp(&priv)

	pubSlice, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return err
	}
	var pub types.X25519Public
	copy(pub[:], pubSlice)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byFP[fp] = recipientKey{priv: priv, pub: pub}
	return nil
}

// Recipients returns every recorded recipient public key tagged under scope.
func (r *Recorder) Recipients(scope string) ([][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]byte(nil), r.byScope[scope]...), nil
}

// Tag associates an already-recorded fingerprint's recipient public key with
// a scope label (e.g. a repo_id), so Recipients can group keys the way an
// Age recipients file groups them per repository.
func (r *Recorder) Tag(scope string, fp types.Fingerprint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byFP[fp]
	if !ok {
		return ErrUnknownFingerprint
	}
	r.byScope[scope] = append(r.byScope[scope], key.pub.Slice())
	return nil
}

// RecipientPublicKey returns the recorded X25519 public key for fp, for
// callers (tests, a future Age-recipients writer) that need the key itself
// rather than a scope-grouped slice.
func (r *Recorder) RecipientPublicKey(fp types.Fingerprint) (types.X25519Public, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byFP[fp]
	return key.pub, ok
}

// clamp applies the RFC 7748 clamping rule to an X25519 scalar.
func clamp(k *types.X25519Private) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
