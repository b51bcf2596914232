package proof

import (
	"crypto/ed25519"
	"crypto/rand"
	"time"

	"github.com/padlokk/ignition/internal/codec"
	"github.com/padlokk/ignition/internal/domain/types"
)

// DefaultValidity is the proof lifetime applied when the caller does not
// override it via policy.
const DefaultValidity = 24 * time.Hour

const schemaVersion = 1

// Clock is the test seam for issued_at/expires_at and expiry checks.
type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the production Clock backed by time.Now.
var SystemClock Clock = systemClock{}

func newNonce() ([]byte, error) {
	n := make([]byte, 16)
	if _, err := rand.Read(n); err != nil {
		return nil, err
	}
	return n, nil
}

// SignAuthorityClaim constructs and signs an AuthorityClaim asserting that
// parentFP controls childFP, with a fresh 128-bit nonce and an expiry of
// issued_at + validity.
func SignAuthorityClaim(
	clock Clock,
	parentSigner ed25519.PrivateKey,
	parentPub ed25519.PublicKey,
	parentFP, childFP types.Fingerprint,
	purpose string,
	validity time.Duration,
) (types.ProofBundle, error) {
	nonce, err := newNonce()
	if err != nil {
		return types.ProofBundle{}, err
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	issuedAt := clock.Now()
	claim := &types.AuthorityClaim{
		SchemaVersion: schemaVersion,
		ParentFP:      parentFP,
		ChildFP:       childFP,
		IssuedAt:      issuedAt,
		Purpose:       purpose,
		Nonce:         nonce,
	}
	return signBundle(types.ProofAuthorityClaim, claim, nil, parentSigner, parentPub, issuedAt.Add(validity))
}

// IssueSubjectReceipt constructs and signs a SubjectReceipt acknowledging
// childFP's parent.
func IssueSubjectReceipt(
	clock Clock,
	childSigner ed25519.PrivateKey,
	childPub ed25519.PublicKey,
	childFP, parentFP types.Fingerprint,
	validity time.Duration,
) (types.ProofBundle, error) {
	nonce, err := newNonce()
	if err != nil {
		return types.ProofBundle{}, err
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	issuedAt := clock.Now()
	receipt := &types.SubjectReceipt{
		SchemaVersion:  schemaVersion,
		ChildFP:        childFP,
		ParentFP:       parentFP,
		AcknowledgedAt: issuedAt,
		Nonce:          nonce,
	}
	return signBundle(types.ProofSubjectReceipt, nil, receipt, childSigner, childPub, issuedAt.Add(validity))
}

func signBundle(
	kind types.ProofKind,
	claim *types.AuthorityClaim,
	receipt *types.SubjectReceipt,
	signer ed25519.PrivateKey,
	signerPub ed25519.PublicKey,
	expiresAt time.Time,
) (types.ProofBundle, error) {
	var payload any
	if claim != nil {
		payload = claim
	} else {
		payload = receipt
	}
	digest, err := codec.Digest(payload)
	if err != nil {
		return types.ProofBundle{}, err
	}
	sig := ed25519.Sign(signer, digest[:])
	return types.ProofBundle{
		Kind:      kind,
		Claim:     claim,
		Receipt:   receipt,
		Digest:    append([]byte(nil), digest[:]...),
		Signature: sig,
		PublicKey: append([]byte(nil), signerPub...),
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyOptions carries the caller-asserted bindings verify checks against.
type VerifyOptions struct {
	ExpectedSigner   ed25519.PublicKey
	ExpectedParentFP types.Fingerprint
	ExpectedChildFP  types.Fingerprint
	GraceWindow      time.Duration // never negative; default 0
}

// Verify recomputes the canonical digest, verifies the Ed25519 signature,
// checks expiry against clock (with GraceWindow), and checks the embedded
// public key and fingerprints match what the caller asserts.
func Verify(clock Clock, bundle types.ProofBundle, opts VerifyOptions) error {
	var payload any
	var actualParentFP, actualChildFP types.Fingerprint
	switch bundle.Kind {
	case types.ProofAuthorityClaim:
		if bundle.Claim == nil {
			return ErrTampered
		}
		payload = bundle.Claim
		actualParentFP, actualChildFP = bundle.Claim.ParentFP, bundle.Claim.ChildFP
	case types.ProofSubjectReceipt:
		if bundle.Receipt == nil {
			return ErrTampered
		}
		payload = bundle.Receipt
		actualParentFP, actualChildFP = bundle.Receipt.ParentFP, bundle.Receipt.ChildFP
	default:
		return ErrTampered
	}

	digest, err := codec.Digest(payload)
	if err != nil {
		return ErrTampered
	}
	if len(bundle.Digest) != len(digest) || !bytesEqual(bundle.Digest, digest[:]) {
		return ErrTampered
	}

	if opts.ExpectedParentFP != "" && opts.ExpectedParentFP != actualParentFP {
		return ErrFingerprintMismatch
	}
	if opts.ExpectedChildFP != "" && opts.ExpectedChildFP != actualChildFP {
		return ErrFingerprintMismatch
	}
	if opts.ExpectedSigner != nil && !bytesEqual(bundle.PublicKey, opts.ExpectedSigner) {
		return ErrFingerprintMismatch
	}

	if !ed25519.Verify(ed25519.PublicKey(bundle.PublicKey), digest[:], bundle.Signature) {
		return ErrSignatureInvalid
	}

	grace := opts.GraceWindow
	if grace < 0 {
		grace = 0
	}
	if clock.Now().After(bundle.ExpiresAt.Add(grace)) {
		return ErrExpired
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
