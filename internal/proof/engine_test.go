package proof_test

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/proof"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func TestSignAndVerify_AuthorityClaim_OK(t *testing.T) {
	parentPub, parentPriv, _ := ed25519.GenerateKey(nil)
	clock := fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	bundle, err := proof.SignAuthorityClaim(clock, parentPriv, parentPub, "SHA256:parent", "SHA256:child", "create-ignition", 0)
	if err != nil {
		t.Fatalf("SignAuthorityClaim: %v", err)
	}

	err = proof.Verify(clock, bundle, proof.VerifyOptions{
		ExpectedSigner:   parentPub,
		ExpectedParentFP: "SHA256:parent",
		ExpectedChildFP:  "SHA256:child",
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestSignAndVerify_SubjectReceipt_OK(t *testing.T) {
	childPub, childPriv, _ := ed25519.GenerateKey(nil)
	clock := fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	bundle, err := proof.IssueSubjectReceipt(clock, childPriv, childPub, "SHA256:child", "SHA256:parent", 0)
	if err != nil {
		t.Fatalf("IssueSubjectReceipt: %v", err)
	}

	if err := proof.Verify(clock, bundle, proof.VerifyOptions{ExpectedSigner: childPub}); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerify_ExpiredFails(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	issuedAt := fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	bundle, err := proof.SignAuthorityClaim(issuedAt, priv, pub, "p", "c", "create", time.Hour)
	if err != nil {
		t.Fatalf("SignAuthorityClaim: %v", err)
	}

	later := fixedClock{t: issuedAt.t.Add(2 * time.Hour)}
	if err := proof.Verify(later, bundle, proof.VerifyOptions{ExpectedSigner: pub}); err != proof.ErrExpired {
		t.Fatalf("got %v, want ErrExpired", err)
	}
}

func TestVerify_GraceWindowAllowsSmallSkew(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	issuedAt := fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	bundle, err := proof.SignAuthorityClaim(issuedAt, priv, pub, "p", "c", "create", time.Hour)
	if err != nil {
		t.Fatalf("SignAuthorityClaim: %v", err)
	}

	slightlyLate := fixedClock{t: issuedAt.t.Add(time.Hour + 30*time.Second)}
	err = proof.Verify(slightlyLate, bundle, proof.VerifyOptions{ExpectedSigner: pub, GraceWindow: time.Minute})
	if err != nil {
		t.Fatalf("Verify with grace window: %v", err)
	}
}

func TestVerify_SignerMismatchFails(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	otherPub, _, _ := ed25519.GenerateKey(nil)
	clock := fixedClock{t: time.Now().UTC()}

	bundle, err := proof.SignAuthorityClaim(clock, priv, pub, "p", "c", "create", time.Hour)
	if err != nil {
		t.Fatalf("SignAuthorityClaim: %v", err)
	}

	if err := proof.Verify(clock, bundle, proof.VerifyOptions{ExpectedSigner: otherPub}); err != proof.ErrFingerprintMismatch {
		t.Fatalf("got %v, want ErrFingerprintMismatch", err)
	}
}

func TestVerify_FingerprintMismatchFails(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	clock := fixedClock{t: time.Now().UTC()}

	bundle, err := proof.SignAuthorityClaim(clock, priv, pub, "p", "c", "create", time.Hour)
	if err != nil {
		t.Fatalf("SignAuthorityClaim: %v", err)
	}

	err = proof.Verify(clock, bundle, proof.VerifyOptions{ExpectedSigner: pub, ExpectedChildFP: "not-c"})
	if err != proof.ErrFingerprintMismatch {
		t.Fatalf("got %v, want ErrFingerprintMismatch", err)
	}
}

func TestVerify_TamperedDigestFails(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	clock := fixedClock{t: time.Now().UTC()}

	bundle, err := proof.SignAuthorityClaim(clock, priv, pub, "p", "c", "create", time.Hour)
	if err != nil {
		t.Fatalf("SignAuthorityClaim: %v", err)
	}

	bundle.Claim.ChildFP = types.Fingerprint("tampered-child")

	if err := proof.Verify(clock, bundle, proof.VerifyOptions{ExpectedSigner: pub}); err != proof.ErrTampered {
		t.Fatalf("got %v, want ErrTampered", err)
	}
}

func TestVerify_BadSignatureFails(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	clock := fixedClock{t: time.Now().UTC()}

	bundle, err := proof.SignAuthorityClaim(clock, priv, pub, "p", "c", "create", time.Hour)
	if err != nil {
		t.Fatalf("SignAuthorityClaim: %v", err)
	}

	bundle.Signature[0] ^= 0xFF

	if err := proof.Verify(clock, bundle, proof.VerifyOptions{ExpectedSigner: pub}); err != proof.ErrSignatureInvalid {
		t.Fatalf("got %v, want ErrSignatureInvalid", err)
	}
}

func TestSignAuthorityClaim_DefaultValidityApplied(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	clock := fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	bundle, err := proof.SignAuthorityClaim(clock, priv, pub, "p", "c", "create", 0)
	if err != nil {
		t.Fatalf("SignAuthorityClaim: %v", err)
	}
	want := clock.t.Add(proof.DefaultValidity)
	if !bundle.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at = %v, want %v", bundle.ExpiresAt, want)
	}
}
