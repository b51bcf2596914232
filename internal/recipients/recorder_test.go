package recipients_test

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/recipients"
)

func TestRecordRecipient_GeneratesDistinctKeysPerFingerprint(t *testing.T) {
	r := recipients.New()
	signingPubA, _, _ := ed25519.GenerateKey(nil)
	signingPubB, _, _ := ed25519.GenerateKey(nil)

	if err := r.RecordRecipient("SHA256:a", signingPubA); err != nil {
		t.Fatalf("RecordRecipient(a): %v", err)
	}
	if err := r.RecordRecipient("SHA256:b", signingPubB); err != nil {
		t.Fatalf("RecordRecipient(b): %v", err)
	}

	pubA, ok := r.RecipientPublicKey("SHA256:a")
	if !ok {
		t.Fatal("expected a recorded recipient key for fingerprint a")
	}
	pubB, ok := r.RecipientPublicKey("SHA256:b")
	if !ok {
		t.Fatal("expected a recorded recipient key for fingerprint b")
	}

	var zero types.X25519Public
	if pubA == zero || pubB == zero {
		t.Fatal("expected non-zero X25519 public keys")
	}
	if pubA == pubB {
		t.Fatal("expected distinct recipient keys for distinct fingerprints")
	}
	if bytes.Equal(pubA.Slice(), signingPubA) {
		t.Fatal("recipient key must not equal the Ed25519 signing key it was derived alongside")
	}
}

func TestRecipientPublicKey_UnknownFingerprint(t *testing.T) {
	r := recipients.New()
	if _, ok := r.RecipientPublicKey("SHA256:nope"); ok {
		t.Fatal("expected no recipient key for an unrecorded fingerprint")
	}
}

func TestTag_RejectsUnknownFingerprint(t *testing.T) {
	r := recipients.New()
	if err := r.Tag("repo-a", "SHA256:nope"); err != recipients.ErrUnknownFingerprint {
		t.Fatalf("got %v, want ErrUnknownFingerprint", err)
	}
}

func TestTagAndRecipients_GroupsByScope(t *testing.T) {
	r := recipients.New()
	signingPubA, _, _ := ed25519.GenerateKey(nil)
	signingPubB, _, _ := ed25519.GenerateKey(nil)
	signingPubC, _, _ := ed25519.GenerateKey(nil)

	fps := []types.Fingerprint{"SHA256:a", "SHA256:b", "SHA256:c"}
	pubs := [][]byte{signingPubA, signingPubB, signingPubC}
	for i, fp := range fps {
		if err := r.RecordRecipient(fp, pubs[i]); err != nil {
			t.Fatalf("RecordRecipient(%s): %v", fp, err)
		}
	}

	if err := r.Tag("repo-a", fps[0]); err != nil {
		t.Fatalf("Tag(repo-a, a): %v", err)
	}
	if err := r.Tag("repo-a", fps[1]); err != nil {
		t.Fatalf("Tag(repo-a, b): %v", err)
	}
	if err := r.Tag("repo-b", fps[2]); err != nil {
		t.Fatalf("Tag(repo-b, c): %v", err)
	}

	repoA, err := r.Recipients("repo-a")
	if err != nil {
		t.Fatalf("Recipients(repo-a): %v", err)
	}
	if len(repoA) != 2 {
		t.Fatalf("Recipients(repo-a) has %d entries, want 2", len(repoA))
	}

	repoB, err := r.Recipients("repo-b")
	if err != nil {
		t.Fatalf("Recipients(repo-b): %v", err)
	}
	if len(repoB) != 1 {
		t.Fatalf("Recipients(repo-b) has %d entries, want 1", len(repoB))
	}

	empty, err := r.Recipients("repo-unknown")
	if err != nil {
		t.Fatalf("Recipients(repo-unknown): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("Recipients(repo-unknown) = %v, want empty", empty)
	}
}
