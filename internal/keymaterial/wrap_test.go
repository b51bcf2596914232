package keymaterial_test

import (
	"bytes"
	"testing"

	"github.com/padlokk/ignition/internal/keymaterial"
)

func TestGenerateKeypair_FingerprintStable(t *testing.T) {
	pub, _, err := keymaterial.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	fp1 := keymaterial.Fingerprint(pub)
	fp2 := keymaterial.Fingerprint(pub)
	if fp1 != fp2 {
		t.Fatal("fingerprint is not a pure function of the public key")
	}
	const prefix = "SHA256:"
	if fp1[:len(prefix)] != prefix {
		t.Fatalf("fingerprint %q missing %q prefix", fp1, prefix)
	}
}

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	_, priv, err := keymaterial.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	plaintext := append([]byte(nil), priv...)
	aad := []byte("aad-binding")
	params := keymaterial.DefaultKDFParams()

	wrapped, err := keymaterial.Wrap("Corr3ct!HorseBatteryStaple", plaintext, aad, params)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if wrapped.Ciphertext == nil {
		t.Fatal("wrapped payload has no ciphertext")
	}

	got, err := keymaterial.Unwrap("Corr3ct!HorseBatteryStaple", aad, *wrapped)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(got, priv) {
		t.Fatal("unwrapped plaintext does not match original private key")
	}
}

func TestUnwrap_WrongPassphraseFails(t *testing.T) {
	_, priv, err := keymaterial.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	plaintext := append([]byte(nil), priv...)
	aad := []byte("aad-binding")

	wrapped, err := keymaterial.Wrap("Corr3ct!HorseBatteryStaple", plaintext, aad, keymaterial.DefaultKDFParams())
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	if _, err := keymaterial.Unwrap("wrong-passphrase-entirely", aad, *wrapped); err != keymaterial.ErrBadPassphrase {
		t.Fatalf("got err %v, want ErrBadPassphrase", err)
	}
}

func TestUnwrap_MismatchedAADFails(t *testing.T) {
	_, priv, err := keymaterial.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	plaintext := append([]byte(nil), priv...)

	wrapped, err := keymaterial.Wrap("Corr3ct!HorseBatteryStaple", plaintext, []byte("aad-one"), keymaterial.DefaultKDFParams())
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	if _, err := keymaterial.Unwrap("Corr3ct!HorseBatteryStaple", []byte("aad-two"), *wrapped); err != keymaterial.ErrBadPassphrase {
		t.Fatalf("got err %v, want ErrBadPassphrase (AEAD tag mismatch)", err)
	}
}

func TestWrap_ZeroesPlaintext(t *testing.T) {
	plaintext := []byte("super secret private key bytes!")
	cp := append([]byte(nil), plaintext...)

	if _, err := keymaterial.Wrap("Corr3ct!HorseBatteryStaple", plaintext, nil, keymaterial.DefaultKDFParams()); err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if bytes.Equal(plaintext, cp) {
		t.Fatal("Wrap did not zero its plaintext argument")
	}
}
