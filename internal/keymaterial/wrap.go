package keymaterial

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/util/memzero"
)

const (
	KDFArgon2id           = "argon2id"
	AEADXChaCha20Poly1305 = "xchacha20poly1305"

	SaltBytes = 16
	// passphraseCheckLen is short on purpose: it only needs to fail fast on
	// a wrong passphrase before the heavier AEAD open runs.
	passphraseCheckLen = 16
)

// DefaultKDFParams returns the Argon2id cost defaults: memory=64 MiB,
// time=3, parallelism=1.
func DefaultKDFParams() types.KDFParams {
	return types.KDFParams{MemoryKiB: 64 * 1024, Time: 3, Parallelism: 1}
}

func deriveKEK(passphrase string, salt []byte, params types.KDFParams) []byte {
	return argon2.IDKey([]byte(passphrase), salt, params.Time, params.MemoryKiB, params.Parallelism, chacha20poly1305.KeySize)
}

func derivePassphraseCheck(passphrase string, salt []byte, params types.KDFParams) []byte {
	return argon2.IDKey([]byte("check:"+passphrase), salt, params.Time, params.MemoryKiB, params.Parallelism, passphraseCheckLen)
}

// Wrap encrypts plaintext (a raw private key) under a passphrase-derived
// key. aad binds the envelope to the
// key's fingerprint, role and creation time so a ciphertext cannot be
// silently reattached to a different key record. Wrap zeroes plaintext
// before returning, success or failure.
func Wrap(passphrase string, plaintext, aad []byte, params types.KDFParams) (*types.WrappedPayload, error) {
	defer memzero.Zero(plaintext)

	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	params.Salt = salt

	kek := deriveKEK(passphrase, salt, params)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.NewX(kek)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, aad)

	return &types.WrappedPayload{
		KDF:             KDFArgon2id,
		KDFParams:       params,
		AEAD:            AEADXChaCha20Poly1305,
		AEADNonce:       nonce,
		Ciphertext:      ciphertext,
		PassphraseCheck: derivePassphraseCheck(passphrase, salt, params),
	}, nil
}

// Unwrap reverses Wrap, returning the raw private key bytes. A wrong
// passphrase is detected cheaply via PassphraseCheck when present, then
// authoritatively via the AEAD tag; both failure paths return
// ErrBadPassphrase.
func Unwrap(passphrase string, aad []byte, payload types.WrappedPayload) ([]byte, error) {
	if payload.KDF != KDFArgon2id {
		return nil, ErrUnknownKDF
	}
	if payload.AEAD != AEADXChaCha20Poly1305 {
		return nil, ErrUnknownAEAD
	}
	if len(payload.KDFParams.Salt) != SaltBytes {
		return nil, ErrBadSaltSize
	}

	if len(payload.PassphraseCheck) > 0 {
		want := derivePassphraseCheck(passphrase, payload.KDFParams.Salt, payload.KDFParams)
		if subtle.ConstantTimeCompare(want, payload.PassphraseCheck) != 1 {
			return nil, ErrBadPassphrase
		}
	}

	kek := deriveKEK(passphrase, payload.KDFParams.Salt, payload.KDFParams)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.NewX(kek)
	if err != nil {
		return nil, err
	}
	if len(payload.AEADNonce) != aead.NonceSize() {
		return nil, ErrBadNonceSize
	}

	plaintext, err := aead.Open(nil, payload.AEADNonce, payload.Ciphertext, aad)
	if err != nil {
		return nil, ErrBadPassphrase
	}
	return plaintext, nil
}
