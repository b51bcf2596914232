package types

import "time"

// PrivateMaterial holds a key's private half: either raw bytes (Master,
// Repo) or a WrappedPayload envelope (Skull, Ignition, Distro). Exactly one
// of the two fields is populated for any given AuthorityKey.
type PrivateMaterial struct {
	Raw     []byte          `json:"raw,omitempty"`
	Wrapped *WrappedPayload `json:"wrapped,omitempty"`
}

// KDFParams carries the Argon2id cost parameters and salt used to derive a
// key-encryption key from a passphrase.
type KDFParams struct {
	MemoryKiB   uint32 `json:"memory_kib"`
	Time        uint32 `json:"time"`
	Parallelism uint8  `json:"parallelism"`
	Salt        []byte `json:"salt"`
}

// WrappedPayload is the Argon2id+AEAD envelope around a private key's raw
// bytes. AEADNonce and Ciphertext are the authoritative proof of a correct
// passphrase; PassphraseCheck is an optional fast-fail digest only.
type WrappedPayload struct {
	KDF             string    `json:"kdf"`
	KDFParams       KDFParams `json:"kdf_params"`
	AEAD            string    `json:"aead"`
	AEADNonce       []byte    `json:"aead_nonce"`
	Ciphertext      []byte    `json:"ciphertext"`
	PassphraseCheck []byte    `json:"passphrase_check,omitempty"`
}

// AuthorityKey is one node of the trust hierarchy.
type AuthorityKey struct {
	Fingerprint       Fingerprint       `json:"fingerprint"`
	Role              KeyRole           `json:"role"`
	ParentFingerprint Fingerprint       `json:"parent_fingerprint,omitempty"`
	PublicKey         []byte            `json:"public_key"`
	Private           PrivateMaterial   `json:"private"`
	CreatedAt         time.Time         `json:"created_at"`
	ExpiresAt         *time.Time        `json:"expires_at,omitempty"`
	Status            KeyStatus         `json:"status"`
	Scope             map[string]string `json:"scope,omitempty"`
	Owner             string            `json:"owner,omitempty"`

	// ClaimProofRef and ReceiptProofRef are vault-relative paths (as returned
	// by VaultStore.PutProof) to this key's authority claim, signed by its
	// parent, and its subject receipt, signed by itself. Skull has neither;
	// every other role has both once Create completes.
	ClaimProofRef   string `json:"claim_proof_ref,omitempty"`
	ReceiptProofRef string `json:"receipt_proof_ref,omitempty"`
}

// Clone returns a deep-enough copy of k safe for independent mutation of
// scope and slice fields.
func (k AuthorityKey) Clone() AuthorityKey {
	out := k
	if k.PublicKey != nil {
		out.PublicKey = append([]byte(nil), k.PublicKey...)
	}
	if k.Private.Raw != nil {
		out.Private.Raw = append([]byte(nil), k.Private.Raw...)
	}
	if k.ExpiresAt != nil {
		t := *k.ExpiresAt
		out.ExpiresAt = &t
	}
	if k.Scope != nil {
		out.Scope = make(map[string]string, len(k.Scope))
		for sk, sv := range k.Scope {
			out.Scope[sk] = sv
		}
	}
	return out
}
