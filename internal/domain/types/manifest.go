package types

import "time"

// ManifestEvent describes what triggered a manifest: a rotation or a
// revocation, and who started it.
type ManifestEvent struct {
	ID                string      `json:"id"`
	Type              string      `json:"type"`
	ParentFingerprint Fingerprint `json:"parent_fingerprint"`
	InitiatedAt       time.Time   `json:"initiated_at"`
	InitiatedBy       string      `json:"initiated_by"`
	Reason            string      `json:"reason,omitempty"`
}

// ManifestDigest records how Value was computed: the SHA-256 of the
// canonical manifest body with this object itself elided.
type ManifestDigest struct {
	Algorithm    string `json:"algorithm"`
	Value        string `json:"value"`
	ManifestBody string `json:"manifest_body"`
}

// ManifestChild is one affected descendant (or the target itself) listed in
// a rotation/revocation manifest.
type ManifestChild struct {
	Fingerprint   Fingerprint       `json:"fingerprint"`
	Role          KeyRole           `json:"role"`
	Status        KeyStatus         `json:"status"`
	CiphertextMD5 string            `json:"ciphertext_md5,omitempty"`
	Scope         map[string]string `json:"scope,omitempty"`
	IssuedAt      time.Time         `json:"issued_at"`
	RevokedAt     *time.Time        `json:"revoked_at,omitempty"`
}

// Manifest is the immutable record of a rotation or revocation event,
// enumerating every descendant it affected.
type Manifest struct {
	SchemaVersion int             `json:"schema_version"`
	Event         ManifestEvent   `json:"event"`
	Digest        ManifestDigest  `json:"digest"`
	Children      []ManifestChild `json:"children"`
}

// ArchiveRecord is the opaque container written under metadata/archive/ when
// a key is rotated (revoked keys stay in keys/): the prior key record plus
// its parent's signature over that record's digest (a Skull signs its own),
// so a later audit can confirm the archived record was not substituted
// after the fact.
type ArchiveRecord struct {
	Key             AuthorityKey `json:"key"`
	Digest          HexBytes     `json:"digest"`
	Signature       []byte       `json:"signature"`
	SignerPublicKey []byte       `json:"signer_public_key"`
	ArchivedAt      time.Time    `json:"archived_at"`
}

// Tombstone permanently poisons a fingerprint against re-registration.
type Tombstone struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	RevokedAt   time.Time   `json:"revoked_at"`
	Reason      string      `json:"reason,omitempty"`
	ManifestRef string      `json:"manifest_ref"`
}

// ChainHealth summarizes the state of the whole chain for the status
// operation: per-role counts, keys entering their expiry warning window,
// keys whose authority claim is past expiry, and the number of tombstones
// on record.
type ChainHealth struct {
	Counts            map[KeyRole]int `json:"counts"`
	ExpiringSoon      []Fingerprint   `json:"expiring_soon,omitempty"`
	StaleProofs       []Fingerprint   `json:"stale_proofs,omitempty"`
	PendingTombstones int             `json:"pending_tombstones"`
}
