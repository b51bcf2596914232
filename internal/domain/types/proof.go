package types

import (
	"encoding/hex"
	"encoding/json"
	"time"
)

// HexBytes marshals as a lowercase hex string, used for digests;
// signatures and public keys keep Go's default []byte-as-base64 encoding.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// AuthorityClaim is a signed statement by a parent key asserting control
// over a specific child fingerprint.
type AuthorityClaim struct {
	SchemaVersion int         `json:"schema_version"`
	ParentFP      Fingerprint `json:"parent_fp"`
	ChildFP       Fingerprint `json:"child_fp"`
	IssuedAt      time.Time   `json:"issued_at"`
	Purpose       string      `json:"purpose"`
	Nonce         []byte      `json:"nonce"`
}

// SubjectReceipt is a signed acknowledgment by a child that it recognizes
// its parent.
type SubjectReceipt struct {
	SchemaVersion  int         `json:"schema_version"`
	ChildFP        Fingerprint `json:"child_fp"`
	ParentFP       Fingerprint `json:"parent_fp"`
	AcknowledgedAt time.Time   `json:"acknowledged_at"`
	Nonce          []byte      `json:"nonce"`
}

// ProofKind distinguishes which payload a ProofBundle carries.
type ProofKind string

const (
	ProofAuthorityClaim ProofKind = "authority_claim"
	ProofSubjectReceipt ProofKind = "subject_receipt"
)

// ProofBundle is the signed envelope around either an AuthorityClaim or a
// SubjectReceipt. Exactly one of Claim/Receipt is populated, matching Kind.
type ProofBundle struct {
	Kind      ProofKind       `json:"kind"`
	Claim     *AuthorityClaim `json:"claim,omitempty"`
	Receipt   *SubjectReceipt `json:"receipt,omitempty"`
	Digest    HexBytes        `json:"digest"`
	Signature []byte          `json:"signature"`
	PublicKey []byte          `json:"public_key"`
	ExpiresAt time.Time       `json:"expires_at"`
}
