package domain

import (
	interfaces "github.com/padlokk/ignition/internal/domain/interfaces"
	types "github.com/padlokk/ignition/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact
// imports across the core.
type (
	Fingerprint     = types.Fingerprint
	KeyRole         = types.KeyRole
	KeyStatus       = types.KeyStatus
	PrivateMaterial = types.PrivateMaterial
	KDFParams       = types.KDFParams
	WrappedPayload  = types.WrappedPayload
	AuthorityKey    = types.AuthorityKey
	AuthorityClaim  = types.AuthorityClaim
	SubjectReceipt  = types.SubjectReceipt
	ProofKind       = types.ProofKind
	ProofBundle     = types.ProofBundle
	ManifestEvent   = types.ManifestEvent
	ManifestDigest  = types.ManifestDigest
	ManifestChild   = types.ManifestChild
	Manifest        = types.Manifest
	Tombstone       = types.Tombstone
	ArchiveRecord   = types.ArchiveRecord
	ChainHealth     = types.ChainHealth
	HexBytes        = types.HexBytes
	Ed25519Public   = types.Ed25519Public
	Ed25519Private  = types.Ed25519Private
	X25519Public    = types.X25519Public
	X25519Private   = types.X25519Private
)

const (
	RoleSkull    = types.RoleSkull
	RoleMaster   = types.RoleMaster
	RoleRepo     = types.RoleRepo
	RoleIgnition = types.RoleIgnition
	RoleDistro   = types.RoleDistro

	StatusActive   = types.StatusActive
	StatusArchived = types.StatusArchived
	StatusRevoked  = types.StatusRevoked

	ProofAuthorityClaim = types.ProofAuthorityClaim
	ProofSubjectReceipt = types.ProofSubjectReceipt
)

// LegalChild reports whether child is the one legal child role for parent.
var LegalChild = types.LegalChild

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	VaultStore       = interfaces.VaultStore
	AuthorityService = interfaces.AuthorityService
	KeyGenerator     = interfaces.KeyGenerator
)
