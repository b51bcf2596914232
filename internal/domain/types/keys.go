package types

// Ed25519Public is the public half of an authority signing key. Its
// SHA-256 digest is the key's Fingerprint.
type Ed25519Public [32]byte

// Slice returns a copy of the key as a []byte.
func (p Ed25519Public) Slice() []byte { return p[:] }

// Ed25519Private is the private half of an authority signing key. It signs
// authority claims, subject receipts and archive records; it never signs file
// content.
type Ed25519Private [64]byte

// Slice returns a copy of the key as a []byte.
func (k Ed25519Private) Slice() []byte { return k[:] }

// X25519Public is the encryption-side public key recorded for a
// Distro-tier fingerprint, the unit an Age recipients file is built from.
type X25519Public [32]byte

// Slice returns a copy of the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is the encryption-side private key paired with an
// X25519Public. The authority core generates it but never uses it; it is
// held for the external tool that performs file encryption.
type X25519Private [32]byte

// Slice returns a copy of the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }
