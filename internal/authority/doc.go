// Package authority implements the chain: the in-memory-keyed, vault-backed
// operation set that mints, rotates, revokes and verifies AuthorityKey
// records across the five-tier hierarchy. It is the one package that wires
// every other internal package together: vault, keymaterial, proof,
// policy, codec and recipients.
package authority
