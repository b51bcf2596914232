// Package policy centralizes the defaults and validation rules applied at
// key create-time and validate-time, so business rules are not scattered
// across the authority chain. The built-in policies cover expiration
// defaults and passphrase strength; their ValidateKey hooks accept every
// draft, so no scope-shape rule is enforced. Policies compose into a Bundle applied in
// registration order; the first rejection halts further processing.
//
// The passphrase-strength rule guards length, character-class diversity, a
// banned-common-passwords set, and shell metacharacter sequences, since
// accepted passphrases may later reach external tooling.
package policy
