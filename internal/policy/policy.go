package policy

import "github.com/padlokk/ignition/internal/domain/types"

// Policy is the three-hook contract every rule implements: defaults at
// mint time, structural validation, and passphrase validation. A concrete
// policy that has nothing to say for a given hook implements it as a no-op
// returning nil / leaving the draft untouched.
type Policy interface {
	Name() string
	ApplyKeyDefaults(draft *Draft) error
	ValidateKey(draft *Draft) error
	ValidatePassphrase(passphrase string, role types.KeyRole) error
}

// Bundle composes policies in deterministic declaration order. A rejection
// from any policy halts further processing and is returned immediately.
type Bundle struct {
	policies []Policy
}

// NewBundle returns a Bundle applying policies in the given order.
func NewBundle(policies ...Policy) *Bundle {
	return &Bundle{policies: policies}
}

// Register appends an additional policy to the bundle's ordering.
func (b *Bundle) Register(p Policy) { b.policies = append(b.policies, p) }

// ApplyKeyDefaults runs every policy's ApplyKeyDefaults hook in order.
func (b *Bundle) ApplyKeyDefaults(draft *Draft) error {
	for _, p := range b.policies {
		if err := p.ApplyKeyDefaults(draft); err != nil {
			return err
		}
	}
	return nil
}

// ValidateKey runs every policy's ValidateKey hook in order, stopping at
// the first failure.
func (b *Bundle) ValidateKey(draft *Draft) error {
	for _, p := range b.policies {
		if err := p.ValidateKey(draft); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePassphrase runs every policy's ValidatePassphrase hook in order,
// stopping at the first failure.
func (b *Bundle) ValidatePassphrase(passphrase string, role types.KeyRole) error {
	for _, p := range b.policies {
		if err := p.ValidatePassphrase(passphrase, role); err != nil {
			return err
		}
	}
	return nil
}
