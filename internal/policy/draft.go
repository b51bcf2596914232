package policy

import (
	"time"

	"github.com/padlokk/ignition/internal/domain/types"
)

// Draft is the in-progress key under construction, passed through
// ApplyKeyDefaults then ValidateKey before a keypair is minted.
type Draft struct {
	Role      types.KeyRole
	ExpiresAt *time.Time
	Scope     map[string]string
	Owner     string
	fieldsSet map[string]bool // tracks which fields a policy has already set
}

// NewDraft returns a Draft ready for the policy bundle.
func NewDraft(role types.KeyRole, scope map[string]string, owner string) *Draft {
	return &Draft{Role: role, Scope: scope, Owner: owner, fieldsSet: map[string]bool{}}
}

// SetExpiry sets ExpiresAt unless an earlier-registered policy already set
// it: first registration wins, and later policies observing a set field
// must not overwrite it.
func (d *Draft) SetExpiry(t time.Time) {
	if d.fieldsSet["expires_at"] {
		return
	}
	d.ExpiresAt = &t
	d.fieldsSet["expires_at"] = true
}

// SetScopeDefault sets Scope[key] unless it is already present or already
// set by an earlier policy.
func (d *Draft) SetScopeDefault(key, value string) {
	field := "scope." + key
	if d.fieldsSet[field] {
		return
	}
	if d.Scope == nil {
		d.Scope = map[string]string{}
	}
	if _, exists := d.Scope[key]; exists {
		d.fieldsSet[field] = true
		return
	}
	d.Scope[key] = value
	d.fieldsSet[field] = true
}
