package policy

import (
	"strings"
	"time"
	"unicode"

	"github.com/padlokk/ignition/internal/domain/types"
)

// ExpirationDefaults fills in expiry when a draft omits it: ignition
// tiers get ~30 days, distro ~7 days, repo/master/skull are unbounded
// unless the caller already set an override. WarningFraction is the
// fraction of a key's lifetime (default 20%) before expiry that status
// queries should start flagging the key.
type ExpirationDefaults struct {
	Clock            func() time.Time
	IgnitionLifetime time.Duration
	DistroLifetime   time.Duration
	WarningFraction  float64
}

// NewExpirationDefaults returns the built-in expiration policy: 30-day
// ignition keys, 7-day distro keys, 20% warning window.
func NewExpirationDefaults() *ExpirationDefaults {
	return &ExpirationDefaults{
		Clock:            func() time.Time { return time.Now().UTC() },
		IgnitionLifetime: 30 * 24 * time.Hour,
		DistroLifetime:   7 * 24 * time.Hour,
		WarningFraction:  0.20,
	}
}

func (p *ExpirationDefaults) Name() string { return "expiration-defaults" }

func (p *ExpirationDefaults) ApplyKeyDefaults(draft *Draft) error {
	var lifetime time.Duration
	switch draft.Role {
	case types.RoleIgnition:
		lifetime = p.IgnitionLifetime
	case types.RoleDistro:
		lifetime = p.DistroLifetime
	default:
		return nil // unbounded unless already overridden
	}
	draft.SetExpiry(p.Clock().Add(lifetime))
	return nil
}

func (p *ExpirationDefaults) ValidateKey(draft *Draft) error { return nil }

func (p *ExpirationDefaults) ValidatePassphrase(passphrase string, role types.KeyRole) error {
	return nil
}

// PassphraseStrength enforces the strength rule: length >= 12, diversity
// of 3 of {upper, lower, digit, symbol} character classes, not in a
// banned-common-passwords set, and no shell-injection byte patterns.
type PassphraseStrength struct {
	MinLength     int
	MinDiversity  int
	BannedSet     map[string]struct{}
	InjectionSubs []string
}

// NewPassphraseStrength returns the built-in passphrase policy with a
// small seed banned-password set; deployments extend the set through
// metadata/policy.toml rather than a core constant.
func NewPassphraseStrength() *PassphraseStrength {
	banned := map[string]struct{}{}
	for _, p := range []string{
		"password", "password123", "123456", "12345678", "qwerty",
		"letmein", "admin", "welcome", "iloveyou", "changeme",
	} {
		banned[p] = struct{}{}
	}
	return &PassphraseStrength{
		MinLength:    12,
		MinDiversity: 3,
		BannedSet:    banned,
		InjectionSubs: []string{
			"$(", "`", ";", "&", "|", "\n", "\r", "\x00",
		},
	}
}

func (p *PassphraseStrength) Name() string { return "passphrase-strength" }

func (p *PassphraseStrength) ApplyKeyDefaults(draft *Draft) error { return nil }
func (p *PassphraseStrength) ValidateKey(draft *Draft) error      { return nil }

func (p *PassphraseStrength) ValidatePassphrase(passphrase string, role types.KeyRole) error {
	for _, sub := range p.InjectionSubs {
		if strings.Contains(passphrase, sub) {
			return ErrInjectionBlocked
		}
	}
	if len(passphrase) < p.MinLength {
		return ErrPassphraseWeak("length<12")
	}
	if _, banned := p.BannedSet[strings.ToLower(passphrase)]; banned {
		return ErrPassphraseWeak("banned-common-password")
	}
	if diversity(passphrase) < p.MinDiversity {
		return ErrPassphraseWeak("diversity<3")
	}
	return nil
}

func diversity(s string) int {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSymbol = true
		}
	}
	count := 0
	for _, has := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if has {
			count++
		}
	}
	return count
}
