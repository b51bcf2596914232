package policy_test

import (
	"testing"
	"time"

	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/policy"
)

func TestPassphraseStrength_RejectsShort(t *testing.T) {
	p := policy.NewPassphraseStrength()
	if err := p.ValidatePassphrase("Sh0rt!", types.RoleIgnition); err == nil {
		t.Fatal("expected rejection of a passphrase shorter than 12 characters")
	}
}

func TestPassphraseStrength_RejectsLowDiversity(t *testing.T) {
	p := policy.NewPassphraseStrength()
	if err := p.ValidatePassphrase("lowercaseonlylong", types.RoleIgnition); err == nil {
		t.Fatal("expected rejection of a passphrase with only one character class")
	}
}

func TestPassphraseStrength_RejectsBannedPassword(t *testing.T) {
	p := policy.NewPassphraseStrength()
	// Every seed entry is shorter than the default minimum length; lower it so
	// the banned-set check, not the length check, is what rejects.
	p.MinLength = 8
	err := p.ValidatePassphrase("password123", types.RoleIgnition)
	if err == nil || err.Error() != policy.ErrPassphraseWeak("banned-common-password").Error() {
		t.Fatalf("got %v, want rejection of a banned common password", err)
	}
}

func TestPassphraseStrength_RejectsShellInjectionBytes(t *testing.T) {
	p := policy.NewPassphraseStrength()
	cases := []string{
		"Good-Pass123$(whoami)",
		"Good-Pass123`id`",
		"Good-Pass123;rm -rf",
		"Good-Pass123&&ls",
		"Good-Pass123|cat",
	}
	for _, c := range cases {
		if err := p.ValidatePassphrase(c, types.RoleIgnition); err != policy.ErrInjectionBlocked {
			t.Errorf("ValidatePassphrase(%q) = %v, want ErrInjectionBlocked", c, err)
		}
	}
}

func TestPassphraseStrength_AcceptsStrongPassphrase(t *testing.T) {
	p := policy.NewPassphraseStrength()
	if err := p.ValidatePassphrase("Correct-Horse-Battery-9!", types.RoleIgnition); err != nil {
		t.Fatalf("expected strong passphrase to be accepted, got %v", err)
	}
}

func TestExpirationDefaults_IgnitionGetsThirtyDays(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := policy.NewExpirationDefaults()
	p.Clock = func() time.Time { return fixed }

	draft := policy.NewDraft(types.RoleIgnition, nil, "alice")
	if err := p.ApplyKeyDefaults(draft); err != nil {
		t.Fatalf("ApplyKeyDefaults: %v", err)
	}
	if draft.ExpiresAt == nil {
		t.Fatal("expected ExpiresAt to be set for an ignition draft")
	}
	want := fixed.Add(30 * 24 * time.Hour)
	if !draft.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", draft.ExpiresAt, want)
	}
}

func TestExpirationDefaults_DistroGetsSevenDays(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := policy.NewExpirationDefaults()
	p.Clock = func() time.Time { return fixed }

	draft := policy.NewDraft(types.RoleDistro, nil, "alice")
	if err := p.ApplyKeyDefaults(draft); err != nil {
		t.Fatalf("ApplyKeyDefaults: %v", err)
	}
	want := fixed.Add(7 * 24 * time.Hour)
	if draft.ExpiresAt == nil || !draft.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", draft.ExpiresAt, want)
	}
}

func TestExpirationDefaults_RepoIsUnbounded(t *testing.T) {
	p := policy.NewExpirationDefaults()
	draft := policy.NewDraft(types.RoleRepo, nil, "alice")
	if err := p.ApplyKeyDefaults(draft); err != nil {
		t.Fatalf("ApplyKeyDefaults: %v", err)
	}
	if draft.ExpiresAt != nil {
		t.Fatalf("expected repo-tier draft to remain unbounded, got ExpiresAt=%v", draft.ExpiresAt)
	}
}

func TestDraft_SetExpiry_FirstRegistrationWins(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	draft := policy.NewDraft(types.RoleIgnition, nil, "alice")
	draft.SetExpiry(first)
	draft.SetExpiry(second)

	if !draft.ExpiresAt.Equal(first) {
		t.Fatalf("ExpiresAt = %v, want the first-set value %v", draft.ExpiresAt, first)
	}
}

func TestDraft_SetScopeDefault_DoesNotOverwriteExplicitValue(t *testing.T) {
	draft := policy.NewDraft(types.RoleDistro, map[string]string{"env": "prod"}, "alice")
	draft.SetScopeDefault("env", "dev")

	if draft.Scope["env"] != "prod" {
		t.Fatalf("Scope[env] = %q, want unchanged explicit value %q", draft.Scope["env"], "prod")
	}
}

func TestDraft_SetScopeDefault_FirstPolicyWins(t *testing.T) {
	draft := policy.NewDraft(types.RoleDistro, nil, "alice")
	draft.SetScopeDefault("region", "us-east")
	draft.SetScopeDefault("region", "eu-west")

	if draft.Scope["region"] != "us-east" {
		t.Fatalf("Scope[region] = %q, want first-registered value %q", draft.Scope["region"], "us-east")
	}
}

func TestBundle_StopsAtFirstRejection(t *testing.T) {
	bundle := policy.NewBundle(policy.NewPassphraseStrength(), policy.NewExpirationDefaults())
	err := bundle.ValidatePassphrase("short", types.RoleIgnition)
	if err == nil {
		t.Fatal("expected the bundle to surface the passphrase-strength rejection")
	}
}

func TestBundle_AppliesDefaultsInOrder(t *testing.T) {
	bundle := policy.NewBundle(policy.NewExpirationDefaults())
	draft := policy.NewDraft(types.RoleIgnition, nil, "alice")
	if err := bundle.ApplyKeyDefaults(draft); err != nil {
		t.Fatalf("ApplyKeyDefaults: %v", err)
	}
	if draft.ExpiresAt == nil {
		t.Fatal("expected bundle to apply the expiration-defaults policy")
	}
}
