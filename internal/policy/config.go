package policy

import (
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/padlokk/ignition/internal/domain/types"
)

// Config is the shape of metadata/policy.toml: expiration overrides per
// role and passphrase parameters. Absence of the file means built-in
// defaults apply.
type Config struct {
	Expiration ExpirationConfig `toml:"expiration"`
	Passphrase PassphraseConfig `toml:"passphrase"`
	Proof      ProofConfig      `toml:"proof"`
}

type ExpirationConfig struct {
	IgnitionDays    int     `toml:"ignition_days"`
	DistroDays      int     `toml:"distro_days"`
	WarningFraction float64 `toml:"warning_fraction"`
}

type PassphraseConfig struct {
	MinLength         int      `toml:"min_length"`
	MinDiversity      int      `toml:"min_diversity"`
	BannedWords       []string `toml:"banned_words,omitempty"`
	Argon2MemoryKiB   uint32   `toml:"argon2_memory_kib"`
	Argon2Time        uint32   `toml:"argon2_time"`
	Argon2Parallelism uint8    `toml:"argon2_parallelism"`
}

type ProofConfig struct {
	DefaultValidityHours int `toml:"default_validity_hours"`
	GraceWindowSeconds   int `toml:"grace_window_seconds"`
}

// DefaultConfig returns the built-in defaults: 30/7 day ignition/distro
// expirations, a 20% warning window, Argon2id
// memory=64MiB/time=3/parallelism=1, 12-char/3-class passphrases, and a
// 24h proof validity with zero clock-skew grace.
func DefaultConfig() Config {
	return Config{
		Expiration: ExpirationConfig{IgnitionDays: 30, DistroDays: 7, WarningFraction: 0.20},
		Passphrase: PassphraseConfig{
			MinLength: 12, MinDiversity: 3,
			Argon2MemoryKiB: 64 * 1024, Argon2Time: 3, Argon2Parallelism: 1,
		},
		Proof: ProofConfig{DefaultValidityHours: 24, GraceWindowSeconds: 0},
	}
}

// LoadConfig parses raw TOML bytes into a Config. Callers pass the bytes
// read from metadata/policy.toml via the vault store; empty input (such as
// a missing file) yields DefaultConfig, and fields the file omits keep
// their defaults.
func LoadConfig(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal serializes cfg back to TOML for metadata/policy.toml.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// KDFParams derives Argon2id cost parameters from the config (salt is
// filled in per-wrap by keymaterial.Wrap).
func (c Config) KDFParams() types.KDFParams {
	return types.KDFParams{
		MemoryKiB:   c.Passphrase.Argon2MemoryKiB,
		Time:        c.Passphrase.Argon2Time,
		Parallelism: c.Passphrase.Argon2Parallelism,
	}
}

// BuildBundle constructs the built-in policy bundle from cfg, registering
// expiration defaults before passphrase strength.
func BuildBundle(cfg Config) *Bundle {
	exp := NewExpirationDefaults()
	exp.IgnitionLifetime = daysToDuration(cfg.Expiration.IgnitionDays)
	exp.DistroLifetime = daysToDuration(cfg.Expiration.DistroDays)
	exp.WarningFraction = cfg.Expiration.WarningFraction

	pass := NewPassphraseStrength()
	pass.MinLength = cfg.Passphrase.MinLength
	pass.MinDiversity = cfg.Passphrase.MinDiversity
	for _, w := range cfg.Passphrase.BannedWords {
		pass.BannedSet[w] = struct{}{}
	}

	return NewBundle(exp, pass)
}

func daysToDuration(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
