package vault

import "path/filepath"

// ResolveRoot is a pure function of the environment: it prefers
// XDG_DATA_HOME/ignition, falls back to HOME/.local/share/ignition, and
// finally to a local ./.ignition-data development fallback if neither is
// set. It reads nothing itself; callers pass a getenv func (usually
// os.Getenv) so the resolution rule stays testable without touching real
// environment state.
func ResolveRoot(getenv func(string) string) string {
	if dataHome := getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "ignition")
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share", "ignition")
	}
	return filepath.Join(".", ".ignition-data")
}
