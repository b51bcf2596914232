package vault

import (
	"fmt"
	"path/filepath"

	"github.com/padlokk/ignition/internal/domain/types"
)

const shortPrefixLen = 12

func keyPath(root string, role types.KeyRole, fp types.Fingerprint) string {
	short := fp.ShortPrefix(shortPrefixLen)
	return filepath.Join(root, "keys", string(role), short, fmt.Sprintf("%s.json", sanitizeFP(fp)))
}

func keyRoleDir(root string, role types.KeyRole) string {
	return filepath.Join(root, "keys", string(role))
}

func proofPath(root string, parentFP types.Fingerprint, issuedAtUnixNano int64, purpose string) string {
	short := parentFP.ShortPrefix(shortPrefixLen)
	name := fmt.Sprintf("%d_%s.json", issuedAtUnixNano, sanitizeName(purpose))
	return filepath.Join(root, "proofs", short, name)
}

func manifestPath(root string, parentFP types.Fingerprint, timestampUnixNano int64, event string) string {
	short := parentFP.ShortPrefix(shortPrefixLen)
	name := fmt.Sprintf("%d_%s.json", timestampUnixNano, sanitizeName(event))
	return filepath.Join(root, "manifests", short, name)
}

func tombstonePath(root string, fp types.Fingerprint) string {
	return filepath.Join(root, "metadata", "tombstones", sanitizeFP(fp)+".json")
}

func tombstoneDir(root string) string {
	return filepath.Join(root, "metadata", "tombstones")
}

func archiveBundlePath(root string, timestampUnixNano int64, role types.KeyRole) string {
	name := fmt.Sprintf("%d_%s.bundle", timestampUnixNano, string(role))
	return filepath.Join(root, "metadata", "archive", name)
}

func policyPath(root string) string {
	return filepath.Join(root, "metadata", "policy.toml")
}

func lockPath(root string) string {
	return filepath.Join(root, ".lock")
}

// sanitizeFP strips the "SHA256:" marker so fingerprints are filesystem-safe
// filenames without colons.
func sanitizeFP(fp types.Fingerprint) string {
	return sanitizeName(fp.String())
}

func sanitizeName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
