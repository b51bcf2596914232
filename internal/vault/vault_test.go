package vault_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/padlokk/ignition/internal/domain/types"
	"github.com/padlokk/ignition/internal/vault"
)

func testKey(role types.KeyRole, fp types.Fingerprint, parent types.Fingerprint) types.AuthorityKey {
	return types.AuthorityKey{
		Fingerprint:       fp,
		Role:              role,
		ParentFingerprint: parent,
		PublicKey:         []byte{1, 2, 3, 4},
		Private:           types.PrivateMaterial{Raw: []byte{5, 6, 7, 8}},
		CreatedAt:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:            types.StatusActive,
	}
}

func TestPutGetKey_RoundTrip(t *testing.T) {
	v, err := vault.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := testKey(types.RoleMaster, "SHA256:abc123", "SHA256:skullroot")

	if err := v.PutKey(key); err != nil {
		t.Fatalf("PutKey: %v", err)
	}

	got, err := v.GetKey(key.Fingerprint)
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if got.Fingerprint != key.Fingerprint || got.Role != key.Role {
		t.Fatalf("round-tripped key mismatch: got %+v, want %+v", got, key)
	}
}

func TestGetKey_NotFound(t *testing.T) {
	v, err := vault.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := v.GetKey("SHA256:doesnotexist"); err != vault.ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestPutKey_RejectsTombstonedFingerprint(t *testing.T) {
	v, err := vault.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fp := types.Fingerprint("SHA256:poisoned")
	if err := v.PutTombstone(types.Tombstone{
		Fingerprint: fp,
		RevokedAt:   time.Now().UTC(),
		ManifestRef: "manifests/none",
	}); err != nil {
		t.Fatalf("PutTombstone: %v", err)
	}

	key := testKey(types.RoleDistro, fp, "SHA256:parent")
	if err := v.PutKey(key); err != vault.ErrFingerprintPoisoned {
		t.Fatalf("got %v, want ErrFingerprintPoisoned", err)
	}
}

func TestIsTombstoned(t *testing.T) {
	v, err := vault.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fp := types.Fingerprint("SHA256:tomb")
	if _, found, err := v.IsTombstoned(fp); err != nil || found {
		t.Fatalf("expected not found before PutTombstone, got found=%v err=%v", found, err)
	}
	if err := v.PutTombstone(types.Tombstone{Fingerprint: fp, RevokedAt: time.Now().UTC(), ManifestRef: "x"}); err != nil {
		t.Fatalf("PutTombstone: %v", err)
	}
	tomb, found, err := v.IsTombstoned(fp)
	if err != nil || !found {
		t.Fatalf("expected found after PutTombstone, got found=%v err=%v", found, err)
	}
	if tomb.Fingerprint != fp {
		t.Fatalf("tombstone fingerprint = %q, want %q", tomb.Fingerprint, fp)
	}
}

func TestListKeys_FiltersByRole(t *testing.T) {
	v, err := vault.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := v.PutKey(testKey(types.RoleMaster, "SHA256:m1", "SHA256:skull")); err != nil {
		t.Fatalf("PutKey: %v", err)
	}
	if err := v.PutKey(testKey(types.RoleRepo, "SHA256:r1", "SHA256:m1")); err != nil {
		t.Fatalf("PutKey: %v", err)
	}

	masters, err := v.ListKeys(types.RoleMaster)
	if err != nil {
		t.Fatalf("ListKeys: %v", err)
	}
	if len(masters) != 1 || masters[0].Fingerprint != "SHA256:m1" {
		t.Fatalf("ListKeys(master) = %+v, want exactly the one master key", masters)
	}

	all, err := v.ListKeys("")
	if err != nil {
		t.Fatalf("ListKeys(all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListKeys(\"\") returned %d keys, want 2", len(all))
	}
}

func TestGetKey_DetectsTamperedRecord(t *testing.T) {
	root := t.TempDir()
	v, err := vault.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := testKey(types.RoleMaster, "SHA256:tamperme", "SHA256:skull")
	if err := v.PutKey(key); err != nil {
		t.Fatalf("PutKey: %v", err)
	}

	var path string
	_ = filepath.Walk(filepath.Join(root, "keys"), func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && filepath.Ext(p) == ".json" {
			path = p
		}
		return nil
	})
	if path == "" {
		t.Fatal("could not locate the persisted key record on disk")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// Break canonical formatting by inserting insignificant whitespace,
	// which readCanonical's VerifyCanonical check must reject.
	tampered := append([]byte(`{ `), b[1:]...)
	if err := os.WriteFile(path, tampered, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := v.GetKey(key.Fingerprint); err != vault.ErrTampered {
		t.Fatalf("got %v, want ErrTampered", err)
	}
}

func TestOpen_SweepsStrayTempFiles(t *testing.T) {
	root := t.TempDir()
	keysDir := filepath.Join(root, "keys", "master", "abcdef")
	if err := os.MkdirAll(keysDir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	stray := filepath.Join(keysDir, "record.json.tmp-XYZ")
	if err := os.WriteFile(stray, []byte("partial"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := vault.Open(root); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := os.Stat(stray); !os.IsNotExist(err) {
		t.Fatalf("expected stray temp file to be swept on Open, stat err = %v", err)
	}
}

func TestPutKey_LockTimeout(t *testing.T) {
	root := t.TempDir()
	v, err := vault.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	v = v.WithLockTimeout(50 * time.Millisecond)

	externalLock := flock.New(filepath.Join(root, ".lock"))
	locked, err := externalLock.TryLock()
	if err != nil || !locked {
		t.Fatalf("failed to take competing lock: locked=%v err=%v", locked, err)
	}
	defer externalLock.Unlock()

	key := testKey(types.RoleMaster, "SHA256:locked", "SHA256:skull")
	if err := v.PutKey(key); err != vault.ErrLockTimeout {
		t.Fatalf("got %v, want ErrLockTimeout", err)
	}
}
