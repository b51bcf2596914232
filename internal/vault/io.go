package vault

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/padlokk/ignition/internal/codec"
)

// writeCanonical serializes v to canonical JSON and writes it atomically:
// temp file in the same directory, fsync the file, rename over the target,
// fsync the parent directory. Partial writes are never visible to readers.
func writeCanonical(path string, v any, mode os.FileMode) error {
	b, err := codec.Canonicalize(v)
	if err != nil {
		return err
	}
	return writeAtomic(path, b, mode)
}

func writeAtomic(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		return err
	}

	dirHandle, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer dirHandle.Close()
	return dirHandle.Sync()
}

// readCanonical reads path, verifies its bytes are already exactly their
// own canonical re-serialization, and unmarshals into out. A missing file
// returns ErrNotFound; a canonical mismatch returns ErrTampered before any
// attempt to interpret the contents as domain data.
func readCanonical(path string, out any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !codec.VerifyCanonical(b) {
		return ErrTampered
	}
	return json.Unmarshal(b, out)
}

// sweepStrayTemp removes leftover *.tmp-* files under root on open: a
// process that died between CreateTemp and Rename leaves no externally
// visible artifact, but the temp file itself should not linger forever.
func sweepStrayTemp(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		if matchTempName(info.Name()) {
			_ = os.Remove(path)
		}
		return nil
	})
}

func matchTempName(name string) bool {
	return strings.Contains(name, ".tmp-")
}
