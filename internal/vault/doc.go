// Package vault provides durable, atomic, tamper-evident persistence for
// keys, proofs, manifests, tombstones and policy.
//
// Every record is written temp-file-then-rename with fsync on both the
// written file and its parent directory, stray *.tmp files are swept on
// open, and an OS-level advisory lock (internal/vault/lock.go, via
// github.com/gofrs/flock) guards the single-writer/multi-reader model.
// All methods satisfy github.com/padlokk/ignition/internal/domain.VaultStore.
package vault
