package vault

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 25 * time.Millisecond

// acquireExclusive takes the OS-level exclusive lock on <root>/.lock for
// the duration of a mutating operation. It blocks up to timeout, after
// which it returns ErrLockTimeout.
func acquireExclusive(root string, timeout time.Duration) (*flock.Flock, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	fl := flock.New(lockPath(root))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, ErrLockTimeout
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockTimeout
	}
	return fl, nil
}

// acquireShared takes the OS-level shared lock for a read-only operation.
func acquireShared(root string, timeout time.Duration) (*flock.Flock, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	fl := flock.New(lockPath(root))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ok, err := fl.TryRLockContext(ctx, lockRetryDelay)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, ErrLockTimeout
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockTimeout
	}
	return fl, nil
}

func release(fl *flock.Flock) {
	_ = fl.Unlock()
	_ = fl.Close()
}
