package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

const (
	lockFileName = ".winsnap.lock"
	// AutoSaveLockName guards against a second auto-save daemon.
	AutoSaveLockName = ".autosave.lock"
	lockPoll         = 100 * time.Millisecond
)

// FileOperationLock implements domain.OperationLock with an advisory lock on
// a file in the data directory, shared by the CLI and the auto-save daemon.
type FileOperationLock struct {
	path string
}

// NewFileOperationLock creates a lock at <dataDir>/.winsnap.lock.
func NewFileOperationLock(dataDir string) *FileOperationLock {
	return NewNamedLock(dataDir, lockFileName)
}

// NewNamedLock creates a lock at <dataDir>/<name>.
func NewNamedLock(dataDir, name string) *FileOperationLock {
	return &FileOperationLock{path: filepath.Join(dataDir, name)}
}

// Path returns the lock file path.
func (l *FileOperationLock) Path() string {
	return l.path
}

// Acquire polls for the lock until it is held or ctx is done.
func (l *FileOperationLock) Acquire(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	ticker := time.NewTicker(lockPoll)
	defer ticker.Stop()

	for {
		ok, err := tryLockFile(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if ok {
			return func() {
				_ = unlockFile(f)
				f.Close()
			}, nil
		}

		select {
		case <-ctx.Done():
			f.Close()
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ensure FileOperationLock implements domain.OperationLock.
var _ domain.OperationLock = (*FileOperationLock)(nil)
