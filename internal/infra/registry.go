package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

const (
	registryFileName = ".autosave.json"
	registryLockName = ".autosave.json.lock"
	registryLockWait = 2 * time.Second
)

// FileRegistry implements domain.DaemonRegistry as a JSON file in the data
// directory. Liveness is checked against the process table on read.
type FileRegistry struct {
	path           string
	lock           *FileOperationLock
	processManager domain.ProcessManager
}

// NewFileRegistry creates a registry at <dataDir>/.autosave.json.
func NewFileRegistry(dataDir string, pm domain.ProcessManager) *FileRegistry {
	return &FileRegistry{
		path:           filepath.Join(dataDir, registryFileName),
		lock:           NewNamedLock(dataDir, registryLockName),
		processManager: pm,
	}
}

// Path returns the registry file path.
func (r *FileRegistry) Path() string {
	return r.path
}

// Register overwrites any previous record with status.
func (r *FileRegistry) Register(status domain.DaemonStatus) error {
	return r.update(func(_ *domain.DaemonStatus) (*domain.DaemonStatus, error) {
		status.Running = false // Derived on read, never stored
		return &status, nil
	})
}

// Heartbeat records the latest auto-saved snapshot.
func (r *FileRegistry) Heartbeat(snapshot string, at time.Time) error {
	return r.update(func(cur *domain.DaemonStatus) (*domain.DaemonStatus, error) {
		if cur == nil {
			return nil, fmt.Errorf("auto-save daemon not registered")
		}
		cur.LastSnapshot = snapshot
		cur.LastSaveAt = &at
		return cur, nil
	})
}

// Status returns the stored record, or nil if there is none.
func (r *FileRegistry) Status() (*domain.DaemonStatus, error) {
	status, err := r.read()
	if err != nil || status == nil {
		return nil, err
	}
	status.Running = r.alive(status.PID)
	return status, nil
}

// Clear removes the registry file. A missing file is not an error.
func (r *FileRegistry) Clear() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (r *FileRegistry) alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := r.processManager.NameOf(pid)
	return err == nil
}

// update serializes read-modify-write cycles between the daemon and the CLI.
func (r *FileRegistry) update(fn func(cur *domain.DaemonStatus) (*domain.DaemonStatus, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), registryLockWait)
	defer cancel()

	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to lock auto-save registry: %w", err)
	}
	defer release()

	cur, err := r.read()
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	return r.write(next)
}

func (r *FileRegistry) read() (*domain.DaemonStatus, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.IoError{Op: "read", Path: r.path, Err: err}
	}

	var status domain.DaemonStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("corrupt auto-save registry %s: %w", r.path, err)
	}
	return &status, nil
}

func (r *FileRegistry) write(status *domain.DaemonStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return &domain.IoError{Op: "mkdir", Path: filepath.Dir(r.path), Err: err}
	}
	if err := atomicWriteFile(r.path, data, 0600); err != nil {
		return &domain.IoError{Op: "write", Path: r.path, Err: err}
	}
	return nil
}

// Ensure FileRegistry implements domain.DaemonRegistry.
var _ domain.DaemonRegistry = (*FileRegistry)(nil)
