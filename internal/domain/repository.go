package domain

import (
	"context"
	"time"
)

// Desktop enumerates and positions top-level windows.
// Implementation: user32 on Windows (internal/platform).
type Desktop interface {
	// VisibleWindows returns visible top-level windows in OS enumeration order.
	VisibleWindows() ([]NativeWindow, error)

	// WindowPID resolves the process owning a window.
	WindowPID(h WindowHandle) (int, error)

	// Placement reads the show state and positions of a window.
	Placement(h WindowHandle) (WindowPlacement, error)

	// Bounds reads the current bounding rectangle of a window.
	Bounds(h WindowHandle) (Rect, error)

	// SetPlacement applies a placement verbatim.
	SetPlacement(h WindowHandle, p WindowPlacement) error
}

// ProcessProbe resolves a window to its owning process metadata.
// Implementation: gopsutil.
type ProcessProbe interface {
	// Describe fails with a *ProcessResolutionError when the process is gone
	// or cannot be queried.
	Describe(h WindowHandle) (*ProcessInfo, error)
}

// ProcessManager answers questions about running processes.
type ProcessManager interface {
	// IsNameRunning reports whether any running process has exactly this name.
	IsNameRunning(name string) (bool, error)

	// RunningNames returns the distinct names of running processes, sorted.
	RunningNames() ([]string, error)

	// NameOf returns the name of the process with the given PID.
	NameOf(pid int) (string, error)
}

// Launcher starts executables.
type Launcher interface {
	// Launch starts the executable at path with no arguments, detached.
	Launch(path string) (pid int, err error)
}

// SnapshotStore persists snapshots, one file per snapshot.
type SnapshotStore interface {
	// Write creates the store directory if needed and overwrites any file of the same name.
	Write(s Snapshot) error

	// LoadAll reads every eligible file; unparseable files are skipped.
	LoadAll() (map[string]Snapshot, error)

	// Delete removes the backing file. Fails if it does not exist.
	Delete(name string) error

	// Exists reports whether a file for name exists.
	Exists(name string) bool

	// Dir returns the store directory.
	Dir() string
}

// SettingsStore persists user settings.
type SettingsStore interface {
	// Load returns defaults for a missing file or missing fields.
	Load() (Settings, error)

	// Save persists settings.
	Save(s Settings) error

	// Path returns the settings file path.
	Path() string
}

// RestoreHistory records finished restores.
type RestoreHistory interface {
	// Record appends a report summary.
	Record(r RestoreReport) error

	// Recent returns the newest entries first, at most limit.
	Recent(limit int) ([]HistoryEntry, error)

	// Close releases resources (e.g., database connection).
	Close() error
}

// Waiter suspends until d elapses or ctx is done.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// OperationLock serializes capture and restore across processes.
type OperationLock interface {
	// Acquire blocks until the lock is held or ctx is done.
	Acquire(ctx context.Context) (release func(), err error)
}

// Notifier surfaces user-facing events.
type Notifier interface {
	Notify(title, message string)
}

// KeyProvider abstracts the source of encryption keys.
type KeyProvider interface {
	// LoadOrCreate returns the stored key, generating one on first use.
	LoadOrCreate() ([]byte, error)
}

// DaemonRegistry tracks the running auto-save daemon.
type DaemonRegistry interface {
	// Register records the daemon as started.
	Register(status DaemonStatus) error

	// Heartbeat records a completed auto-save.
	Heartbeat(snapshot string, at time.Time) error

	// Status returns the recorded status with Running resolved against the
	// process table, or nil when no daemon was ever registered.
	Status() (*DaemonStatus, error)

	// Clear removes the record.
	Clear() error
}
