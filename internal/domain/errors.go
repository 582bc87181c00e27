package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchProcess means the process exited before it could be queried.
	ErrNoSuchProcess = errors.New("no such process")
	// ErrAccessDenied means the process exists but cannot be queried.
	ErrAccessDenied = errors.New("access denied")
	// ErrSnapshotNotFound means no snapshot has the requested name.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrIntervalOutOfRange means a save interval outside 30-3600 seconds.
	ErrIntervalOutOfRange = fmt.Errorf("save interval must be between %d and %d seconds", MinSaveInterval, MaxSaveInterval)
	// ErrEmptyProcessName rejects blank exclusion entries.
	ErrEmptyProcessName = errors.New("process name is empty")
)

// ProcessResolutionError reports a window whose owning process could not be
// described. It is recoverable: the window is skipped.
type ProcessResolutionError struct {
	Handle WindowHandle
	PID    int
	Err    error
}

func (e *ProcessResolutionError) Error() string {
	return fmt.Sprintf("resolve process of window %#x (pid %d): %v", uintptr(e.Handle), e.PID, e.Err)
}

func (e *ProcessResolutionError) Unwrap() error { return e.Err }

// IoError reports a snapshot or settings file failure.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// MalformedSnapshotError reports a snapshot file that failed to parse.
type MalformedSnapshotError struct {
	Path string
	Err  error
}

func (e *MalformedSnapshotError) Error() string {
	return fmt.Sprintf("malformed snapshot file %s: %v", e.Path, e.Err)
}

func (e *MalformedSnapshotError) Unwrap() error { return e.Err }
