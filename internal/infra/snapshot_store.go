package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

const (
	snapshotExt = ".json"
	// SettingsFileName is kept out of the snapshot listing when it shares the directory.
	SettingsFileName = "settings.json"
)

// FileSnapshotStore implements domain.SnapshotStore with one JSON file per snapshot.
type FileSnapshotStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileSnapshotStore creates a store rooted at dir. The directory is
// created lazily on the first write.
func NewFileSnapshotStore(dir string, logger *zap.Logger) *FileSnapshotStore {
	return &FileSnapshotStore{dir: dir, logger: logger}
}

// Dir returns the store directory.
func (s *FileSnapshotStore) Dir() string {
	return s.dir
}

func (s *FileSnapshotStore) path(name string) string {
	return filepath.Join(s.dir, name+snapshotExt)
}

// Write serializes snap to <dir>/<name>.json, replacing any existing file.
func (s *FileSnapshotStore) Write(snap domain.Snapshot) error {
	if snap.Name == "" || strings.ContainsAny(snap.Name, `/\`) {
		return &domain.IoError{Op: "write", Path: s.dir, Err: fmt.Errorf("invalid snapshot name %q", snap.Name)}
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &domain.IoError{Op: "mkdir", Path: s.dir, Err: err}
	}

	if snap.Windows == nil {
		snap.Windows = []domain.WindowRecord{}
	}
	snap.WindowCount = len(snap.Windows)

	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return &domain.IoError{Op: "encode", Path: s.path(snap.Name), Err: err}
	}

	if err := atomicWriteFile(s.path(snap.Name), data, 0644); err != nil {
		return &domain.IoError{Op: "write", Path: s.path(snap.Name), Err: err}
	}
	return nil
}

// LoadAll reads every snapshot file. One corrupt file never blocks the rest.
func (s *FileSnapshotStore) LoadAll() (map[string]domain.Snapshot, error) {
	out := make(map[string]domain.Snapshot)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, &domain.IoError{Op: "list", Path: s.dir, Err: err}
	}

	for _, entry := range entries {
		if !isSnapshotFile(entry) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), snapshotExt)
		snap, err := s.load(name)
		if err != nil {
			s.logger.Warn("skipping snapshot file",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		out[name] = snap
	}

	return out, nil
}

func isSnapshotFile(entry os.DirEntry) bool {
	if !entry.Type().IsRegular() {
		return false
	}
	name := entry.Name()
	return strings.HasSuffix(name, snapshotExt) && name != SettingsFileName
}

func (s *FileSnapshotStore) load(name string) (domain.Snapshot, error) {
	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, &domain.IoError{Op: "read", Path: path, Err: err}
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, &domain.MalformedSnapshotError{Path: path, Err: err}
	}
	if snap.Windows == nil {
		snap.Windows = []domain.WindowRecord{}
	}
	snap.Name = name
	snap.WindowCount = len(snap.Windows)
	return snap, nil
}

// Delete removes the snapshot file. A missing file is an error.
func (s *FileSnapshotStore) Delete(name string) error {
	path := s.path(name)
	if err := os.Remove(path); err != nil {
		return &domain.IoError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// Exists reports whether a file for name exists.
func (s *FileSnapshotStore) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// atomicWriteFile writes data to path atomically (write + rename).
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	// Temp file name unique per process to avoid racing the daemon
	tmpPath := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up on failure
		return err
	}
	return nil
}

// Ensure FileSnapshotStore implements domain.SnapshotStore.
var _ domain.SnapshotStore = (*FileSnapshotStore)(nil)
