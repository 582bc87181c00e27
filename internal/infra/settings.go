package infra

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// FileSettingsStore implements domain.SettingsStore as a single JSON file.
type FileSettingsStore struct {
	path   string
	logger *zap.Logger
}

// NewFileSettingsStore creates a settings store at <dir>/settings.json.
func NewFileSettingsStore(dir string, logger *zap.Logger) *FileSettingsStore {
	return &FileSettingsStore{
		path:   filepath.Join(dir, SettingsFileName),
		logger: logger,
	}
}

// Path returns the settings file path.
func (s *FileSettingsStore) Path() string {
	return s.path
}

// settingsFile distinguishes absent fields from zero values.
type settingsFile struct {
	ShowNotifications *bool    `json:"show_notifications"`
	AutoSaveEnabled   *bool    `json:"auto_save_enabled"`
	SaveInterval      *int     `json:"save_interval"`
	ExcludedProcesses []string `json:"excluded_processes"`
}

// Load reads settings. A missing file or field falls back to defaults; a
// corrupt file is logged and yields defaults.
func (s *FileSettingsStore) Load() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, &domain.IoError{Op: "read", Path: s.path, Err: err}
	}

	var raw settingsFile
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("settings file unreadable, using defaults",
			zap.String("path", s.path),
			zap.Error(err))
		return settings, nil
	}

	if raw.ShowNotifications != nil {
		settings.ShowNotifications = *raw.ShowNotifications
	}
	if raw.AutoSaveEnabled != nil {
		settings.AutoSaveEnabled = *raw.AutoSaveEnabled
	}
	if raw.SaveInterval != nil {
		settings.SaveInterval = domain.ClampInterval(*raw.SaveInterval)
	}
	if raw.ExcludedProcesses != nil {
		settings.ExcludedProcesses = domain.NewExclusionSet(raw.ExcludedProcesses...).Names()
	}

	return settings, nil
}

// Save writes settings atomically, creating the directory if needed.
func (s *FileSettingsStore) Save(settings domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &domain.IoError{Op: "mkdir", Path: filepath.Dir(s.path), Err: err}
	}
	if settings.ExcludedProcesses == nil {
		settings.ExcludedProcesses = []string{}
	}

	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return &domain.IoError{Op: "encode", Path: s.path, Err: err}
	}
	if err := atomicWriteFile(s.path, data, 0644); err != nil {
		return &domain.IoError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Ensure FileSettingsStore implements domain.SettingsStore.
var _ domain.SettingsStore = (*FileSettingsStore)(nil)
