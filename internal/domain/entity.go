// Package domain contains core business entities and interfaces.
// This is the innermost layer - no external dependencies.
package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	// TimestampLayout is the machine-sortable capture time format.
	TimestampLayout = "20060102_150405"
	// SaveTimeLayout is the human-readable capture time format.
	SaveTimeLayout = "2006-01-02 03:04:05 PM"
	// SnapshotPrefix prefixes every snapshot name.
	SnapshotPrefix = "Workspace_"
)

// ShowState is the OS show command stored in a window placement.
type ShowState int

const (
	ShowHidden    ShowState = 0
	ShowNormal    ShowState = 1
	ShowMinimized ShowState = 2
	ShowMaximized ShowState = 3
)

func (s ShowState) String() string {
	switch s {
	case ShowHidden:
		return "hidden"
	case ShowNormal:
		return "normal"
	case ShowMinimized:
		return "minimized"
	case ShowMaximized:
		return "maximized"
	default:
		return "native"
	}
}

// WindowHandle is an opaque OS window identifier.
type WindowHandle uintptr

// Point is a screen coordinate.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Rect is a screen rectangle in integer coordinates.
type Rect struct {
	Left   int `yaml:"left"`
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
}

// WindowPlacement mirrors the native placement record. It is captured and
// applied verbatim; only ShowState is read by the engine. The JSON form is
// the native tuple (see codec.go).
type WindowPlacement struct {
	Flags          uint32    `yaml:"flags"`
	ShowState      ShowState `yaml:"show_state"`
	MinPosition    Point     `yaml:"min_position"`
	MaxPosition    Point     `yaml:"max_position"`
	NormalPosition Rect      `yaml:"normal_position"`
}

// StateLabel is the display label derived from the show state.
func (p WindowPlacement) StateLabel() string {
	if p.ShowState == ShowMaximized {
		return "Maximized"
	}
	return "Normal"
}

// NativeWindow is a visible top-level window as reported by the desktop.
type NativeWindow struct {
	Handle WindowHandle
	Title  string
}

// ProcessInfo is the metadata of the process owning a window.
type ProcessInfo struct {
	PID            int
	Name           string
	ExecutablePath string
	CommandLine    []string
	CreationTime   int64 // unix milliseconds
	Status         string
}

// WindowRecord is one captured window.
type WindowRecord struct {
	Title          string          `json:"title"         yaml:"title"`
	ProcessName    string          `json:"process_name"  yaml:"process_name"`
	ExecutablePath string          `json:"exe"           yaml:"exe"`
	Placement      WindowPlacement `json:"placement"     yaml:"placement"`
	Rect           Rect            `json:"rect"          yaml:"rect"`
	PID            int             `json:"pid"           yaml:"pid"`
	CommandLine    []string        `json:"command_line"  yaml:"command_line"`
	CreationTime   int64           `json:"creation_time" yaml:"creation_time"`
	Status         string          `json:"status"        yaml:"status"`
	WindowState    string          `json:"window_state"  yaml:"window_state"`
}

// Snapshot is a named, timestamped capture of the visible window set.
// Name is the persistence key and is not stored inside the file.
type Snapshot struct {
	Name        string         `json:"-"            yaml:"name"`
	Timestamp   string         `json:"timestamp"    yaml:"timestamp"`
	SaveTime    string         `json:"save_time"    yaml:"save_time"`
	WindowCount int            `json:"window_count" yaml:"window_count"`
	Windows     []WindowRecord `json:"windows"      yaml:"windows"`
}

// NewSnapshot builds a snapshot for the capture instant at.
func NewSnapshot(name string, at time.Time, windows []WindowRecord) Snapshot {
	if windows == nil {
		windows = []WindowRecord{}
	}
	return Snapshot{
		Name:        name,
		Timestamp:   at.Format(TimestampLayout),
		SaveTime:    at.Format(SaveTimeLayout),
		WindowCount: len(windows),
		Windows:     windows,
	}
}

// SnapshotName derives the base snapshot name for a capture instant.
func SnapshotName(at time.Time) string {
	return SnapshotPrefix + at.Format(TimestampLayout)
}

// SavedAt parses save_time back to an instant, falling back to timestamp.
func (s Snapshot) SavedAt() (time.Time, error) {
	if s.SaveTime != "" {
		t, err := time.ParseInLocation(SaveTimeLayout, s.SaveTime, time.Local)
		if err == nil {
			return t, nil
		}
		if s.Timestamp == "" {
			return time.Time{}, err
		}
	}
	return time.ParseInLocation(TimestampLayout, s.Timestamp, time.Local)
}

// ExclusionSet is an immutable set of process names.
type ExclusionSet struct {
	names map[string]struct{}
}

// NewExclusionSet builds a set from names, dropping blanks.
func NewExclusionSet(names ...string) *ExclusionSet {
	s := &ExclusionSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			s.names[n] = struct{}{}
		}
	}
	return s
}

// Contains reports whether name is excluded. A nil set excludes nothing.
func (s *ExclusionSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names.
func (s *ExclusionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the names sorted.
func (s *ExclusionSet) Names() []string {
	out := make([]string, 0, s.Len())
	if s == nil {
		return out
	}
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// With returns a copy of s that also contains name.
func (s *ExclusionSet) With(name string) *ExclusionSet {
	return NewExclusionSet(append(s.Names(), name)...)
}

// Without returns a copy of s without name.
func (s *ExclusionSet) Without(name string) *ExclusionSet {
	names := s.Names()
	kept := names[:0]
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	return NewExclusionSet(kept...)
}

const (
	MinSaveInterval     = 30
	MaxSaveInterval     = 3600
	DefaultSaveInterval = 30
)

// Settings is the persisted user configuration.
type Settings struct {
	ShowNotifications bool     `json:"show_notifications" yaml:"show_notifications"`
	AutoSaveEnabled   bool     `json:"auto_save_enabled"  yaml:"auto_save_enabled"`
	SaveInterval      int      `json:"save_interval"      yaml:"save_interval"`
	ExcludedProcesses []string `json:"excluded_processes" yaml:"excluded_processes"`
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		ShowNotifications: true,
		AutoSaveEnabled:   true,
		SaveInterval:      DefaultSaveInterval,
		ExcludedProcesses: []string{},
	}
}

// ClampInterval forces seconds into the recognized save interval range.
func ClampInterval(seconds int) int {
	if seconds < MinSaveInterval {
		return MinSaveInterval
	}
	if seconds > MaxSaveInterval {
		return MaxSaveInterval
	}
	return seconds
}

// Interval returns the save interval as a duration.
func (s Settings) Interval() time.Duration {
	return time.Duration(ClampInterval(s.SaveInterval)) * time.Second
}

// RestoreOutcome classifies what happened to one window during restore.
type RestoreOutcome string

const (
	OutcomeRestored            RestoreOutcome = "restored"
	OutcomeProcessLaunchFailed RestoreOutcome = "process_launch_failed"
	OutcomeWindowNotFound      RestoreOutcome = "window_not_found"
	OutcomePlacementFailed     RestoreOutcome = "placement_failed"
	OutcomeCancelled           RestoreOutcome = "cancelled"
)

// RestoreEntry is the restore result for one WindowRecord.
type RestoreEntry struct {
	Title       string         `json:"title"           yaml:"title"`
	ProcessName string         `json:"process_name"    yaml:"process_name"`
	Outcome     RestoreOutcome `json:"outcome"         yaml:"outcome"`
	Attempts    int            `json:"attempts"        yaml:"attempts"`
	Launched    bool           `json:"launched"        yaml:"launched"`
	Error       string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// RestoreReport has one entry per window of the restored snapshot, in order.
type RestoreReport struct {
	Snapshot   string         `json:"snapshot"    yaml:"snapshot"`
	StartedAt  time.Time      `json:"started_at"  yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Entries    []RestoreEntry `json:"entries"     yaml:"entries"`
}

// Counts tallies entries by outcome.
func (r RestoreReport) Counts() map[RestoreOutcome]int {
	counts := make(map[RestoreOutcome]int)
	for _, e := range r.Entries {
		counts[e.Outcome]++
	}
	return counts
}

// HistoryEntry is a persisted summary of a past restore.
type HistoryEntry struct {
	ID         int64                  `json:"id"          yaml:"id"`
	Snapshot   string                 `json:"snapshot"    yaml:"snapshot"`
	StartedAt  time.Time              `json:"started_at"  yaml:"started_at"`
	FinishedAt time.Time              `json:"finished_at" yaml:"finished_at"`
	Total      int                    `json:"total"       yaml:"total"`
	Counts     map[RestoreOutcome]int `json:"counts"      yaml:"counts"`
}

// DaemonStatus is what the auto-save daemon publishes about itself.
type DaemonStatus struct {
	PID          int        `json:"pid"                     yaml:"pid"`
	Version      string     `json:"version,omitempty"       yaml:"version,omitempty"`
	StartedAt    time.Time  `json:"started_at"              yaml:"started_at"`
	LastSaveAt   *time.Time `json:"last_save_at,omitempty"  yaml:"last_save_at,omitempty"`
	LastSnapshot string     `json:"last_snapshot,omitempty" yaml:"last_snapshot,omitempty"`
	Running      bool       `json:"running"                 yaml:"running"`
}
