// Package output renders CLI results as YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// SnapshotSummary is one row of `winsnap list`.
type SnapshotSummary struct {
	Name        string `yaml:"name"         json:"name"`
	SaveTime    string `yaml:"save_time"    json:"save_time"`
	WindowCount int    `yaml:"window_count" json:"window_count"`
}

// Summarize converts snapshots into list rows, keeping their order.
func Summarize(snaps []domain.Snapshot) []SnapshotSummary {
	out := make([]SnapshotSummary, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, SnapshotSummary{Name: s.Name, SaveTime: s.SaveTime, WindowCount: s.WindowCount})
	}
	return out
}

// SnapshotDetail is the output of `winsnap show`. Unlike the stored file
// it carries the snapshot name.
type SnapshotDetail struct {
	Name        string                `yaml:"name"         json:"name"`
	Timestamp   string                `yaml:"timestamp"    json:"timestamp"`
	SaveTime    string                `yaml:"save_time"    json:"save_time"`
	WindowCount int                   `yaml:"window_count" json:"window_count"`
	Windows     []domain.WindowRecord `yaml:"windows"      json:"windows"`
}

// Detail converts a snapshot for display.
func Detail(s domain.Snapshot) SnapshotDetail {
	return SnapshotDetail{
		Name:        s.Name,
		Timestamp:   s.Timestamp,
		SaveTime:    s.SaveTime,
		WindowCount: s.WindowCount,
		Windows:     s.Windows,
	}
}

// SaveResult is the output of `winsnap save`.
type SaveResult struct {
	Name        string `yaml:"name"         json:"name"`
	WindowCount int    `yaml:"window_count" json:"window_count"`
	Path        string `yaml:"path"         json:"path"`
}

// VersionInfo is the output of `winsnap version`.
type VersionInfo struct {
	Version   string `yaml:"version"    json:"version"`
	Commit    string `yaml:"commit"     json:"commit"`
	BuildTime string `yaml:"build_time" json:"build_time"`
}

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (expected yaml or json)", s)
	}
}

// Print serializes v to w in the current output format.
func Print(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(w, v)
		}
		return PrintJSON(w, v)
	case FormatYAML:
		return PrintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to w as compact single-line JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintPrettyJSON serializes v to w as indented JSON.
func PrintPrettyJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v to w as YAML.
func PrintYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
