package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Snapshot files store placements and rectangles as the positional arrays
// the native API returns: a point is [x, y], a rect is [l, t, r, b] and a
// placement is [flags, showCmd, [minX, minY], [maxX, maxY], [l, t, r, b]].

// MarshalJSON encodes p as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	if len(v) != 2 {
		return fmt.Errorf("point: want 2 coordinates, got %d", len(v))
	}
	p.X, p.Y = v[0], v[1]
	return nil
}

// MarshalJSON encodes r as [left, top, right, bottom].
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{r.Left, r.Top, r.Right, r.Bottom})
}

// UnmarshalJSON decodes [left, top, right, bottom].
func (r *Rect) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rect: %w", err)
	}
	if len(v) != 4 {
		return fmt.Errorf("rect: want 4 coordinates, got %d", len(v))
	}
	r.Left, r.Top, r.Right, r.Bottom = v[0], v[1], v[2], v[3]
	return nil
}

// MarshalJSON encodes p as [flags, showCmd, min, max, normal].
func (p WindowPlacement) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		p.Flags,
		int(p.ShowState),
		p.MinPosition,
		p.MaxPosition,
		p.NormalPosition,
	})
}

// UnmarshalJSON decodes [flags, showCmd, min, max, normal].
func (p *WindowPlacement) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("placement: %w", err)
	}
	if len(parts) != 5 {
		return fmt.Errorf("placement: want 5 fields, got %d", len(parts))
	}

	var out WindowPlacement
	var show int
	if err := json.Unmarshal(parts[0], &out.Flags); err != nil {
		return fmt.Errorf("placement flags: %w", err)
	}
	if err := json.Unmarshal(parts[1], &show); err != nil {
		return fmt.Errorf("placement show state: %w", err)
	}
	out.ShowState = ShowState(show)
	if err := json.Unmarshal(parts[2], &out.MinPosition); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[3], &out.MaxPosition); err != nil {
		return err
	}
	if err := json.Unmarshal(parts[4], &out.NormalPosition); err != nil {
		return err
	}
	*p = out
	return nil
}

func isNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}

// windowRecordJSON is WindowRecord with creation_time in epoch seconds.
type windowRecordJSON struct {
	Title          string          `json:"title"`
	ProcessName    string          `json:"process_name"`
	ExecutablePath string          `json:"exe"`
	Placement      WindowPlacement `json:"placement"`
	Rect           Rect            `json:"rect"`
	PID            int             `json:"pid"`
	CommandLine    []string        `json:"command_line"`
	CreationTime   float64         `json:"creation_time"`
	Status         string          `json:"status"`
	WindowState    string          `json:"window_state"`
}

// MarshalJSON writes creation_time as fractional epoch seconds. Titles are
// not HTML-escaped.
func (w WindowRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(windowRecordJSON{
		Title:          w.Title,
		ProcessName:    w.ProcessName,
		ExecutablePath: w.ExecutablePath,
		Placement:      w.Placement,
		Rect:           w.Rect,
		PID:            w.PID,
		CommandLine:    w.CommandLine,
		CreationTime:   float64(w.CreationTime) / 1000,
		Status:         w.Status,
		WindowState:    w.WindowState,
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON reads creation_time as fractional epoch seconds.
func (w *WindowRecord) UnmarshalJSON(data []byte) error {
	var raw windowRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = WindowRecord{
		Title:          raw.Title,
		ProcessName:    raw.ProcessName,
		ExecutablePath: raw.ExecutablePath,
		Placement:      raw.Placement,
		Rect:           raw.Rect,
		PID:            raw.PID,
		CommandLine:    raw.CommandLine,
		CreationTime:   int64(math.Round(raw.CreationTime * 1000)),
		Status:         raw.Status,
		WindowState:    raw.WindowState,
	}
	return nil
}
