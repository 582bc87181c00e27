// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"fmt"
	"sync"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// FakeWindow is one window on a FakeDesktop.
type FakeWindow struct {
	Title     string
	PID       int
	Placement domain.WindowPlacement
}

// FakeDesktop is a scripted in-memory domain.Desktop.
type FakeDesktop struct {
	mu      sync.Mutex
	next    domain.WindowHandle
	order   []domain.WindowHandle
	windows map[domain.WindowHandle]*FakeWindow
}

// NewFakeDesktop creates an empty desktop.
func NewFakeDesktop() *FakeDesktop {
	return &FakeDesktop{
		next:    0x1000,
		windows: make(map[domain.WindowHandle]*FakeWindow),
	}
}

// Open adds a window and returns its handle.
func (d *FakeDesktop) Open(w FakeWindow) domain.WindowHandle {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.next += 0x10
	h := d.next
	copied := w
	d.windows[h] = &copied
	d.order = append(d.order, h)
	return h
}

// Close removes a window.
func (d *FakeDesktop) Close(h domain.WindowHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.windows, h)
	for i, o := range d.order {
		if o == h {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Move changes a window placement as a user dragging it would.
func (d *FakeDesktop) Move(h domain.WindowHandle, p domain.WindowPlacement) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.windows[h]; ok {
		w.Placement = p
	}
}

// PlacementOf returns the current placement of the first window titled title.
func (d *FakeDesktop) PlacementOf(title string) (domain.WindowPlacement, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, h := range d.order {
		if w := d.windows[h]; w.Title == title {
			return w.Placement, true
		}
	}
	return domain.WindowPlacement{}, false
}

func (d *FakeDesktop) VisibleWindows() ([]domain.NativeWindow, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.NativeWindow, 0, len(d.order))
	for _, h := range d.order {
		out = append(out, domain.NativeWindow{Handle: h, Title: d.windows[h].Title})
	}
	return out, nil
}

func (d *FakeDesktop) lookup(h domain.WindowHandle) (*FakeWindow, error) {
	w, ok := d.windows[h]
	if !ok {
		return nil, fmt.Errorf("invalid window handle %#x", uintptr(h))
	}
	return w, nil
}

func (d *FakeDesktop) WindowPID(h domain.WindowHandle) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, err := d.lookup(h)
	if err != nil {
		return 0, err
	}
	return w.PID, nil
}

func (d *FakeDesktop) Placement(h domain.WindowHandle) (domain.WindowPlacement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, err := d.lookup(h)
	if err != nil {
		return domain.WindowPlacement{}, err
	}
	return w.Placement, nil
}

func (d *FakeDesktop) Bounds(h domain.WindowHandle) (domain.Rect, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, err := d.lookup(h)
	if err != nil {
		return domain.Rect{}, err
	}
	return w.Placement.NormalPosition, nil
}

func (d *FakeDesktop) SetPlacement(h domain.WindowHandle, p domain.WindowPlacement) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, err := d.lookup(h)
	if err != nil {
		return err
	}
	w.Placement = p
	return nil
}

// FakeLauncher opens a window on a FakeDesktop instead of starting a process.
type FakeLauncher struct {
	mu       sync.Mutex
	Desktop  *FakeDesktop
	Windows  map[string]FakeWindow // Window opened per executable path
	Launched []string
}

// Launch records path and opens its scripted window, if any.
func (l *FakeLauncher) Launch(path string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.Windows[path]
	if !ok {
		return 0, fmt.Errorf("launch %s: file does not exist", path)
	}
	l.Launched = append(l.Launched, path)
	l.Desktop.Open(w)
	return w.PID, nil
}

var (
	_ domain.Desktop  = (*FakeDesktop)(nil)
	_ domain.Launcher = (*FakeLauncher)(nil)
)
