package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// mockWindow is one window known to mockDesktop
type mockWindow struct {
	handle    domain.WindowHandle
	title     string
	pid       int
	placement domain.WindowPlacement
	rect      domain.Rect
}

// mockDesktop implements domain.Desktop for testing
type mockDesktop struct {
	mu           sync.Mutex
	windows      []mockWindow
	enumErr      error
	pidErr       map[domain.WindowHandle]error
	placementErr map[domain.WindowHandle]error
	setErr       error
	enumCalls    int
	applied      map[domain.WindowHandle]domain.WindowPlacement
	// appearAfter makes windows visible only from the given enumeration call on
	appearAfter map[domain.WindowHandle]int
}

func newMockDesktop(windows ...mockWindow) *mockDesktop {
	return &mockDesktop{
		windows:      windows,
		pidErr:       make(map[domain.WindowHandle]error),
		placementErr: make(map[domain.WindowHandle]error),
		applied:      make(map[domain.WindowHandle]domain.WindowPlacement),
		appearAfter:  make(map[domain.WindowHandle]int),
	}
}

func (m *mockDesktop) VisibleWindows() ([]domain.NativeWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enumCalls++
	if m.enumErr != nil {
		return nil, m.enumErr
	}
	var out []domain.NativeWindow
	for _, w := range m.windows {
		if after, ok := m.appearAfter[w.handle]; ok && m.enumCalls < after {
			continue
		}
		out = append(out, domain.NativeWindow{Handle: w.handle, Title: w.title})
	}
	return out, nil
}

func (m *mockDesktop) find(h domain.WindowHandle) (mockWindow, bool) {
	for _, w := range m.windows {
		if w.handle == h {
			return w, true
		}
	}
	return mockWindow{}, false
}

func (m *mockDesktop) WindowPID(h domain.WindowHandle) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.pidErr[h]; err != nil {
		return 0, err
	}
	w, ok := m.find(h)
	if !ok {
		return 0, fmt.Errorf("invalid window handle %d", h)
	}
	return w.pid, nil
}

func (m *mockDesktop) Placement(h domain.WindowHandle) (domain.WindowPlacement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.placementErr[h]; err != nil {
		return domain.WindowPlacement{}, err
	}
	w, _ := m.find(h)
	return w.placement, nil
}

func (m *mockDesktop) Bounds(h domain.WindowHandle) (domain.Rect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, _ := m.find(h)
	return w.rect, nil
}

func (m *mockDesktop) SetPlacement(h domain.WindowHandle, p domain.WindowPlacement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	m.applied[h] = p
	return nil
}

func (m *mockDesktop) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enumCalls
}

// mockProbe implements domain.ProcessProbe for testing
type mockProbe struct {
	desktop *mockDesktop
	procs   map[int]domain.ProcessInfo
}

func (m *mockProbe) Describe(h domain.WindowHandle) (*domain.ProcessInfo, error) {
	pid, err := m.desktop.WindowPID(h)
	if err != nil {
		return nil, &domain.ProcessResolutionError{Handle: h, Err: domain.ErrNoSuchProcess}
	}
	info, ok := m.procs[pid]
	if !ok {
		return nil, &domain.ProcessResolutionError{Handle: h, PID: pid, Err: domain.ErrNoSuchProcess}
	}
	return &info, nil
}

// mockProcessManager implements domain.ProcessManager for testing
type mockProcessManager struct {
	mu      sync.Mutex
	running map[string]bool
	names   map[int]string
	listErr error
}

func newMockProcessManager(running ...string) *mockProcessManager {
	m := &mockProcessManager{
		running: make(map[string]bool),
		names:   make(map[int]string),
	}
	for _, n := range running {
		m.running[n] = true
	}
	return m
}

func (m *mockProcessManager) IsNameRunning(name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return false, m.listErr
	}
	return m.running[name], nil
}

func (m *mockProcessManager) RunningNames() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for n := range m.running {
		out = append(out, n)
	}
	return out, nil
}

func (m *mockProcessManager) NameOf(pid int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.names[pid]
	if !ok {
		return "", domain.ErrNoSuchProcess
	}
	return n, nil
}

// mockLauncher implements domain.Launcher for testing
type mockLauncher struct {
	mu       sync.Mutex
	fail     map[string]error
	launched []string
	onLaunch func(path string)
}

func (m *mockLauncher) Launch(path string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[path]; err != nil {
		return 0, err
	}
	m.launched = append(m.launched, path)
	if m.onLaunch != nil {
		m.onLaunch(path)
	}
	return 4242, nil
}

// recordingWaiter implements domain.Waiter without sleeping
type recordingWaiter struct {
	mu     sync.Mutex
	waits  []time.Duration
	cancel context.CancelFunc
	// cancelAfter cancels the context on the Nth wait (1-based, 0 = never)
	cancelAfter int
}

func (w *recordingWaiter) Wait(ctx context.Context, d time.Duration) error {
	w.mu.Lock()
	w.waits = append(w.waits, d)
	n := len(w.waits)
	w.mu.Unlock()

	if w.cancelAfter > 0 && n == w.cancelAfter && w.cancel != nil {
		w.cancel()
	}
	return ctx.Err()
}

// mockSnapshotStore implements domain.SnapshotStore for testing
type mockSnapshotStore struct {
	mu        sync.Mutex
	files     map[string]domain.Snapshot
	writeErr  error
	deleteErr error
	writes    int
}

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{files: make(map[string]domain.Snapshot)}
}

func (m *mockSnapshotStore) Write(s domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.files[s.Name] = s
	return nil
}

func (m *mockSnapshotStore) LoadAll() (map[string]domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Snapshot, len(m.files))
	for k, v := range m.files {
		out[k] = v
	}
	return out, nil
}

func (m *mockSnapshotStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.files[name]; !ok {
		return &domain.IoError{Op: "delete", Path: name, Err: os.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

func (m *mockSnapshotStore) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

func (m *mockSnapshotStore) Dir() string {
	return "/mock/workspaces"
}

// mockSettingsStore implements domain.SettingsStore for testing
type mockSettingsStore struct {
	settings *domain.Settings
	saveErr  error
	saves    int
}

func (m *mockSettingsStore) Load() (domain.Settings, error) {
	if m.settings == nil {
		return domain.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *mockSettingsStore) Save(s domain.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.settings = &s
	return nil
}

func (m *mockSettingsStore) Path() string {
	return "/mock/settings.json"
}

// mockHistory implements domain.RestoreHistory for testing
type mockHistory struct {
	reports []domain.RestoreReport
	err     error
}

func (m *mockHistory) Record(r domain.RestoreReport) error {
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, r)
	return nil
}

func (m *mockHistory) Recent(limit int) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func (m *mockHistory) Close() error {
	return nil
}

// mockNotifier implements domain.Notifier for testing
type mockNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (m *mockNotifier) Notify(title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.titles = append(m.titles, title)
}

// mockLock implements domain.OperationLock for testing
type mockLock struct {
	err      error
	acquired int
	released int
}

func (m *mockLock) Acquire(ctx context.Context) (func(), error) {
	if m.err != nil {
		return nil, m.err
	}
	m.acquired++
	return func() { m.released++ }, nil
}

var errBoom = errors.New("boom")

func maximized(left, top, right, bottom int) domain.WindowPlacement {
	return domain.WindowPlacement{
		Flags:          2,
		ShowState:      domain.ShowMaximized,
		MinPosition:    domain.Point{X: -1, Y: -1},
		MaxPosition:    domain.Point{X: -1, Y: -1},
		NormalPosition: domain.Rect{Left: left, Top: top, Right: right, Bottom: bottom},
	}
}

func normal(left, top, right, bottom int) domain.WindowPlacement {
	p := maximized(left, top, right, bottom)
	p.Flags = 0
	p.ShowState = domain.ShowNormal
	return p
}

// Ensure mocks implement their interfaces
var (
	_ domain.Desktop        = (*mockDesktop)(nil)
	_ domain.ProcessProbe   = (*mockProbe)(nil)
	_ domain.ProcessManager = (*mockProcessManager)(nil)
	_ domain.Launcher       = (*mockLauncher)(nil)
	_ domain.Waiter         = (*recordingWaiter)(nil)
	_ domain.SnapshotStore  = (*mockSnapshotStore)(nil)
	_ domain.SettingsStore  = (*mockSettingsStore)(nil)
	_ domain.RestoreHistory = (*mockHistory)(nil)
	_ domain.Notifier       = (*mockNotifier)(nil)
	_ domain.OperationLock  = (*mockLock)(nil)
)
