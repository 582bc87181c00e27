package infra

import (
	"fmt"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// mockDesktop is a test double for domain.Desktop that only answers WindowPID
type mockDesktop struct {
	pids map[domain.WindowHandle]int
}

func (m *mockDesktop) VisibleWindows() ([]domain.NativeWindow, error) {
	return nil, nil
}

func (m *mockDesktop) WindowPID(h domain.WindowHandle) (int, error) {
	pid, ok := m.pids[h]
	if !ok {
		return 0, fmt.Errorf("invalid window handle %d", h)
	}
	return pid, nil
}

func (m *mockDesktop) Placement(domain.WindowHandle) (domain.WindowPlacement, error) {
	return domain.WindowPlacement{}, nil
}

func (m *mockDesktop) Bounds(domain.WindowHandle) (domain.Rect, error) {
	return domain.Rect{}, nil
}

func (m *mockDesktop) SetPlacement(domain.WindowHandle, domain.WindowPlacement) error {
	return nil
}

// fakeProcess is a test double for processHandle
type fakeProcess struct {
	name       string
	nameErr    error
	exe        string
	exeErr     error
	cmdline    []string
	cmdlineErr error
	created    int64
	createdErr error
	status     []string
}

func (f *fakeProcess) Name() (string, error)           { return f.name, f.nameErr }
func (f *fakeProcess) Exe() (string, error)            { return f.exe, f.exeErr }
func (f *fakeProcess) CmdlineSlice() ([]string, error) { return f.cmdline, f.cmdlineErr }
func (f *fakeProcess) CreateTime() (int64, error)      { return f.created, f.createdErr }
func (f *fakeProcess) Status() ([]string, error)       { return f.status, nil }

// stubProcessManager knows a fixed set of live PIDs
type stubProcessManager struct {
	live map[int]string
}

func (s *stubProcessManager) IsNameRunning(name string) (bool, error) {
	for _, n := range s.live {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubProcessManager) RunningNames() ([]string, error) {
	var out []string
	for _, n := range s.live {
		out = append(out, n)
	}
	return out, nil
}

func (s *stubProcessManager) NameOf(pid int) (string, error) {
	n, ok := s.live[pid]
	if !ok {
		return "", domain.ErrNoSuchProcess
	}
	return n, nil
}

var (
	_ domain.Desktop        = (*mockDesktop)(nil)
	_ domain.ProcessManager = (*stubProcessManager)(nil)
	_ processHandle         = (*fakeProcess)(nil)
)
