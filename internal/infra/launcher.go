package infra

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// ExecLauncher implements domain.Launcher with os/exec.
// The child runs detached: no stdio, own session or process group.
type ExecLauncher struct{}

// NewLauncher creates a new process launcher.
func NewLauncher() domain.Launcher {
	return &ExecLauncher{}
}

// Launch starts path with no arguments and does not wait for it.
func (l *ExecLauncher) Launch(path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("launch: empty executable path")
	}
	if !filepath.IsAbs(path) {
		return 0, fmt.Errorf("launch %s: path is not absolute", path)
	}

	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	cmd.SysProcAttr = DetachedAttr()
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("launch %s: %w", path, err)
	}
	pid := cmd.Process.Pid
	// Never waited on; let the OS reap it.
	_ = cmd.Process.Release()
	return pid, nil
}

// Ensure ExecLauncher implements domain.Launcher.
var _ domain.Launcher = (*ExecLauncher)(nil)
