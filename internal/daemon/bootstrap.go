package daemon

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/eliteGoblin/focusd/winsnap/internal/infra"
)

// RunArgs are the arguments the detached child is started with.
var RunArgs = []string{"autosave", "run"}

// StartDetached spawns `<self> autosave run` detached from the parent and
// returns its PID. The child inherits the environment, so WINSNAP_*
// configuration carries over.
func StartDetached() (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}
	return startDetached(executable, RunArgs...)
}

func startDetached(executable string, args ...string) (int, error) {
	cmd := exec.Command(executable, args...)
	cmd.SysProcAttr = infra.DetachedAttr()

	// No stdin/stdout/stderr - fully detached
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start auto-save daemon: %w", err)
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}
