// Package infra implements infrastructure concerns (process, storage, history).
package infra

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// IsNameRunning reports whether some process name equals name exactly.
func (pm *ProcessManagerImpl) IsNameRunning(name string) (bool, error) {
	procs, err := process.Processes()
	if err != nil {
		return false, err
	}

	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// RunningNames returns distinct running process names, sorted.
func (pm *ProcessManagerImpl) RunningNames() ([]string, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(procs))
	for _, p := range procs {
		n, err := p.Name()
		if err != nil || n == "" {
			continue
		}
		seen[n] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// NameOf returns the name of the process with the given PID.
func (pm *ProcessManagerImpl) NameOf(pid int) (string, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", classifyProcessErr(err)
	}
	name, err := p.Name()
	if err != nil {
		return "", classifyProcessErr(err)
	}
	return name, nil
}

// classifyProcessErr maps gopsutil failures onto the domain taxonomy.
func classifyProcessErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, process.ErrorProcessNotRunning), errors.Is(err, os.ErrNotExist):
		return domain.ErrNoSuchProcess
	case errors.Is(err, os.ErrPermission), strings.Contains(strings.ToLower(err.Error()), "access is denied"):
		return domain.ErrAccessDenied
	default:
		return err
	}
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
