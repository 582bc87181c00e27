package infra

import (
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// processHandle is the subset of *process.Process the probe reads.
type processHandle interface {
	Name() (string, error)
	Exe() (string, error)
	CmdlineSlice() ([]string, error)
	CreateTime() (int64, error)
	Status() ([]string, error)
}

// ProcessProbeImpl implements domain.ProcessProbe using gopsutil.
type ProcessProbeImpl struct {
	desktop domain.Desktop
	open    func(pid int) (processHandle, error)
}

// NewProcessProbe creates a probe that resolves handles through desktop.
func NewProcessProbe(desktop domain.Desktop) *ProcessProbeImpl {
	return &ProcessProbeImpl{
		desktop: desktop,
		open: func(pid int) (processHandle, error) {
			return process.NewProcess(int32(pid))
		},
	}
}

// Describe resolves the owning process of h and reads its metadata.
// Name and executable path are required; the rest is best effort.
func (p *ProcessProbeImpl) Describe(h domain.WindowHandle) (*domain.ProcessInfo, error) {
	pid, err := p.desktop.WindowPID(h)
	if err != nil {
		return nil, &domain.ProcessResolutionError{Handle: h, Err: classifyProcessErr(err)}
	}
	if pid <= 0 {
		return nil, &domain.ProcessResolutionError{Handle: h, PID: pid, Err: domain.ErrNoSuchProcess}
	}

	proc, err := p.open(pid)
	if err != nil {
		return nil, &domain.ProcessResolutionError{Handle: h, PID: pid, Err: classifyProcessErr(err)}
	}

	name, err := proc.Name()
	if err != nil {
		return nil, &domain.ProcessResolutionError{Handle: h, PID: pid, Err: classifyProcessErr(err)}
	}
	exe, err := proc.Exe()
	if err != nil {
		return nil, &domain.ProcessResolutionError{Handle: h, PID: pid, Err: classifyProcessErr(err)}
	}

	info := &domain.ProcessInfo{
		PID:            pid,
		Name:           name,
		ExecutablePath: exe,
	}

	// The process may exit while we read the optional fields.
	if cmdline, err := proc.CmdlineSlice(); err == nil {
		info.CommandLine = cmdline
	} else if isGone(err) {
		return nil, &domain.ProcessResolutionError{Handle: h, PID: pid, Err: domain.ErrNoSuchProcess}
	}
	if created, err := proc.CreateTime(); err == nil {
		info.CreationTime = created
	}
	if status, err := proc.Status(); err == nil {
		info.Status = strings.Join(status, ",")
	}

	return info, nil
}

func isGone(err error) bool {
	return errors.Is(classifyProcessErr(err), domain.ErrNoSuchProcess)
}

// Ensure ProcessProbeImpl implements domain.ProcessProbe.
var _ domain.ProcessProbe = (*ProcessProbeImpl)(nil)
