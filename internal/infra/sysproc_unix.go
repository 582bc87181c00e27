//go:build !windows

package infra

import "syscall"

// DetachedAttr makes a child outlive its parent with no controlling terminal.
func DetachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid: true, // Create new session (detach from terminal)
	}
}
