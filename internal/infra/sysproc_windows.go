//go:build windows

package infra

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// DetachedAttr makes a child outlive its parent with no console.
func DetachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
}
