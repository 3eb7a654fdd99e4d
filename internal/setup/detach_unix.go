//go:build !windows

package setup

import "syscall"

// detachAttr puts the child in its own process group so it survives
// the terminal session that spawned it.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
