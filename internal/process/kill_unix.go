//go:build !windows

// Package process terminates browser process trees left behind by the PDF renderer.
package process

import "syscall"

// KillProcessGroup kills the Chrome process and its renderer children by
// sending SIGKILL to the process group (negative PID). Best effort.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
