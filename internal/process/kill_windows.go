//go:build windows

// Package process terminates browser process trees left behind by the PDF renderer.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills the Chrome process tree using taskkill.
// /F = force kill, /T = terminate child processes (tree kill). Best effort.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
