//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// mpv runs in its own process group so terminal signals aimed at the interface do not reach it.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killProcess takes down mpv together with any helpers it spawned (yt-dlp).
func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err == nil {
		return nil
	}
	return cmd.Process.Kill()
}
