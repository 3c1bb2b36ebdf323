//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

const createNewProcessGroup = 0x00000200

// mpv gets its own process group so ctrl+c in the console stays with the interface.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
