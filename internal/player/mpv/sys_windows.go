//go:build windows

package mpv

import (
	"os/exec"
	"syscall"
	"time"

	"github.com/Microsoft/go-winio"
)

// isPipeReady dials the named pipe once and hangs up
func isPipeReady(address string) bool {
	timeout := 200 * time.Millisecond
	conn, err := winio.DialPipe(address, &timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// A separate process group keeps Ctrl+C in the terminal from reaching mpv.
func setupProcessAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
