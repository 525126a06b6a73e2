//go:build !windows

package mpv

import "os/exec"

// Unix builds use a socket file, which ipcReady stats directly.
func isPipeReady(string) bool { return false }

func setupProcessAttributes(*exec.Cmd) {}
