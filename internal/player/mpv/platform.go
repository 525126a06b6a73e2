package mpv

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

type Platform int

const (
	PlatformLinux Platform = iota
	PlatformWindows
	PlatformWSL
	PlatformMac
)

func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformWSL:
		return "wsl"
	case PlatformMac:
		return "darwin"
	default:
		return "linux"
	}
}

// DetectPlatform reports the host OS, telling WSL apart from plain Linux.
func DetectPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMac
	}
	if version, err := os.ReadFile("/proc/version"); err == nil {
		v := strings.ToLower(string(version))
		if strings.Contains(v, "microsoft") || strings.Contains(v, "wsl") {
			return PlatformWSL
		}
	}
	return PlatformLinux
}

// Executable is the mpv binary name. WSL runs the Linux build because gopv
// cannot dial Windows pipes from inside it.
func (p Platform) Executable() string {
	if p == PlatformWindows {
		return "mpv.exe"
	}
	return "mpv"
}

// LookupMPV resolves Executable on PATH.
func (p Platform) LookupMPV() (string, error) {
	path, err := exec.LookPath(p.Executable())
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH, install mpv or set player.backend to browser", p.Executable())
	}
	return path, nil
}

type IPCType int

const (
	IPCUnixSocket IPCType = iota
	IPCNamedPipe
)

// IPCConfig is the control endpoint of one mpv process. Address is passed to
// mpv and to gopv as is.
type IPCConfig struct {
	Type    IPCType
	Address string
}

// NewIPCConfig picks a fresh socket path, or a named pipe on Windows.
func NewIPCConfig(p Platform) (*IPCConfig, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	name := "mugiwara-mpv-" + hex.EncodeToString(b)

	if p == PlatformWindows {
		return &IPCConfig{Type: IPCNamedPipe, Address: `\\.\pipe\` + name}, nil
	}
	return &IPCConfig{Type: IPCUnixSocket, Address: filepath.Join(os.TempDir(), name+".sock")}, nil
}

func (c *IPCConfig) IsSocket() bool { return c.Type == IPCUnixSocket }

// Arg is the mpv flag that opens the endpoint.
func (c *IPCConfig) Arg() string {
	return "--input-ipc-server=" + c.Address
}
