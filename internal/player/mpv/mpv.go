package mpv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/diniamo/gopv"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/player"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Player drives an mpv process over its JSON IPC
type Player struct {
	player.Callbacks

	mu sync.RWMutex

	client    *gopv.Client
	cmd       *exec.Cmd
	ipcConfig *IPCConfig
	platform  Platform
	state     player.PlaybackState
	cancel    context.CancelFunc

	extraArgs      []string
	loadUserConfig bool
	debug          bool
	logger         *slog.Logger
}

// New checks that mpv is installed and returns a stopped player
func New(cfg *config.Config, logger *slog.Logger) (*Player, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	platform := DetectPlatform()
	if _, err := platform.LookupMPV(); err != nil {
		return nil, fmt.Errorf("mpv not found: %w", err)
	}
	logger.Debug("mpv backend ready", "platform", platform)

	return &Player{
		state:          player.StateStopped,
		platform:       platform,
		extraArgs:      cfg.Player.MPVArgs,
		loadUserConfig: cfg.Player.LoadUserConfig,
		debug:          cfg.Advanced.Debug,
		logger:         logger,
	}, nil
}

// Play launches mpv and returns once the process has started.
// The IPC connection is set up in the background.
func (p *Player) Play(ctx context.Context, url string, options player.PlayOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != player.StateStopped {
		p.stopLocked()
	}

	mpvExec, err := p.platform.LookupMPV()
	if err != nil {
		return err
	}

	ipcConfig, err := NewIPCConfig(p.platform)
	if err != nil {
		return fmt.Errorf("failed to generate IPC config: %w", err)
	}
	p.ipcConfig = ipcConfig

	args := BuildArgs(url, options, ArgOptions{
		IPC:            ipcConfig,
		ExtraArgs:      p.extraArgs,
		LoadUserConfig: p.loadUserConfig,
		Debug:          p.debug,
	})

	// Keep mpv off the terminal so it doesn't fight the TUI for input
	p.cmd = exec.Command(mpvExec, args...)
	p.cmd.Stdin = nil
	p.cmd.Stdout = nil
	p.cmd.Stderr = nil
	setupProcessAttributes(p.cmd)

	if err := p.cmd.Start(); err != nil {
		p.cleanupIPC()
		return fmt.Errorf("failed to start %s: %w", mpvExec, err)
	}

	p.logger.Debug("mpv started", "pid", p.cmd.Process.Pid, "ipc", ipcConfig.Address, "title", options.Title)
	p.state = player.StateLoading

	var runCtx context.Context
	runCtx, p.cancel = context.WithCancel(context.Background())
	go p.connect(runCtx, p.cmd, ipcConfig)

	return nil
}

// connect waits for the IPC endpoint and attaches a gopv client
func (p *Player) connect(ctx context.Context, cmd *exec.Cmd, ipcConfig *IPCConfig) {
	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	fail := func(err error) {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		p.mu.Lock()
		p.cleanupIPC()
		p.state = player.StateError
		p.mu.Unlock()
		p.EmitError(err)
	}

	if err := waitForIPC(initCtx, ipcConfig); err != nil {
		fail(fmt.Errorf("timeout waiting for mpv IPC at %s: %w", ipcConfig.Address, err))
		return
	}

	client, err := gopv.Connect(ipcConfig.Address, func(err error) {
		p.EmitError(err)
	})
	if err != nil {
		fail(fmt.Errorf("failed to connect to mpv IPC at %s: %w", ipcConfig.Address, err))
		return
	}

	p.mu.Lock()
	p.client = client
	p.state = player.StatePlaying
	p.mu.Unlock()

	go p.watchProcess(cmd)
	p.pollProgress(ctx)
}

// pollProgress feeds the progress and end callbacks once a second
func (p *Player) pollProgress(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		progress, err := p.GetProgress(ctx)
		if err != nil {
			continue
		}
		p.EmitProgress(*progress)
		if progress.EOF {
			p.EmitEnd()
			return
		}
	}
}

// watchProcess waits for mpv to exit and tears the player down
func (p *Player) watchProcess(cmd *exec.Cmd) {
	err := cmd.Wait()

	p.mu.Lock()
	stopped := p.state == player.StateStopped
	p.mu.Unlock()

	if err != nil && !stopped {
		p.EmitError(fmt.Errorf("mpv process exited unexpectedly: %w", err))
	}
	_ = p.Stop(context.Background())
}

// Stop quits mpv and removes the IPC socket
func (p *Player) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

func (p *Player) stopLocked() {
	if p.state == player.StateStopped {
		return
	}
	p.state = player.StateStopped

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	// gopv closes itself when mpv exits, so only ask mpv to quit
	if p.client != nil {
		client := p.client
		p.client = nil
		go func() {
			done := make(chan struct{})
			go func() {
				_, _ = client.Request("quit")
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(500 * time.Millisecond):
			}
		}()
	}

	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
	p.cleanupIPC()
}

func (p *Player) cleanupIPC() {
	if p.ipcConfig != nil && p.ipcConfig.IsSocket() {
		_ = os.Remove(p.ipcConfig.Address)
	}
	p.ipcConfig = nil
}

// GetProgress reads time-pos, duration, pause and eof-reached from mpv
func (p *Player) GetProgress(ctx context.Context) (*player.PlaybackProgress, error) {
	p.mu.RLock()
	client := p.client
	state := p.state
	p.mu.RUnlock()

	if state == player.StateStopped || state == player.StateError {
		return nil, player.ErrPlayerClosed
	}
	if client == nil {
		return nil, fmt.Errorf("player not initialized")
	}

	type result struct {
		progress *player.PlaybackProgress
		err      error
	}
	done := make(chan result, 1)
	go func() {
		progress, err := readProgress(client)
		done <- result{progress, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("mpv IPC error: %w", r.err)
		}
		return r.progress, nil
	}
}

func readProgress(client *gopv.Client) (*player.PlaybackProgress, error) {
	var timePos, duration float64
	var paused, eof bool
	failures := 0

	if v, err := client.Request("get_property", "time-pos"); err == nil {
		timePos, _ = v.(float64)
	} else {
		failures++
	}
	if v, err := client.Request("get_property", "duration"); err == nil {
		duration, _ = v.(float64)
	} else {
		failures++
	}
	if v, err := client.Request("get_property", "pause"); err == nil {
		paused, _ = v.(bool)
	} else {
		failures++
	}
	if v, err := client.Request("get_property", "eof-reached"); err == nil {
		eof, _ = v.(bool)
	} else {
		failures++
	}

	// Every property failing means the connection is gone
	if failures == 4 {
		return nil, player.ErrPlayerClosed
	}

	position := time.Duration(timePos * float64(time.Second))
	total := time.Duration(duration * float64(time.Second))
	return &player.PlaybackProgress{
		CurrentTime: position,
		Duration:    total,
		Percentage:  player.Percent(position, total),
		Paused:      paused,
		EOF:         eof,
	}, nil
}

// IsPlaying returns true while mpv is connected
func (p *Player) IsPlaying() bool {
	return p.State() == player.StatePlaying
}

func (p *Player) State() player.PlaybackState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// waitForIPC polls until the socket or pipe accepts connections
func waitForIPC(ctx context.Context, ipcConfig *IPCConfig) error {
	timeout := 5 * time.Second
	if ipcConfig.Type == IPCNamedPipe {
		timeout = 10 * time.Second
	}

	deadline := time.After(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("no IPC endpoint after %v", timeout)
		case <-ticker.C:
			if ipcReady(ipcConfig) {
				// mpv creates the endpoint slightly before it serves it
				time.Sleep(200 * time.Millisecond)
				return nil
			}
		}
	}
}

func ipcReady(ipcConfig *IPCConfig) bool {
	if ipcConfig.IsSocket() {
		_, err := os.Stat(ipcConfig.Address)
		return err == nil
	}
	return isPipeReady(ipcConfig.Address)
}

var _ player.Player = (*Player)(nil)
