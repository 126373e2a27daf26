// Package player plays preview URLs by running an external command line
// player, such as ffplay or mpv, with the URL as its last argument.
package player

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

var ErrNothingLoaded = errors.New("no preview loaded")

// Player implements playback.Output. Play starts the command; Pause kills
// it. Playing again starts over from the beginning.
type Player struct {
	mu      sync.Mutex
	bin     string
	args    []string
	url     string
	cmd     *exec.Cmd
	onEnded func()
	logger  *zap.Logger
}

func New(bin string, args []string, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{bin: bin, args: args, logger: logger}
}

// OnEnded sets f to be called, from another goroutine, whenever a
// preview plays to its end. It isn't called for previews stopped by Pause
// or Load.
func (p *Player) OnEnded(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEnded = f
}

func (p *Player) Load(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
	p.url = url
	return nil
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.url == "" {
		return ErrNothingLoaded
	}
	p.stop()

	args := append(append([]string{}, p.args...), p.url)
	cmd := exec.Command(p.bin, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error starting %s: %w", p.bin, err)
	}
	p.cmd = cmd
	p.logger.Debug("started player", zap.String("bin", p.bin), zap.Int("pid", cmd.Process.Pid))

	go p.wait(cmd)
	return nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
	return nil
}

// Close stops any running player.
func (p *Player) Close() error {
	return p.Pause()
}

// stop must be called with mu held.
func (p *Player) stop() {
	if p.cmd == nil {
		return
	}
	cmd := p.cmd
	p.cmd = nil
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.logger.Warn("error stopping player", zap.Error(err))
	}
}

func (p *Player) wait(cmd *exec.Cmd) {
	err := cmd.Wait()

	p.mu.Lock()
	current := p.cmd == cmd
	if current {
		p.cmd = nil
	}
	onEnded := p.onEnded
	p.mu.Unlock()

	if !current {
		return
	}
	if err != nil {
		p.logger.Warn("player exited with error", zap.String("bin", p.bin), zap.Error(err))
	}
	if onEnded != nil {
		onEnded()
	}
}
