// Package playback tracks which preview is playing. At most one preview plays
// at a time; the Controller drives an Output to match its state.
package playback

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrNoPreview is returned by Toggle for a track without a preview URL.
var ErrNoPreview = errors.New("no preview available for this track")

// Output plays audio. Load replaces whatever source was loaded before.
type Output interface {
	Load(url string) error
	Play() error
	Pause() error
}

// State is either idle (Playing false, ID 0) or playing the track with ID.
type State struct {
	Playing bool
	ID      int64
}

func (s State) String() string {
	if !s.Playing {
		return "idle"
	}
	return fmt.Sprintf("playing %d", s.ID)
}

type Controller struct {
	mu     sync.Mutex
	out    Output
	state  State
	logger *zap.Logger
}

func New(out Output, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{out: out, logger: logger}
}

// Toggle is what clicking a track's play control does:
//
//   - with no preview URL: ErrNoPreview, state unchanged
//   - while that same track is playing: pause, go idle
//   - otherwise: pause whatever is playing, load url, play
//
// If the Output fails the controller goes idle and returns the error.
func (c *Controller) Toggle(id int64, url string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if url == "" {
		return c.state, ErrNoPreview
	}

	if c.state.Playing && c.state.ID == id {
		err := c.out.Pause()
		c.state = State{}
		if err != nil {
			return c.state, fmt.Errorf("error pausing: %w", err)
		}
		c.logger.Info("paused preview", zap.Int64("track_id", id))
		return c.state, nil
	}

	if c.state.Playing {
		if err := c.out.Pause(); err != nil {
			c.state = State{}
			return c.state, fmt.Errorf("error pausing: %w", err)
		}
		c.logger.Debug("stopped preview", zap.Int64("track_id", c.state.ID))
	}

	if err := c.out.Load(url); err != nil {
		c.state = State{}
		return c.state, fmt.Errorf("error loading preview: %w", err)
	}
	if err := c.out.Play(); err != nil {
		c.state = State{}
		return c.state, fmt.Errorf("error playing preview: %w", err)
	}

	c.state = State{Playing: true, ID: id}
	c.logger.Info("playing preview", zap.Int64("track_id", id), zap.String("url", url))
	return c.state, nil
}

// Ended is called when the output reaches the end of a preview.
func (c *Controller) Ended() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Playing {
		c.logger.Debug("preview ended", zap.Int64("track_id", c.state.ID))
	}
	c.state = State{}
}

// Stop pauses any playing preview and goes idle.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Playing {
		return nil
	}
	c.state = State{}
	return c.out.Pause()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
