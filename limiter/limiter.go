// Package limiter spaces out requests to the catalog. It never retries
// anything itself: it only makes the next caller wait.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultBackoff is used when a server asks us to slow down without saying
// for how long.
const DefaultBackoff = time.Minute

// New returns a limiter that keeps at least delay between requests. If
// filename is not empty, the time of the next allowed request survives
// restarts by being written there.
func New(filename string, delay time.Duration, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		filename: filename,
		delay:    delay,
		logger:   logger,
		now:      time.Now,
	}
}

type Limiter struct {
	mu       sync.Mutex
	filename string
	delay    time.Duration
	nextAt   time.Time
	logger   *zap.Logger
	now      func() time.Time
}

// Load reads a persisted next-request time, if there is one.
func (lim *Limiter) Load() error {
	if lim.filename == "" {
		return nil
	}

	bs, err := os.ReadFile(lim.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error reading limiter file '%s': %w", lim.filename, err)
	}

	nextAt, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(bs)))
	if err != nil {
		return fmt.Errorf("error parsing limiter file '%s': %w", lim.filename, err)
	}

	lim.mu.Lock()
	lim.nextAt = nextAt
	lim.mu.Unlock()
	return nil
}

// NextAt is the earliest time the next request may be sent. The zero time
// means "now".
func (lim *Limiter) NextAt() time.Time {
	lim.mu.Lock()
	defer lim.mu.Unlock()
	return lim.nextAt
}

// Wait blocks until the next request is allowed, or ctx is done.
func (lim *Limiter) Wait(ctx context.Context) error {
	nextAt := lim.NextAt()
	if nextAt.IsZero() {
		return nil
	}

	dur := nextAt.Sub(lim.now())
	if dur <= 0 {
		return nil
	}
	if dur > time.Second {
		lim.logger.Info("waiting before next catalog request",
			zap.Duration("wait", dur.Truncate(time.Second)),
			zap.Time("until", nextAt))
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if lim.filename != "" {
		if err := os.Remove(lim.filename); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error removing limiter file '%s': %w", lim.filename, err)
		}
	}
	return nil
}

// Delay records that a request was just made.
func (lim *Limiter) Delay() {
	lim.mu.Lock()
	defer lim.mu.Unlock()
	lim.nextAt = lim.now().Add(lim.delay)
}

// Backoff records a server's Retry-After header value (in seconds). An
// empty or unparsable value backs off for DefaultBackoff.
func (lim *Limiter) Backoff(retryAfter string) error {
	wait := DefaultBackoff
	if retryAfter != "" {
		seconds, err := strconv.ParseInt(strings.TrimSpace(retryAfter), 10, 64)
		if err == nil && seconds >= 0 {
			wait = time.Duration(seconds)*time.Second + time.Second
		}
	}

	lim.mu.Lock()
	lim.nextAt = lim.now().Add(wait)
	nextAt := lim.nextAt
	lim.mu.Unlock()

	lim.logger.Warn("catalog asked us to slow down", zap.Duration("wait", wait))

	if lim.filename == "" {
		return nil
	}
	if err := os.WriteFile(lim.filename, []byte(nextAt.Format(time.RFC3339Nano)), 0o666); err != nil {
		return fmt.Errorf("error writing limiter file '%s': %w", lim.filename, err)
	}
	return nil
}
