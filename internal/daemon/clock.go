package daemon

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/shell"
)

// Clock advances the media clock of every session's players.
type Clock struct {
	interval time.Duration
	sessions *Sessions
	log      logrus.FieldLogger
	now      func() time.Time
	last     time.Time
}

// NewClock creates a clock ticking every interval.
func NewClock(interval time.Duration, sessions *Sessions, log logrus.FieldLogger) *Clock {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Clock{interval: interval, sessions: sessions, log: log, now: time.Now}
}

// Run ticks until ctx is cancelled.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.last = c.now()
	c.log.WithField("interval", c.interval).Debug("media clock started")
	for {
		select {
		case <-ctx.Done():
			c.log.Debug("media clock stopped")
			return
		case <-ticker.C:
			now := c.now()
			c.Tick(now.Sub(c.last))
			c.last = now
		}
	}
}

// Tick advances every desktop by elapsed.
func (c *Clock) Tick(elapsed time.Duration) {
	// A panicking player must not stop the clock for other sessions.
	defer func() {
		if err := recover(); err != nil {
			c.log.WithField("error", err).Error("media clock panic recovered")
		}
	}()
	c.sessions.Each(func(d *shell.Desktop) { d.Tick(elapsed) })
}
