package media

import (
	"errors"
	"time"

	"github.com/thriveremote/thriveos/internal/geom"
)

var errNoSource = errors.New("media: source unavailable")

// Sim is a simulated media handle. Its playback position only moves when
// Advance is called, which makes the player deterministic under test and
// lets the daemon drive it from a ticker.
type Sim struct {
	source   string
	duration time.Duration
	pos      time.Duration
	volume   float64
	playing  bool
	closed   bool
	listener func(Event)

	// BlockAutoplay makes Play fail with ErrAutoplayBlocked.
	BlockAutoplay bool
}

// NewSim creates a paused handle at position 0.
func NewSim(source string, duration time.Duration) *Sim {
	return &Sim{source: source, duration: duration, volume: 1}
}

func (s *Sim) Source() string { return s.source }

// Play starts playback. A handle without a source emits an error event
// instead of playing.
func (s *Sim) Play() error {
	if s.closed {
		return nil
	}
	if s.BlockAutoplay {
		return ErrAutoplayBlocked
	}
	if s.source == "" {
		s.emit(Event{Kind: EventError, Err: errNoSource})
		return nil
	}
	if s.duration > 0 && s.pos >= s.duration {
		s.pos = 0
	}
	s.playing = true
	return nil
}

func (s *Sim) Pause() { s.playing = false }

// Playing reports whether the handle is advancing.
func (s *Sim) Playing() bool { return s.playing }

func (s *Sim) Seek(pos time.Duration) {
	if pos < 0 {
		pos = 0
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	s.pos = pos
}

func (s *Sim) SetVolume(v float64) { s.volume = geom.ClampFloat(v, 0, 1) }

func (s *Sim) Volume() float64 { return s.volume }

func (s *Sim) Duration() time.Duration { return s.duration }

func (s *Sim) CurrentTime() time.Duration { return s.pos }

func (s *Sim) OnEvent(fn func(Event)) { s.listener = fn }

// Close detaches the listener; later calls are ignored.
func (s *Sim) Close() {
	s.closed = true
	s.playing = false
	s.listener = nil
}

// Fail emits an error event, as a broken stream would.
func (s *Sim) Fail(err error) {
	s.playing = false
	s.emit(Event{Kind: EventError, Err: err})
}

// Advance moves the playback position while playing and emits EventEnded
// when it reaches a known duration.
func (s *Sim) Advance(elapsed time.Duration) {
	if !s.playing || s.closed || elapsed <= 0 {
		return
	}
	s.pos += elapsed
	if s.duration > 0 && s.pos >= s.duration {
		s.pos = s.duration
		s.playing = false
		s.emit(Event{Kind: EventEnded})
	}
}

func (s *Sim) emit(ev Event) {
	if s.listener != nil && !s.closed {
		s.listener(ev)
	}
}
