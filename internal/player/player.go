package player

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/geom"
	"github.com/thriveremote/thriveos/internal/media"
	"github.com/thriveremote/thriveos/internal/playlist"
)

// DefaultVolume is the starting volume of a new player.
const DefaultVolume = 0.7

// ErrReadOnlyPlaylist is returned when adding tracks to a static playlist.
var ErrReadOnlyPlaylist = errors.New("player: playlist is read-only")

// Phase is the playback state.
type Phase string

const (
	PhaseIdle    Phase = "idle"    // no track
	PhaseLoaded  Phase = "loaded"  // track bound, paused
	PhasePlaying Phase = "playing" // track bound and playing
)

// Options configures a Controller.
type Options struct {
	Kind   media.Kind
	Loader media.Loader // nil uses media.LoaderFor(Kind)
	Volume *float64     // nil uses DefaultVolume

	// SkipOnError advances to the next track when the handle reports an error.
	SkipOnError bool
	// AllowAppend permits Add.
	AllowAppend bool

	Rand   *rand.Rand
	Logger logrus.FieldLogger
}

// AudioOptions returns the options of the audio-element player: a static
// playlist and no error recovery.
func AudioOptions() Options {
	return Options{Kind: media.KindAudio}
}

// VideoOptions returns the options of the embedded-video player: an
// append-only playlist that skips unavailable media.
func VideoOptions() Options {
	return Options{Kind: media.KindVideo, SkipOnError: true, AllowAppend: true}
}

// State is a snapshot of the player for rendering.
type State struct {
	Kind              media.Kind          `json:"kind"`
	Phase             Phase               `json:"phase"`
	CurrentTrackIndex int                 `json:"current_track_index"`
	Track             *playlist.Track     `json:"track,omitempty"`
	IsPlaying         bool                `json:"is_playing"`
	CurrentTime       float64             `json:"current_time"` // seconds
	Duration          float64             `json:"duration"`     // seconds, 0 while unknown
	Volume            float64             `json:"volume"`
	IsShuffling       bool                `json:"is_shuffling"`
	RepeatMode        playlist.RepeatMode `json:"repeat_mode"`
	IsExpanded        bool                `json:"is_expanded"`
	PlaylistLength    int                 `json:"playlist_length"`
}

// Controller drives one media handle through a playlist.
//
// It is not safe for concurrent use; the owning desktop serializes calls.
type Controller struct {
	opts   Options
	loader media.Loader
	log    logrus.FieldLogger

	list    *playlist.Playlist
	index   int
	phase   Phase
	handle  media.Handle
	ended   bool
	pending []media.Event

	volume   float64
	shuffle  bool
	repeat   playlist.RepeatMode
	expanded bool
}

// New creates a controller over tracks. The first track, if any, is bound
// and paused.
func New(tracks []playlist.Track, opts Options) *Controller {
	loader := opts.Loader
	if loader == nil {
		loader = media.LoaderFor(opts.Kind)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	volume := DefaultVolume
	if opts.Volume != nil {
		volume = *opts.Volume
	}

	c := &Controller{
		opts:   opts,
		loader: loader,
		log:    logger.WithField("player", string(opts.Kind)),
		list:   playlist.New(tracks),
		phase:  PhaseIdle,
		volume: geom.ClampFloat(volume, 0, 1),
		repeat: playlist.RepeatNone,
	}
	if c.list.Len() > 0 {
		c.bind(0)
	}
	return c
}

// State returns a snapshot.
func (c *Controller) State() State {
	st := State{
		Kind:              c.opts.Kind,
		Phase:             c.phase,
		CurrentTrackIndex: c.index,
		IsPlaying:         c.phase == PhasePlaying,
		Volume:            c.volume,
		IsShuffling:       c.shuffle,
		RepeatMode:        c.repeat,
		IsExpanded:        c.expanded,
		PlaylistLength:    c.list.Len(),
	}
	if tr, ok := c.list.At(c.index); ok {
		st.Track = &tr
	}
	if c.handle != nil {
		st.CurrentTime = c.handle.CurrentTime().Seconds()
		st.Duration = c.handle.Duration().Seconds()
	}
	return st
}

// Tracks returns the playlist.
func (c *Controller) Tracks() []playlist.Track {
	return c.list.Tracks()
}

// TogglePlay pauses a playing track or starts a loaded one.
func (c *Controller) TogglePlay() {
	if c.list.Len() == 0 {
		return
	}
	if c.phase == PhasePlaying {
		if c.handle != nil {
			c.handle.Pause()
		}
		c.phase = PhaseLoaded
		return
	}
	c.play()
	c.drain()
}

// Next advances according to the shuffle and repeat policies.
func (c *Controller) Next() {
	c.next()
	c.drain()
}

// Previous steps back one track, wrapping from the first to the last.
func (c *Controller) Previous() {
	if c.list.Len() == 0 {
		return
	}
	c.switchTo(playlist.PreviousIndex(c.index, c.list.Len()))
	c.drain()
}

// Select jumps to track i.
func (c *Controller) Select(i int) error {
	if i < 0 || i >= c.list.Len() {
		return fmt.Errorf("track index %d out of range [0,%d)", i, c.list.Len())
	}
	c.switchTo(i)
	c.drain()
	return nil
}

// Seek moves to fraction (0..1) of the track. It does nothing while the
// duration is unknown.
func (c *Controller) Seek(fraction float64) {
	if c.handle == nil {
		return
	}
	d := c.handle.Duration()
	if d <= 0 {
		return
	}
	fraction = geom.ClampFloat(fraction, 0, 1)
	c.handle.Seek(time.Duration(fraction * float64(d)))
	c.ended = false
}

// SetVolume clamps v to [0,1] and keeps it for later tracks.
func (c *Controller) SetVolume(v float64) {
	c.volume = geom.ClampFloat(v, 0, 1)
	if c.handle != nil {
		c.handle.SetVolume(c.volume)
	}
}

// ToggleShuffle flips shuffle mode.
func (c *Controller) ToggleShuffle() {
	c.shuffle = !c.shuffle
}

// CycleRepeat moves none → one → all → none.
func (c *Controller) CycleRepeat() playlist.RepeatMode {
	c.repeat = c.repeat.Next()
	return c.repeat
}

// SetRepeat sets the repeat mode directly.
func (c *Controller) SetRepeat(m playlist.RepeatMode) {
	c.repeat = m
}

// ToggleExpanded flips the expanded view flag.
func (c *Controller) ToggleExpanded() {
	c.expanded = !c.expanded
}

// Add appends tracks. Only append-capable players accept it.
func (c *Controller) Add(tracks ...playlist.Track) error {
	if !c.opts.AllowAppend {
		return ErrReadOnlyPlaylist
	}
	wasEmpty := c.list.Len() == 0
	c.list.Append(tracks...)
	if wasEmpty && c.list.Len() > 0 {
		c.bind(0)
	}
	return nil
}

// HandleEvent feeds an event reported by an external media client.
func (c *Controller) HandleEvent(ev media.Event) {
	c.pending = append(c.pending, ev)
	c.drain()
}

// Tick advances a clocked handle by elapsed.
func (c *Controller) Tick(elapsed time.Duration) {
	if clk, ok := c.handle.(media.Clocked); ok && c.phase == PhasePlaying {
		clk.Advance(elapsed)
	}
	c.drain()
}

// Close releases the bound handle.
func (c *Controller) Close() {
	if c.handle != nil {
		c.handle.Close()
		c.handle = nil
	}
	c.pending = nil
}

func (c *Controller) next() {
	n := c.list.Len()
	if n == 0 {
		return
	}
	if c.repeat == playlist.RepeatOne {
		if c.handle != nil {
			c.handle.Seek(0)
		}
		c.ended = false
		if c.phase == PhasePlaying {
			c.play()
		}
		return
	}
	pol := playlist.Policy{Shuffle: c.shuffle, Repeat: c.repeat, Rand: c.opts.Rand}
	c.switchTo(pol.NextIndex(c.index, n))
}

// switchTo rebinds to track i, resuming only if playback was active.
func (c *Controller) switchTo(i int) {
	if i == c.index && c.handle != nil {
		if c.ended {
			// End of list without wrap: playback stops advancing.
			c.phase = PhaseLoaded
		}
		return
	}
	wasPlaying := c.phase == PhasePlaying
	c.bind(i)
	if wasPlaying {
		c.play()
	}
}

func (c *Controller) bind(i int) {
	if c.handle != nil {
		c.handle.Close()
		c.handle = nil
	}
	c.index = i
	c.ended = false
	c.phase = PhaseLoaded

	track, _ := c.list.At(i)
	h, err := c.loader(track)
	if err != nil {
		c.log.WithError(err).WithField("track", track.ID).Warn("failed to bind track")
		return
	}
	h.SetVolume(c.volume)
	h.OnEvent(func(ev media.Event) {
		if c.handle == h {
			c.pending = append(c.pending, ev)
		}
	})
	c.handle = h
}

func (c *Controller) play() {
	if c.handle == nil {
		return
	}
	if err := c.handle.Play(); err != nil {
		// Autoplay refusals leave the player paused.
		c.log.WithError(err).Debug("play rejected")
		c.phase = PhaseLoaded
		return
	}
	c.ended = false
	c.phase = PhasePlaying
}

// drain processes queued handle events. Each event may rebind and replay,
// which can queue more events; the loop is bounded so a playlist of broken
// sources cannot spin forever.
func (c *Controller) drain() {
	budget := c.list.Len() + 1
	for len(c.pending) > 0 {
		ev := c.pending[0]
		c.pending = c.pending[1:]

		switch ev.Kind {
		case media.EventEnded:
			c.ended = true
			c.next()
		case media.EventError:
			c.log.WithError(ev.Err).Info("media error")
			if !c.opts.SkipOnError {
				c.phase = PhaseLoaded
				continue
			}
			budget--
			if budget <= 0 {
				c.log.Warn("every track failed; stopping playback")
				c.pending = nil
				c.phase = PhaseLoaded
				return
			}
			c.ended = true
			c.next()
		}
	}
}
