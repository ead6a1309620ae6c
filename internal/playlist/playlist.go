package playlist

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Track is a single playlist entry.
type Track struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Artist   string `json:"artist" yaml:"artist"`
	Album    string `json:"album,omitempty" yaml:"album,omitempty"`
	Duration string `json:"duration" yaml:"duration"` // display form, "M:SS"
	Cover    string `json:"cover" yaml:"cover"`
	Source   string `json:"source" yaml:"source"`
	Src      string `json:"src,omitempty" yaml:"src,omitempty"` // audio variant media URL
}

// DurationValue parses the display duration. It returns 0 when the string is
// empty or malformed.
func (t Track) DurationValue() time.Duration {
	d, err := ParseDuration(t.Duration)
	if err != nil {
		return 0
	}
	return d
}

// ParseDuration parses "M:SS" or "H:MM:SS".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}

// FormatDuration renders d as "M:SS", the form shown by the player.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// RepeatMode is the playback continuation policy.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none"
	RepeatOne  RepeatMode = "one"
	RepeatAll  RepeatMode = "all"
)

// Next returns the mode that follows m in the none → one → all cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatOne
	case RepeatOne:
		return RepeatAll
	default:
		return RepeatNone
	}
}

// ParseRepeatMode validates a wire value.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch RepeatMode(strings.ToLower(strings.TrimSpace(s))) {
	case RepeatNone, "":
		return RepeatNone, nil
	case RepeatOne:
		return RepeatOne, nil
	case RepeatAll:
		return RepeatAll, nil
	default:
		return RepeatNone, fmt.Errorf("invalid repeat mode %q (expected none, one or all)", s)
	}
}

// Playlist is an ordered track sequence. The zero value is an empty playlist.
type Playlist struct {
	tracks []Track
}

// New creates a playlist holding a copy of tracks.
func New(tracks []Track) *Playlist {
	p := &Playlist{}
	p.tracks = append(p.tracks, tracks...)
	return p
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// At returns the track at i.
func (p *Playlist) At(i int) (Track, bool) {
	if i < 0 || i >= len(p.tracks) {
		return Track{}, false
	}
	return p.tracks[i], true
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	out := make([]Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// Append adds tracks at the end.
func (p *Playlist) Append(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Policy decides index movement for next/previous.
type Policy struct {
	Shuffle bool
	Repeat  RepeatMode
	Rand    *rand.Rand // nil uses the global source
}

// NextIndex returns the index after cur. With shuffle a uniformly random
// index is chosen and the current index is not excluded. Without shuffle the
// index advances, wrapping to 0 only under RepeatAll and otherwise staying on
// the last track. RepeatOne is handled by the caller, which replays in place.
func (pol Policy) NextIndex(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if pol.Shuffle {
		if pol.Rand != nil {
			return pol.Rand.Intn(n)
		}
		return rand.Intn(n)
	}
	next := cur + 1
	if next >= n {
		if pol.Repeat == RepeatAll {
			return 0
		}
		return cur
	}
	return next
}

// PreviousIndex steps back one track, always wrapping to the last track from
// index 0 regardless of repeat mode.
func PreviousIndex(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur-1 < 0 {
		return n - 1
	}
	return cur - 1
}
