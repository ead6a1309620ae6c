package media

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/thriveremote/thriveos/internal/playlist"
)

// ErrAutoplayBlocked is returned by Play when the client refused to start
// playback without a user gesture.
var ErrAutoplayBlocked = errors.New("media: autoplay blocked")

// EventKind identifies a media lifecycle notification.
type EventKind string

const (
	EventLoaded EventKind = "loaded"
	EventEnded  EventKind = "ended"
	EventError  EventKind = "error"
)

// Event is a notification emitted by a Handle.
type Event struct {
	Kind EventKind
	Err  error
}

// Handle is a single playable source. Implementations report lifecycle
// changes through the listener installed with OnEvent.
type Handle interface {
	Source() string
	Play() error
	Pause()
	Seek(pos time.Duration)
	SetVolume(v float64)
	Volume() float64
	// Duration returns 0 while unknown.
	Duration() time.Duration
	CurrentTime() time.Duration
	OnEvent(fn func(Event))
	Close()
}

// Clocked is implemented by handles whose playback position is driven by the
// caller rather than by a real decoder.
type Clocked interface {
	Advance(elapsed time.Duration)
}

// Loader binds a track to a new handle.
type Loader func(track playlist.Track) (Handle, error)

// Kind names a player backend.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// ParseKind validates a backend name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindAudio:
		return KindAudio, nil
	case KindVideo:
		return KindVideo, nil
	default:
		return "", fmt.Errorf("unknown player kind %q (expected audio or video)", s)
	}
}

const embedURLTemplate = "https://www.youtube.com/embed/%s?enablejsapi=1"

// EmbedURL returns the embedded-player URL for a video id.
func EmbedURL(videoID string) string {
	return fmt.Sprintf(embedURLTemplate, url.PathEscape(videoID))
}

// AudioLoader binds tracks to an audio-element style handle sourced from the
// track's media URL.
func AudioLoader() Loader {
	return func(track playlist.Track) (Handle, error) {
		src := strings.TrimSpace(track.Src)
		if src == "" {
			return nil, fmt.Errorf("track %q has no media source", track.ID)
		}
		return NewSim(src, track.DurationValue()), nil
	}
}

// VideoLoader binds tracks to an embedded video player keyed by track id.
// Tracks without an id still bind; the handle reports an error event when
// played so the controller can skip it.
func VideoLoader() Loader {
	return func(track playlist.Track) (Handle, error) {
		id := strings.TrimSpace(track.ID)
		if id == "" {
			return NewSim("", track.DurationValue()), nil
		}
		return NewSim(EmbedURL(id), track.DurationValue()), nil
	}
}

// LoaderFor returns the stock loader for a backend kind.
func LoaderFor(kind Kind) Loader {
	if kind == KindVideo {
		return VideoLoader()
	}
	return AudioLoader()
}
