// Package music supplies tracks to the video player: a curated playlist,
// fuzzy search over known tracks and YouTube playlist import.
package music

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/sirupsen/logrus"
	"github.com/ytget/ytdlp/v2"

	"github.com/thriveremote/thriveos/internal/playlist"
)

const (
	// DefaultMaxResults is used when a search does not ask for a count.
	DefaultMaxResults = 5
	// MaxResultsCap bounds any search.
	MaxResultsCap = 25
	// DefaultImportTimeout bounds a playlist import.
	DefaultImportTimeout = 30 * time.Second

	coverURLTemplate = "https://img.youtube.com/vi/%s/hqdefault.jpg"
)

// Track sources.
const (
	SourceCurated  = "YouTube"
	SourceSearch   = "YouTube Search"
	SourcePlaylist = "YouTube Playlist"
)

// ErrInvalidPlaylist is returned when no playlist id can be extracted.
var ErrInvalidPlaylist = errors.New("invalid playlist reference")

// Item is one entry of a remote playlist.
type Item struct {
	VideoID string
	Title   string
	Author  string
	Seconds int
}

// Fetcher lists the items of a remote playlist.
type Fetcher interface {
	PlaylistItems(ctx context.Context, playlistID string) ([]Item, error)
}

// YTDLPFetcher reads playlists with ytdlp.
type YTDLPFetcher struct {
	// Limit caps the number of items; 0 fetches everything.
	Limit int
}

// PlaylistItems implements Fetcher.
func (f YTDLPFetcher) PlaylistItems(ctx context.Context, playlistID string) ([]Item, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// CoverURL returns the thumbnail of a video.
func CoverURL(videoID string) string {
	return fmt.Sprintf(coverURLTemplate, videoID)
}

// FormatSeconds renders a duration in seconds as M:SS, "0:00" when unknown.
func FormatSeconds(seconds int) string {
	return playlist.FormatDuration(time.Duration(seconds) * time.Second)
}

// Curated returns the built-in playlist.
func Curated() []playlist.Track {
	return []playlist.Track{
		{
			ID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", Artist: "Rick Astley",
			Album: "Whenever You Need Somebody", Duration: "3:33",
			Cover:  "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=300&h=300&fit=crop",
			Source: SourceCurated,
		},
		{
			ID: "kJQP7kiw5Fk", Title: "Despacito", Artist: "Luis Fonsi ft. Daddy Yankee",
			Album: "Vida", Duration: "4:42",
			Cover:  "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=300&h=300&fit=crop",
			Source: SourceCurated,
		},
		{
			ID: "YQHsXMglC9A", Title: "Hello", Artist: "Adele",
			Album: "25", Duration: "6:07",
			Cover:  "https://images.unsplash.com/photo-1519389950473-47ba0277781c?w=300&h=300&fit=crop",
			Source: SourceCurated,
		},
		{
			ID: "9bZkp7q19f0", Title: "Gangnam Style", Artist: "PSY",
			Album: "Psy 6 (Six Rules), Part 1", Duration: "4:13",
			Cover:  "https://images.unsplash.com/photo-1518609878373-06d740f60d8b?w=300&h=300&fit=crop",
			Source: SourceCurated,
		},
		{
			ID: "L_jWHffIx5E", Title: "Smells Like Teen Spirit", Artist: "Nirvana",
			Album: "Nevermind", Duration: "5:01",
			Cover:  "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=300&h=300&fit=crop",
			Source: SourceCurated,
		},
	}
}

// AudioPlaylist returns the static playlist of the taskbar audio player.
func AudioPlaylist() []playlist.Track {
	const soundjay = "https://www.soundjay.com/misc/sounds/"
	return []playlist.Track{
		{
			ID: "1", Title: "Ambient Space", Artist: "Kevin MacLeod", Album: "Royalty Free", Duration: "3:42",
			Src:    soundjay + "beep-24.wav",
			Cover:  "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=300&h=300&fit=crop",
			Source: "Free Music Archive",
		},
		{
			ID: "2", Title: "Digital Dreams", Artist: "AudioNautix", Album: "Synthwave Collection", Duration: "4:15",
			Src:    soundjay + "beep-25.wav",
			Cover:  "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=300&h=300&fit=crop",
			Source: "AudioNautix",
		},
		{
			ID: "3", Title: "Neo Tokyo", Artist: "Jamendo Artist", Album: "Cyberpunk Vibes", Duration: "5:23",
			Src:    soundjay + "beep-26.wav",
			Cover:  "https://images.unsplash.com/photo-1519389950473-47ba0277781c?w=300&h=300&fit=crop",
			Source: "Jamendo",
		},
		{
			ID: "4", Title: "Quantum Flow", Artist: "SoundCloud Creative", Album: "Electronic Essence", Duration: "3:58",
			Src:    soundjay + "beep-27.wav",
			Cover:  "https://images.unsplash.com/photo-1518609878373-06d740f60d8b?w=300&h=300&fit=crop",
			Source: "SoundCloud",
		},
		{
			ID: "5", Title: "Neural Network", Artist: "Free Music Project", Album: "AI Soundscapes", Duration: "6:12",
			Src:    soundjay + "beep-28.wav",
			Cover:  "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=300&h=300&fit=crop",
			Source: "Free Music Archive",
		},
	}
}

// Service answers playlist, search and import requests. It is safe for
// concurrent use.
type Service struct {
	fetcher Fetcher
	timeout time.Duration
	log     logrus.FieldLogger

	mu    sync.Mutex
	known []playlist.Track
	index map[string]int
}

// NewService creates a service. A nil fetcher uses YTDLPFetcher.
func NewService(fetcher Fetcher, log logrus.FieldLogger) *Service {
	if fetcher == nil {
		fetcher = YTDLPFetcher{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Service{
		fetcher: fetcher,
		timeout: DefaultImportTimeout,
		log:     log.WithField("component", "music"),
		index:   make(map[string]int),
	}
	s.remember(Curated()...)
	return s
}

// SetTimeout changes the import timeout.
func (s *Service) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Playlist returns the curated playlist.
func (s *Service) Playlist() []playlist.Track {
	return Curated()
}

type trackSource []playlist.Track

func (t trackSource) String(i int) string {
	return t[i].Title + " " + t[i].Artist + " " + t[i].Album
}

func (t trackSource) Len() int { return len(t) }

// Search ranks every known track against query. limit <= 0 means
// DefaultMaxResults; larger values are capped at MaxResultsCap.
func (s *Service) Search(query string, limit int) []playlist.Track {
	query = strings.TrimSpace(query)
	if query == "" {
		return []playlist.Track{}
	}
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if limit > MaxResultsCap {
		limit = MaxResultsCap
	}

	s.mu.Lock()
	src := trackSource(append([]playlist.Track(nil), s.known...))
	s.mu.Unlock()

	matches := fuzzy.FindFrom(query, src)
	out := make([]playlist.Track, 0, limit)
	for _, m := range matches {
		tr := src[m.Index]
		tr.Source = SourceSearch
		out = append(out, tr)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ImportPlaylist fetches a YouTube playlist by id or URL. Imported tracks
// become searchable.
func (s *Service) ImportPlaylist(ctx context.Context, ref string) ([]playlist.Track, error) {
	id := PlaylistID(ref)
	if id == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlaylist, ref)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.fetcher.PlaylistItems(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("playlist", id).Warn("playlist import failed")
		return nil, fmt.Errorf("import playlist %s: %w", id, err)
	}

	tracks := make([]playlist.Track, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		tracks = append(tracks, trackFromItem(it))
	}
	s.remember(tracks...)
	s.log.WithFields(logrus.Fields{"playlist": id, "tracks": len(tracks)}).Info("imported playlist")
	return tracks, nil
}

func trackFromItem(it Item) playlist.Track {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = "Unknown Title"
	}
	artist := strings.TrimSpace(it.Author)
	if artist == "" {
		artist = "Unknown Artist"
	}
	return playlist.Track{
		ID:       it.VideoID,
		Title:    title,
		Artist:   artist,
		Duration: FormatSeconds(it.Seconds),
		Cover:    CoverURL(it.VideoID),
		Source:   SourcePlaylist,
	}
}

func (s *Service) remember(tracks ...playlist.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tr := range tracks {
		if i, ok := s.index[tr.ID]; ok {
			s.known[i] = tr
			continue
		}
		s.index[tr.ID] = len(s.known)
		s.known = append(s.known, tr)
	}
}

// PlaylistID extracts a playlist id from a bare id or a URL carrying a
// list= parameter.
func PlaylistID(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if !strings.Contains(ref, "://") && !strings.Contains(ref, "list=") {
		return ref
	}
	if !strings.Contains(ref, "://") {
		ref = "https://www.youtube.com/playlist?" + ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return u.Query().Get("list")
}

// VideoID extracts the video id from a watch or short URL.
func VideoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	switch u.Hostname() {
	case "www.youtube.com", "youtube.com", "m.youtube.com", "music.youtube.com":
		v := u.Query().Get("v")
		return v, v != ""
	case "youtu.be":
		v := strings.Trim(u.Path, "/")
		return v, v != ""
	default:
		return "", false
	}
}
