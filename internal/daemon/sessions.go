package daemon

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thriveremote/thriveos/internal/shell"
)

// DefaultSession is the desktop shared by the CLI, IPC and MCP surfaces.
const DefaultSession = "default"

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	desktop  *shell.Desktop
	created  time.Time
	lastUsed time.Time
}

// SessionInfo describes one live session.
type SessionInfo struct {
	ID       string    `json:"id"`
	Windows  int       `json:"windows"`
	Created  time.Time `json:"created"`
	LastUsed time.Time `json:"last_used"`
}

// Sessions holds one desktop per client session. The default session is
// never evicted. It is safe for concurrent use.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	max     int
	factory func() *shell.Desktop
	now     func() time.Time
}

// NewSessions creates a session table holding at most max desktops besides
// the default one.
func NewSessions(max int, factory func() *shell.Desktop) *Sessions {
	if max <= 0 {
		max = 1
	}
	s := &Sessions{
		entries: make(map[string]*sessionEntry),
		max:     max,
		factory: factory,
		now:     time.Now,
	}
	now := s.now()
	s.entries[DefaultSession] = &sessionEntry{desktop: factory(), created: now, lastUsed: now}
	return s
}

// Create starts a new session. When the table is full the least recently
// used session is closed to make room.
func (s *Sessions) Create() (string, *shell.Desktop) {
	d := s.factory()
	id := uuid.NewString()

	s.mu.Lock()
	var evicted []*shell.Desktop
	for len(s.entries)-1 >= s.max {
		d := s.evictLocked()
		if d == nil {
			break
		}
		evicted = append(evicted, d)
	}
	now := s.now()
	s.entries[id] = &sessionEntry{desktop: d, created: now, lastUsed: now}
	s.mu.Unlock()

	for _, e := range evicted {
		e.Close()
	}
	return id, d
}

func (s *Sessions) evictLocked() *shell.Desktop {
	var oldest string
	var at time.Time
	for id, e := range s.entries {
		if id == DefaultSession {
			continue
		}
		if oldest == "" || e.lastUsed.Before(at) {
			oldest, at = id, e.lastUsed
		}
	}
	if oldest == "" {
		return nil
	}
	e := s.entries[oldest]
	delete(s.entries, oldest)
	return e.desktop
}

// SetMax changes the capacity. Existing sessions are kept until the next
// Create needs room.
func (s *Sessions) SetMax(max int) {
	if max <= 0 {
		return
	}
	s.mu.Lock()
	s.max = max
	s.mu.Unlock()
}

// Get returns the desktop of session id and marks it used.
func (s *Sessions) Get(id string) (*shell.Desktop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.lastUsed = s.now()
	return e.desktop, nil
}

// Default returns the shared desktop.
func (s *Sessions) Default() *shell.Desktop {
	d, _ := s.Get(DefaultSession)
	return d
}

// Delete closes session id. The default session cannot be deleted.
func (s *Sessions) Delete(id string) error {
	if id == DefaultSession {
		return fmt.Errorf("cannot delete the %s session", DefaultSession)
	}
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.desktop.Close()
	return nil
}

// Len counts live sessions, the default one included.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// List describes every session, oldest first.
func (s *Sessions) List() []SessionInfo {
	type row struct {
		info    SessionInfo
		desktop *shell.Desktop
	}
	s.mu.Lock()
	rows := make([]row, 0, len(s.entries))
	for id, e := range s.entries {
		rows = append(rows, row{
			info:    SessionInfo{ID: id, Created: e.created, LastUsed: e.lastUsed},
			desktop: e.desktop,
		})
	}
	s.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].info, rows[j].info
		if a.Created.Equal(b.Created) {
			return a.ID < b.ID
		}
		return a.Created.Before(b.Created)
	})
	out := make([]SessionInfo, 0, len(rows))
	for _, r := range rows {
		r.info.Windows = len(r.desktop.Windows())
		out = append(out, r.info)
	}
	return out
}

// Each calls fn for every desktop outside the table lock.
func (s *Sessions) Each(fn func(*shell.Desktop)) {
	s.mu.Lock()
	desktops := make([]*shell.Desktop, 0, len(s.entries))
	for _, e := range s.entries {
		desktops = append(desktops, e.desktop)
	}
	s.mu.Unlock()
	for _, d := range desktops {
		fn(d)
	}
}

// Close releases every desktop.
func (s *Sessions) Close() {
	s.Each(func(d *shell.Desktop) { d.Close() })
}
