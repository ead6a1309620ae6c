package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/geom"
	"github.com/thriveremote/thriveos/internal/music"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/shell"
)

type fakeBackend struct {
	desk *shell.Desktop
}

func newFakeBackend() *fakeBackend {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &fakeBackend{desk: shell.NewDesktop(shell.Options{
		AudioTracks: music.AudioPlaylist(),
		Logger:      log,
	})}
}

func (b *fakeBackend) GetStatus() (*daemon.Summary, error) {
	return &daemon.Summary{Running: true, Uptime: "1m", Windows: len(b.desk.Windows())}, nil
}

func (b *fakeBackend) GetState() (*shell.State, error) {
	st := b.desk.State()
	return &st, nil
}

func (b *fakeBackend) OpenApp(app string) (*desktop.Window, error) {
	w, err := b.desk.Launch(app)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (b *fakeBackend) WindowAction(id desktop.WindowID, action string) error {
	return b.desk.WindowAction(id, action)
}

func (b *fakeBackend) Arrange(mode string) ([]desktop.Window, error) {
	return b.desk.Arrange(mode)
}

func (b *fakeBackend) PlayerAction(cmd shell.PlayerCommand) (*player.State, error) {
	st, err := b.desk.Player(cmd)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (b *fakeBackend) ConsoleExec(window desktop.WindowID, input string) (*shell.ConsoleReply, error) {
	reply, err := b.desk.Exec(window, input)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (b *fakeBackend) MusicSearch(query string, maxResults int) ([]playlist.Track, error) {
	return []playlist.Track{{ID: "abc", Title: "Found " + query, Artist: "Someone", Duration: "3:00"}}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send applies msg and then feeds back the message its command produces, the
// way the bubbletea runtime would for a single non-batched command.
func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd == nil {
		return m
	}
	out := cmd()
	switch out.(type) {
	case statusMsg, consoleMsg, searchMsg, stateMsg:
		next, _ = m.Update(out)
		m = next.(model)
	}
	return m
}

func refresh(t *testing.T, m model) model {
	t.Helper()
	next, _ := m.Update(fetchState(m.backend)())
	return next.(model)
}

func newTestModel(t *testing.T) (model, *fakeBackend) {
	t.Helper()
	b := newFakeBackend()
	m := newModel(b)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = refresh(t, next.(model))
	return m, b
}

func TestRenderDesktopPreview_WindowCorners(t *testing.T) {
	st := &shell.State{
		Viewport: desktop.Viewport{Width: 1280, Height: 800, ChromeHeight: 60},
		Windows: []desktop.Window{{
			ID:       "1",
			Title:    "Terminal",
			Position: geom.Point{X: 0, Y: 0},
			Size:     geom.Size{Width: 640, Height: 370},
			ZIndex:   101,
		}},
	}
	lines := renderDesktopPreview(st, 66, 39)
	if len(lines) != 39 {
		t.Fatalf("expected 39 lines, got %d", len(lines))
	}
	at := func(x, y int) rune { return []rune(lines[y])[x] }

	if at(0, 0) != '╔' || at(65, 38) != '╝' {
		t.Fatalf("expected outer border, got %q and %q", at(0, 0), at(65, 38))
	}
	if at(1, 1) != '┌' {
		t.Fatalf("expected window corner at (1,1), got %q", at(1, 1))
	}
	if at(32, 18) != '┘' {
		t.Fatalf("expected window corner at (32,18), got %q", at(32, 18))
	}
	if !strings.Contains(lines[1], "1:Terminal") {
		t.Fatalf("expected window label on top edge: %q", lines[1])
	}
}

func TestRenderDesktopPreview_StackingAndMinimized(t *testing.T) {
	st := &shell.State{
		Viewport: desktop.Viewport{Width: 1000, Height: 500},
		Windows: []desktop.Window{
			{ID: "2", Title: "Top", Position: geom.Point{X: 200, Y: 100}, Size: geom.Size{Width: 400, Height: 200}, ZIndex: 102},
			{ID: "1", Title: "Bottom", Position: geom.Point{X: 0, Y: 0}, Size: geom.Size{Width: 600, Height: 300}, ZIndex: 101},
			{ID: "3", Title: "Hidden", Position: geom.Point{X: 0, Y: 0}, Size: geom.Size{Width: 900, Height: 400}, ZIndex: 103, IsMinimized: true},
		},
	}
	out := strings.Join(renderDesktopPreview(st, 52, 27), "\n")
	if strings.Contains(out, "Hidden") {
		t.Fatalf("minimized windows should not be drawn")
	}
	if !strings.Contains(out, "2:Top") || !strings.Contains(out, "1:Bottom") {
		t.Fatalf("expected both visible windows:\n%s", out)
	}
}

func TestRenderDesktopPreview_TooSmall(t *testing.T) {
	lines := renderDesktopPreview(&shell.State{}, 3, 2)
	if len(lines) != 2 || strings.TrimSpace(lines[0]) != "" {
		t.Fatalf("expected blank canvas, got %q", lines)
	}
}

func TestModel_TabSwitching(t *testing.T) {
	m, _ := newTestModel(t)
	if m.activeTab != TabDesktop {
		t.Fatalf("expected desktop tab first")
	}
	m = send(t, m, key("tab"))
	if m.activeTab != TabApps {
		t.Fatalf("expected apps tab, got %s", m.activeTab)
	}
	m = send(t, m, key("3"))
	if m.activeTab != TabMusic {
		t.Fatalf("expected music tab, got %s", m.activeTab)
	}
	m = send(t, m, key("4"))
	if m.activeTab != TabConsole {
		t.Fatalf("expected console tab, got %s", m.activeTab)
	}
	// The console prompt owns digit keys.
	m = send(t, m, key("1"))
	if m.activeTab != TabConsole {
		t.Fatalf("digits should type into the console")
	}
	if got := m.consoleTab.input.Value(); got != "1" {
		t.Fatalf("expected typed digit, got %q", got)
	}
}

func TestModel_OpenAndControlWindows(t *testing.T) {
	m, b := newTestModel(t)

	m = send(t, m, key("2"))
	m = send(t, m, key("enter"))
	if m.statusErr || !strings.HasPrefix(m.statusText, "opened ") {
		t.Fatalf("unexpected status %q", m.statusText)
	}
	if len(b.desk.Windows()) != 1 {
		t.Fatalf("expected one window")
	}

	m = send(t, m, key("1"))
	m = refresh(t, m)
	if len(m.desktopTab.list.Items()) != 1 {
		t.Fatalf("expected window listed, got %d", len(m.desktopTab.list.Items()))
	}

	m = send(t, m, key("x"))
	if w := b.desk.Windows()[0]; !w.IsMaximized {
		t.Fatalf("expected maximized window")
	}
	m = send(t, m, key("t"))
	if m.statusText != "arranged windows (auto)" {
		t.Fatalf("unexpected status %q", m.statusText)
	}
	if w := b.desk.Windows()[0]; w.IsMaximized || w.Size.Width != 1260 {
		t.Fatalf("expected a single restored tile, got %+v", w)
	}
	m = send(t, m, key("t"))
	if m.statusText != "arranged windows (vertical)" {
		t.Fatalf("expected the tile key to cycle modes, got %q", m.statusText)
	}

	m = send(t, m, key("c"))
	if len(b.desk.Windows()) != 0 {
		t.Fatalf("expected window closed")
	}
	if !strings.Contains(m.statusText, "close") {
		t.Fatalf("unexpected status %q", m.statusText)
	}
}

func TestModel_MusicControls(t *testing.T) {
	m, b := newTestModel(t)
	m = send(t, m, key("3"))

	m = send(t, m, key(" "))
	if !b.desk.State().Audio.IsPlaying {
		t.Fatalf("expected audio playing")
	}
	m = refresh(t, m)
	if !strings.Contains(m.musicTab.View(), "▶") {
		t.Fatalf("expected play indicator in view")
	}

	m = send(t, m, key("-"))
	if got := b.desk.State().Audio.Volume; got > m.musicTab.audio.Volume {
		t.Fatalf("volume should not increase, got %v", got)
	}

	// Search and queue the result on the video player.
	m = send(t, m, key("/"))
	if !m.musicTab.Capturing() {
		t.Fatalf("expected search box focused")
	}
	m.musicTab.input.SetValue("road")
	m = send(t, m, key("enter"))
	if len(m.musicTab.results.Items()) != 1 {
		t.Fatalf("expected one result, got %d", len(m.musicTab.results.Items()))
	}
	m = send(t, m, key("enter"))
	tracks, err := b.desk.PlayerTracks("video")
	if err != nil {
		t.Fatalf("PlayerTracks: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "abc" {
		t.Fatalf("expected queued track, got %+v", tracks)
	}
}

func TestModel_Console(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, key("4"))

	m.consoleTab.input.SetValue("pwd")
	m = send(t, m, key("enter"))
	if m.consoleTab.input.Value() != "" {
		t.Fatalf("expected prompt cleared")
	}
	if n := len(m.consoleTab.history); n != 3 {
		t.Fatalf("expected welcome plus one exchange, got %d lines", n)
	}
	if !strings.Contains(m.consoleTab.View(), "$ pwd") {
		t.Fatalf("expected echoed command in view")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if n := len(m.consoleTab.history); n != 1 {
		t.Fatalf("expected scrollback reset, got %d lines", n)
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(summaryMsg{summary: &daemon.Summary{Uptime: "5m", Windows: 0}})
	m = next.(model)
	out := m.View()
	if !strings.Contains(out, "daemon connected") || !strings.Contains(out, "up 5m") {
		t.Fatalf("expected connected status bar:\n%s", out)
	}
	if !strings.Contains(out, "1:Desktop") {
		t.Fatalf("expected tab bar")
	}
}
