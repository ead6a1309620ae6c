package shell

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/config"
	"github.com/thriveremote/thriveos/internal/console"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/geom"
	"github.com/thriveremote/thriveos/internal/interaction"
	"github.com/thriveremote/thriveos/internal/media"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/tiling"
)

var (
	// ErrWindowNotFound is returned for an id that is not open.
	ErrWindowNotFound = errors.New("window not found")
	// ErrUnknownAction is returned for an unsupported window or player action.
	ErrUnknownAction = errors.New("unknown action")
	// ErrNotConsole is returned when running commands in a non-terminal window.
	ErrNotConsole = errors.New("window has no console")
)

// DefaultViewport is the desktop size before a client reports its own.
func DefaultViewport() desktop.Viewport {
	return desktop.Viewport{Width: 1280, Height: 800, ChromeHeight: 60}
}

// Options configures a Desktop.
type Options struct {
	Viewport    desktop.Viewport
	Limits      interaction.Limits
	Audio       player.Options
	AudioTracks []playlist.Track
	Video       player.Options
	VideoTracks []playlist.Track
	Layout      config.Layout
	Info        console.InfoFunc
	Logger      logrus.FieldLogger
}

// Desktop is one simulated desktop session. Every method is safe for
// concurrent use; calls are serialized the way a UI event loop would
// dispatch them.
type Desktop struct {
	mu sync.Mutex

	reg      *desktop.Registry
	ctl      *interaction.Controller
	audio    *player.Controller
	video    *player.Controller
	consoles map[desktop.WindowID]*console.Console
	shellCon *console.Console
	info     console.InfoFunc
	layout   config.Layout
	menuOpen bool
	log      logrus.FieldLogger
}

// NewDesktop creates an empty desktop.
func NewDesktop(opts Options) *Desktop {
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = DefaultViewport()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Layout.Mode == "" {
		opts.Layout = config.DefaultConfig().Layout
	}
	if opts.Audio.Kind == "" {
		opts.Audio = player.AudioOptions()
	}
	if opts.Video.Kind == "" {
		opts.Video = player.VideoOptions()
	}
	opts.Audio.Logger = log
	opts.Video.Logger = log

	reg := desktop.NewRegistry(opts.Viewport)
	return &Desktop{
		reg:      reg,
		ctl:      interaction.NewController(reg, opts.Limits),
		audio:    player.New(opts.AudioTracks, opts.Audio),
		video:    player.New(opts.VideoTracks, opts.Video),
		consoles: make(map[desktop.WindowID]*console.Console),
		shellCon: console.New(opts.Info),
		info:     opts.Info,
		layout:   opts.Layout,
		log:      log,
	}
}

// GestureState is the active pointer gesture.
type GestureState struct {
	Phase  string           `json:"phase"`
	Window desktop.WindowID `json:"window,omitempty"`
}

// State is a full snapshot for rendering.
type State struct {
	Viewport      desktop.Viewport `json:"viewport"`
	Windows       []desktop.Window `json:"windows"`
	Taskbar       []TaskbarEntry   `json:"taskbar"`
	StartMenuOpen bool             `json:"start_menu_open"`
	Gesture       GestureState     `json:"gesture"`
	Audio         player.State     `json:"audio"`
	Video         player.State     `json:"video"`
}

// State returns a snapshot.
func (d *Desktop) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateLocked()
}

func (d *Desktop) stateLocked() State {
	g := d.ctl.State()
	return State{
		Viewport:      d.reg.Viewport(),
		Windows:       d.reg.List(),
		Taskbar:       Taskbar(d.reg),
		StartMenuOpen: d.menuOpen,
		Gesture:       GestureState{Phase: g.Phase.String(), Window: g.Window},
		Audio:         d.audio.State(),
		Video:         d.video.State(),
	}
}

// Windows lists open windows in open order.
func (d *Desktop) Windows() []desktop.Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reg.List()
}

// Window returns one window.
func (d *Desktop) Window(id desktop.WindowID) (desktop.Window, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reg.Get(id)
}

// Launch opens a window for app key.
func (d *Desktop) Launch(key string) (desktop.Window, error) {
	app, err := LookupApp(key)
	if err != nil {
		return desktop.Window{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.reg.Open(app.Title, app.Key, app.Icon, app.Size)
	if app.Console {
		d.consoles[id] = console.New(d.info)
	}
	d.log.WithFields(logrus.Fields{"window": id, "app": app.Key}).Debug("window opened")
	w, _ := d.reg.Get(id)
	return w, nil
}

// Window control actions.
const (
	WindowClose    = "close"
	WindowMinimize = "minimize"
	WindowMaximize = "maximize"
	WindowFocus    = "focus"
)

// WindowAction applies a chrome button or taskbar command to a window.
func (d *Desktop) WindowAction(id desktop.WindowID, action string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.reg.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	switch strings.ToLower(strings.TrimSpace(action)) {
	case WindowClose:
		d.closeLocked(id)
	case WindowMinimize:
		d.reg.ToggleMinimize(id)
	case WindowMaximize:
		d.reg.ToggleMaximize(id)
	case WindowFocus:
		d.reg.Focus(id)
	default:
		return fmt.Errorf("%w: window %q", ErrUnknownAction, action)
	}
	return nil
}

// TaskbarClick toggles minimize, as clicking a taskbar entry does.
func (d *Desktop) TaskbarClick(id desktop.WindowID) error {
	return d.WindowAction(id, WindowMinimize)
}

func (d *Desktop) closeLocked(id desktop.WindowID) {
	d.ctl.Forget(id)
	d.reg.Close(id)
	delete(d.consoles, id)
	d.log.WithField("window", id).Debug("window closed")
}

// Arrange tiles every visible window over the work area. An empty mode uses
// the configured layout. Master-stack gives the top-most window the master
// pane; the other modes place windows in open order.
func (d *Desktop) Arrange(mode string) ([]desktop.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	layout := d.layout
	m, err := tiling.ParseMode(strings.ToLower(strings.TrimSpace(mode)), layout.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAction, err)
	}
	layout.Mode = m

	var visible []desktop.Window
	for _, w := range d.reg.List() {
		if !w.IsMinimized {
			visible = append(visible, w)
		}
	}
	if m == config.LayoutModeMasterStack {
		if top, ok := d.reg.TopMost(); ok {
			for i, w := range visible {
				if w.ID == top.ID {
					visible = append([]desktop.Window{w}, append(visible[:i:i], visible[i+1:]...)...)
					break
				}
			}
		}
	}

	wa := d.reg.Viewport().WorkArea()
	rects, err := tiling.Positions(len(visible), geom.Rect{Width: wa.Width, Height: wa.Height}, layout)
	if err != nil {
		return nil, err
	}
	for i, w := range visible {
		d.reg.Place(w.ID, rects[i])
	}
	d.log.WithFields(logrus.Fields{"mode": m, "windows": len(visible)}).Debug("windows arranged")
	return d.reg.List(), nil
}

// Pointer event kinds.
const (
	PointerDown     = "down"
	PointerMove     = "move"
	PointerUp       = "up"
	PointerDblClick = "dblclick"
	PointerClick    = "click"
)

// PointerEvent is one pointer event in viewport coordinates.
type PointerEvent struct {
	Kind   string           `json:"kind"`
	Target string           `json:"target,omitempty"`
	Window desktop.WindowID `json:"window,omitempty"`
	X      int              `json:"x"`
	Y      int              `json:"y"`
}

// Pointer feeds one event to the interaction controller and reports whether
// window geometry changed.
func (d *Desktop) Pointer(ev PointerEvent) (bool, error) {
	target, err := interaction.ParseTarget(ev.Target)
	if err != nil {
		return false, err
	}
	p := geom.Point{X: ev.X, Y: ev.Y}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Kind {
	case PointerMove:
		return d.ctl.PointerMove(p), nil
	case PointerUp:
		d.ctl.PointerUp()
		return false, nil
	}

	id := ev.Window
	if id == "" {
		w, ok := d.reg.WindowAt(p)
		if !ok {
			return false, nil
		}
		id = w.ID
	}
	before, ok := d.reg.Get(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}

	switch ev.Kind {
	case PointerDown:
		d.ctl.PointerDown(id, target, p)
	case PointerDblClick:
		d.ctl.DoubleClick(id, target)
	case PointerClick:
		d.ctl.Click(id, target)
	default:
		return false, fmt.Errorf("%w: pointer %q", ErrUnknownAction, ev.Kind)
	}
	after, _ := d.reg.Get(id)
	return before.Bounds() != after.Bounds(), nil
}

// SetViewport records a client resize.
func (d *Desktop) SetViewport(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	vp := d.reg.Viewport()
	vp.Width, vp.Height = width, height
	d.reg.SetViewport(vp)
}

// ToggleStartMenu opens or closes the start menu.
func (d *Desktop) ToggleStartMenu() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.menuOpen = !d.menuOpen
	return d.menuOpen
}

// MenuSelection is the outcome of choosing a start menu item.
type MenuSelection struct {
	Window *desktop.Window `json:"window,omitempty"`
	URL    string          `json:"url,omitempty"`
}

// SelectMenu runs a start menu action and closes the menu.
func (d *Desktop) SelectMenu(action string) (MenuSelection, error) {
	kind, target, err := ParseAction(action)
	if err != nil {
		return MenuSelection{}, err
	}
	d.mu.Lock()
	d.menuOpen = false
	d.mu.Unlock()

	if kind == ActionLink {
		return MenuSelection{URL: target}, nil
	}
	w, err := d.Launch(target)
	if err != nil {
		return MenuSelection{}, err
	}
	return MenuSelection{Window: &w}, nil
}

// Player actions.
const (
	PlayerToggle   = "toggle"
	PlayerNext     = "next"
	PlayerPrevious = "previous"
	PlayerSeek     = "seek"
	PlayerVolume   = "volume"
	PlayerShuffle  = "shuffle"
	PlayerRepeat   = "repeat"
	PlayerExpand   = "expand"
	PlayerSelect   = "select"
	PlayerAdd      = "add"
	// PlayerEvent reports a media event from a client-side player, such as
	// an embedded video that ended or failed to load.
	PlayerEvent    = "event"
)

// PlayerCommand addresses one of the two players.
type PlayerCommand struct {
	Player   string           `json:"player"` // audio or video
	Action   string           `json:"action"`
	Fraction float64          `json:"fraction,omitempty"`
	Volume   float64          `json:"volume,omitempty"`
	Index    int              `json:"index,omitempty"`
	Repeat   string           `json:"repeat,omitempty"` // empty cycles
	Tracks   []playlist.Track `json:"tracks,omitempty"`
	Event    string           `json:"event,omitempty"`   // ended or error
	Message  string           `json:"message,omitempty"` // error detail
}

// Player applies cmd and returns the resulting player state.
func (d *Desktop) Player(cmd PlayerCommand) (player.State, error) {
	kind, err := media.ParseKind(cmd.Player)
	if err != nil {
		return player.State{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.audio
	if kind == media.KindVideo {
		p = d.video
	}
	switch strings.ToLower(strings.TrimSpace(cmd.Action)) {
	case PlayerToggle:
		p.TogglePlay()
	case PlayerNext:
		p.Next()
	case PlayerPrevious:
		p.Previous()
	case PlayerSeek:
		p.Seek(cmd.Fraction)
	case PlayerVolume:
		p.SetVolume(cmd.Volume)
	case PlayerShuffle:
		p.ToggleShuffle()
	case PlayerRepeat:
		if cmd.Repeat == "" {
			p.CycleRepeat()
			break
		}
		m, err := playlist.ParseRepeatMode(cmd.Repeat)
		if err != nil {
			return p.State(), err
		}
		p.SetRepeat(m)
	case PlayerExpand:
		p.ToggleExpanded()
	case PlayerSelect:
		if err := p.Select(cmd.Index); err != nil {
			return p.State(), err
		}
	case PlayerAdd:
		if err := p.Add(cmd.Tracks...); err != nil {
			return p.State(), err
		}
	case PlayerEvent:
		ev, err := parseMediaEvent(cmd.Event, cmd.Message)
		if err != nil {
			return p.State(), err
		}
		p.HandleEvent(ev)
	default:
		return p.State(), fmt.Errorf("%w: player %q", ErrUnknownAction, cmd.Action)
	}
	return p.State(), nil
}

func parseMediaEvent(kind, message string) (media.Event, error) {
	switch media.EventKind(strings.ToLower(strings.TrimSpace(kind))) {
	case media.EventEnded:
		return media.Event{Kind: media.EventEnded}, nil
	case media.EventError:
		if message == "" {
			message = "media unavailable"
		}
		return media.Event{Kind: media.EventError, Err: errors.New(message)}, nil
	}
	return media.Event{}, fmt.Errorf("%w: media event %q", ErrUnknownAction, kind)
}

// PlayerTracks returns the playlist of the named player.
func (d *Desktop) PlayerTracks(name string) ([]playlist.Track, error) {
	kind, err := media.ParseKind(name)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if kind == media.KindVideo {
		return d.video.Tracks(), nil
	}
	return d.audio.Tracks(), nil
}

// ConsoleReply is the outcome of a console command.
type ConsoleReply struct {
	Result  console.Result `json:"result"`
	History []console.Line `json:"history"`
}

// Exec runs input in the console of window id. An empty id uses the
// desktop-wide console that backs the CLI and MCP surfaces.
func (d *Desktop) Exec(id desktop.WindowID, input string) (ConsoleReply, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	con := d.shellCon
	if id != "" {
		if _, ok := d.reg.Get(id); !ok {
			return ConsoleReply{}, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
		}
		c, ok := d.consoles[id]
		if !ok {
			return ConsoleReply{}, fmt.Errorf("%w: %s", ErrNotConsole, id)
		}
		con = c
	}
	res := con.Exec(input)
	return ConsoleReply{Result: res, History: con.History()}, nil
}

// Tick advances both players' media clocks.
func (d *Desktop) Tick(elapsed time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.audio.Tick(elapsed)
	d.video.Tick(elapsed)
}

// Close releases media handles.
func (d *Desktop) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.audio.Close()
	d.video.Close()
}
