package desktop

import (
	"sort"
	"strconv"

	"github.com/thriveremote/thriveos/internal/geom"
)

const (
	// CascadeOrigin is the x/y offset of the first window opened on an empty desktop.
	CascadeOrigin = 100
	// CascadeStep is the extra offset applied per already-open window.
	CascadeStep = 30
	// BaseZIndex is added to the open-window count to form an initial z-index.
	BaseZIndex = 100
)

// WindowID identifies an open window. IDs are never reused within a registry.
type WindowID string

// Window is a single simulated desktop window.
type Window struct {
	ID      WindowID `json:"id"`
	Title   string   `json:"title"`
	Icon    string   `json:"icon"`
	Content string   `json:"content"` // app key owned by the shell

	Position geom.Point `json:"position"`
	Size     geom.Size  `json:"size"`

	// Snapshot taken on maximize; nil until the first maximize.
	PreviousPosition *geom.Point `json:"previous_position,omitempty"`
	PreviousSize     *geom.Size  `json:"previous_size,omitempty"`

	IsMinimized bool `json:"is_minimized"`
	IsMaximized bool `json:"is_maximized"`
	ZIndex      int  `json:"z_index"`
}

// Bounds returns the window geometry as a rect.
func (w Window) Bounds() geom.Rect {
	return geom.RectOf(w.Position, w.Size)
}

func (w Window) clone() Window {
	if w.PreviousPosition != nil {
		p := *w.PreviousPosition
		w.PreviousPosition = &p
	}
	if w.PreviousSize != nil {
		s := *w.PreviousSize
		w.PreviousSize = &s
	}
	return w
}

// Viewport describes the visible desktop area. ChromeHeight is reserved at the
// bottom for the taskbar and is excluded from maximized and clamped geometry.
type Viewport struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	ChromeHeight int `json:"chrome_height"`
}

// WorkArea returns the height available to windows.
func (v Viewport) WorkArea() geom.Size {
	return geom.Size{Width: v.Width, Height: v.Height - v.ChromeHeight}
}

// Registry holds every open window of one desktop.
//
// Registry is not safe for concurrent use; the owning desktop serializes
// access the same way a UI event loop would.
type Registry struct {
	windows  []*Window // open order
	nextID   uint64
	viewport Viewport
}

// NewRegistry creates an empty registry for the given viewport.
func NewRegistry(vp Viewport) *Registry {
	return &Registry{viewport: vp, nextID: 1}
}

// Viewport returns the current viewport.
func (r *Registry) Viewport() Viewport {
	return r.viewport
}

// SetViewport updates the viewport, e.g. after a browser resize. Existing
// geometry is left untouched.
func (r *Registry) SetViewport(vp Viewport) {
	r.viewport = vp
}

// Open allocates a new window with a cascading position and a top-most
// z-index and returns its id. It always succeeds.
func (r *Registry) Open(title, content, icon string, size geom.Size) WindowID {
	count := len(r.windows)
	id := WindowID(strconv.FormatUint(r.nextID, 10))
	r.nextID++

	z := count + BaseZIndex
	if maxZ, ok := r.maxZ(); ok && z <= maxZ {
		z = maxZ + 1
	}

	offset := CascadeOrigin + CascadeStep*count
	r.windows = append(r.windows, &Window{
		ID:       id,
		Title:    title,
		Icon:     icon,
		Content:  content,
		Position: geom.Point{X: offset, Y: offset},
		Size:     size,
		ZIndex:   z,
	})
	return id
}

// Close removes the window. Missing ids are ignored.
func (r *Registry) Close(id WindowID) {
	for i, w := range r.windows {
		if w.ID == id {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			return
		}
	}
}

// ToggleMinimize flips the minimized flag.
func (r *Registry) ToggleMinimize(id WindowID) {
	if w := r.find(id); w != nil {
		w.IsMinimized = !w.IsMinimized
	}
}

// ToggleMaximize enters or leaves the maximized state. Entering snapshots the
// current geometry and fills the work area; leaving restores the snapshot,
// keeping the current geometry when none exists.
func (r *Registry) ToggleMaximize(id WindowID) {
	w := r.find(id)
	if w == nil {
		return
	}

	if w.IsMaximized {
		if w.PreviousPosition != nil {
			w.Position = *w.PreviousPosition
		}
		if w.PreviousSize != nil {
			w.Size = *w.PreviousSize
		}
		w.IsMaximized = false
		return
	}

	pos, size := w.Position, w.Size
	w.PreviousPosition = &pos
	w.PreviousSize = &size
	w.Position = geom.Point{}
	w.Size = r.viewport.WorkArea()
	w.IsMaximized = true
}

// Focus raises the window above every other window.
func (r *Registry) Focus(id WindowID) {
	w := r.find(id)
	if w == nil {
		return
	}
	maxZ, _ := r.maxZ()
	w.ZIndex = maxZ + 1
}

// SetPosition moves the window. Callers clamp.
func (r *Registry) SetPosition(id WindowID, p geom.Point) {
	if w := r.find(id); w != nil {
		w.Position = p
	}
}

// SetSize resizes the window. Callers clamp.
func (r *Registry) SetSize(id WindowID, s geom.Size) {
	if w := r.find(id); w != nil {
		w.Size = s
	}
}

// Place sets the window geometry outright, leaving the maximized state.
// The pre-maximize snapshot is kept for a later maximize toggle.
func (r *Registry) Place(id WindowID, rect geom.Rect) {
	if w := r.find(id); w != nil {
		w.Position = rect.Origin()
		w.Size = rect.Size()
		w.IsMaximized = false
	}
}

// Get returns a copy of the window.
func (r *Registry) Get(id WindowID) (Window, bool) {
	if w := r.find(id); w != nil {
		return w.clone(), true
	}
	return Window{}, false
}

// Len returns the number of open windows.
func (r *Registry) Len() int {
	return len(r.windows)
}

// List returns copies of all windows in open order.
func (r *Registry) List() []Window {
	out := make([]Window, len(r.windows))
	for i, w := range r.windows {
		out[i] = w.clone()
	}
	return out
}

// Stacked returns copies of all windows ordered bottom to top.
func (r *Registry) Stacked() []Window {
	out := r.List()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// TopMost returns the visible window with the highest z-index.
func (r *Registry) TopMost() (Window, bool) {
	var top *Window
	for _, w := range r.windows {
		if w.IsMinimized {
			continue
		}
		if top == nil || w.ZIndex > top.ZIndex {
			top = w
		}
	}
	if top == nil {
		return Window{}, false
	}
	return top.clone(), true
}

// WindowAt returns the top-most visible window under p.
func (r *Registry) WindowAt(p geom.Point) (Window, bool) {
	var hit *Window
	for _, w := range r.windows {
		if w.IsMinimized || !w.Bounds().Contains(p) {
			continue
		}
		if hit == nil || w.ZIndex > hit.ZIndex {
			hit = w
		}
	}
	if hit == nil {
		return Window{}, false
	}
	return hit.clone(), true
}

// FindByContent returns the first window showing the given app key.
func (r *Registry) FindByContent(content string) (Window, bool) {
	for _, w := range r.windows {
		if w.Content == content {
			return w.clone(), true
		}
	}
	return Window{}, false
}

func (r *Registry) find(id WindowID) *Window {
	for _, w := range r.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (r *Registry) maxZ() (int, bool) {
	if len(r.windows) == 0 {
		return 0, false
	}
	maxZ := r.windows[0].ZIndex
	for _, w := range r.windows[1:] {
		if w.ZIndex > maxZ {
			maxZ = w.ZIndex
		}
	}
	return maxZ, true
}
