package interaction

import (
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/geom"
)

const (
	DefaultMinWidth  = 300
	DefaultMinHeight = 200
)

// Limits bounds resize gestures.
type Limits struct {
	MinWidth  int
	MinHeight int
}

// DefaultLimits returns the stock minimum window size.
func DefaultLimits() Limits {
	return Limits{MinWidth: DefaultMinWidth, MinHeight: DefaultMinHeight}
}

// Controller turns pointer events into registry mutations.
//
// It is not safe for concurrent use; the owning desktop serializes calls.
type Controller struct {
	reg    *desktop.Registry
	limits Limits
	state  State
}

// NewController creates an idle controller bound to reg.
func NewController(reg *desktop.Registry, limits Limits) *Controller {
	if limits.MinWidth <= 0 {
		limits.MinWidth = DefaultMinWidth
	}
	if limits.MinHeight <= 0 {
		limits.MinHeight = DefaultMinHeight
	}
	return &Controller{reg: reg, limits: limits}
}

// State returns a copy of the active gesture.
func (c *Controller) State() State {
	return c.state
}

// Phase returns the active gesture phase.
func (c *Controller) Phase() Phase {
	return c.state.Phase
}

// PointerDown handles a press on a window. Any press outside the control
// buttons raises the window; presses on the header or resize handle of a
// non-maximized window start a drag or resize.
func (c *Controller) PointerDown(id desktop.WindowID, target Target, p geom.Point) {
	w, ok := c.reg.Get(id)
	if !ok || target == TargetControl {
		return
	}
	c.reg.Focus(id)

	if c.state.Phase != PhaseIdle || w.IsMaximized {
		return
	}

	switch target {
	case TargetHeader:
		c.state = State{
			Phase:  PhaseDragging,
			Window: id,
			Offset: geom.Point{X: p.X - w.Position.X, Y: p.Y - w.Position.Y},
		}
	case TargetResizeHandle:
		c.state = State{
			Phase:        PhaseResizing,
			Window:       id,
			StartPointer: p,
			StartSize:    w.Size,
		}
	}
}

// PointerMove applies the active gesture. It reports whether the registry
// changed.
func (c *Controller) PointerMove(p geom.Point) bool {
	if c.state.Phase == PhaseIdle {
		return false
	}

	w, ok := c.reg.Get(c.state.Window)
	if !ok || w.IsMaximized {
		// Closed or maximized underneath the gesture.
		c.state.Reset()
		return false
	}

	vp := c.reg.Viewport()
	switch c.state.Phase {
	case PhaseDragging:
		pos := geom.Point{
			X: geom.Clamp(p.X-c.state.Offset.X, 0, vp.Width-w.Size.Width),
			Y: geom.Clamp(p.Y-c.state.Offset.Y, 0, vp.Height-w.Size.Height-vp.ChromeHeight),
		}
		if pos == w.Position {
			return false
		}
		c.reg.SetPosition(w.ID, pos)
		return true

	case PhaseResizing:
		dx := p.X - c.state.StartPointer.X
		dy := p.Y - c.state.StartPointer.Y

		width := max(c.limits.MinWidth, c.state.StartSize.Width+dx)
		height := max(c.limits.MinHeight, c.state.StartSize.Height+dy)

		// The far edge may not leave the viewport; with a fixed origin this
		// takes precedence over the minimum size.
		width = min(width, vp.Width-w.Position.X)
		height = min(height, vp.Height-w.Position.Y-vp.ChromeHeight)

		// An origin left outside a shrunken viewport leaves no room at all;
		// the size never drops below min(limit, current).
		width = max(width, min(c.limits.MinWidth, w.Size.Width))
		height = max(height, min(c.limits.MinHeight, w.Size.Height))

		size := geom.Size{Width: width, Height: height}
		if size == w.Size {
			return false
		}
		c.reg.SetSize(w.ID, size)
		return true
	}
	return false
}

// PointerUp ends any gesture, wherever the pointer is.
func (c *Controller) PointerUp() {
	c.state.Reset()
}

// DoubleClick toggles maximize when the header is double-clicked.
func (c *Controller) DoubleClick(id desktop.WindowID, target Target) {
	if target != TargetHeader {
		return
	}
	if c.state.Window == id {
		c.state.Reset()
	}
	c.reg.ToggleMaximize(id)
}

// Click raises the window unless a control button was hit.
func (c *Controller) Click(id desktop.WindowID, target Target) {
	if target == TargetControl {
		return
	}
	c.reg.Focus(id)
}

// Forget drops a gesture bound to a window that is going away.
func (c *Controller) Forget(id desktop.WindowID) {
	if c.state.Window == id {
		c.state.Reset()
	}
}
