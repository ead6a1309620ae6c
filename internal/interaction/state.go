package interaction

import (
	"fmt"

	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/geom"
)

// Phase represents the current gesture phase
type Phase int

const (
	// PhaseIdle means no gesture is active
	PhaseIdle Phase = iota
	// PhaseDragging means a window header is held and follows the pointer
	PhaseDragging
	// PhaseResizing means a resize handle is held
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Target is the part of a window a pointer event landed on.
type Target int

const (
	TargetBody Target = iota
	TargetHeader
	TargetResizeHandle
	TargetControl // minimize/maximize/close buttons
)

func (t Target) String() string {
	switch t {
	case TargetBody:
		return "body"
	case TargetHeader:
		return "header"
	case TargetResizeHandle:
		return "resize"
	case TargetControl:
		return "control"
	default:
		return "unknown"
	}
}

// ParseTarget converts a wire name into a Target.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "", "body":
		return TargetBody, nil
	case "header", "title":
		return TargetHeader, nil
	case "resize", "resize-handle":
		return TargetResizeHandle, nil
	case "control":
		return TargetControl, nil
	default:
		return TargetBody, fmt.Errorf("unknown pointer target %q", s)
	}
}

// State holds the active gesture. Only one gesture exists per desktop.
type State struct {
	Phase  Phase
	Window desktop.WindowID

	// Dragging: pointer position relative to the window origin.
	Offset geom.Point

	// Resizing: pointer and size captured at gesture start.
	StartPointer geom.Point
	StartSize    geom.Size
}

// Reset returns the state to idle
func (s *State) Reset() {
	*s = State{}
}
