package shell

import (
	"github.com/thriveremote/thriveos/internal/desktop"
)

// TaskbarEntry is one open window as shown in the taskbar.
type TaskbarEntry struct {
	ID          desktop.WindowID `json:"id"`
	Title       string           `json:"title"`
	Icon        string           `json:"icon"`
	IsMinimized bool             `json:"is_minimized"`
	IsActive    bool             `json:"is_active"`
}

// Taskbar renders registry state in open order. The active entry is the
// top-most window that is not minimized.
func Taskbar(reg *desktop.Registry) []TaskbarEntry {
	var active desktop.WindowID
	if top, ok := reg.TopMost(); ok {
		active = top.ID
	}

	windows := reg.List()
	out := make([]TaskbarEntry, 0, len(windows))
	for _, w := range windows {
		out = append(out, TaskbarEntry{
			ID:          w.ID,
			Title:       w.Title,
			Icon:        w.Icon,
			IsMinimized: w.IsMinimized,
			IsActive:    w.ID == active,
		})
	}
	return out
}
