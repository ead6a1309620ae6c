package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thriveremote/thriveos/internal/config"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/shell"
)

// windowItem implements list.Item for the window sidebar.
type windowItem struct {
	win    desktop.Window
	active bool
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.active {
		prefix = "* "
	}
	return prefix + i.win.Icon + " " + i.win.Title
}

func (i windowItem) Description() string {
	var flags []string
	if i.win.IsMinimized {
		flags = append(flags, "minimized")
	}
	if i.win.IsMaximized {
		flags = append(flags, "maximized")
	}
	desc := fmt.Sprintf("#%s %dx%d at %d,%d", i.win.ID, i.win.Size.Width, i.win.Size.Height, i.win.Position.X, i.win.Position.Y)
	if len(flags) > 0 {
		desc += " (" + strings.Join(flags, ", ") + ")"
	}
	return desc
}

func (i windowItem) FilterValue() string { return i.win.Title }

// DesktopTab lists the open windows next to a preview of the desktop.
type DesktopTab struct {
	list    list.Model
	backend Backend
	state   *shell.State
	layout  int // next mode for the tile key

	width  int
	height int
}

// NewDesktopTab creates the window browser.
func NewDesktopTab(b Backend) DesktopTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return DesktopTab{list: l, backend: b}
}

// SetState replaces the shown desktop, keeping the selected window when it
// is still open.
func (dt *DesktopTab) SetState(st *shell.State) {
	selected := dt.selectedID()
	dt.state = st

	active := desktop.WindowID("")
	for _, e := range st.Taskbar {
		if e.IsActive {
			active = e.ID
		}
	}
	items := make([]list.Item, 0, len(st.Windows))
	cursor := 0
	for i, w := range st.Windows {
		if w.ID == selected {
			cursor = i
		}
		items = append(items, windowItem{win: w, active: w.ID == active})
	}
	dt.list.SetItems(items)
	if len(items) > 0 {
		dt.list.Select(cursor)
	}
}

func (dt DesktopTab) selectedID() desktop.WindowID {
	item, ok := dt.list.SelectedItem().(windowItem)
	if !ok {
		return ""
	}
	return item.win.ID
}

// Update implements tea.Model.
func (dt DesktopTab) Update(msg tea.Msg) (DesktopTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		dt.width = msg.Width
		dt.height = msg.Height
		dt.list.SetSize(dt.sidebarWidth(), dt.height)
		return dt, nil

	case tea.KeyMsg:
		if msg.String() == "t" {
			modes := config.LayoutModes()
			mode := string(modes[dt.layout%len(modes)])
			dt.layout++
			b := dt.backend
			return dt, run("arranged windows ("+mode+")", func() error {
				_, err := b.Arrange(mode)
				return err
			})
		}

		var action string
		switch msg.String() {
		case "enter", "f":
			action = shell.WindowFocus
		case "m":
			action = shell.WindowMinimize
		case "x":
			action = shell.WindowMaximize
		case "c", "delete":
			action = shell.WindowClose
		}
		if action != "" {
			id := dt.selectedID()
			if id == "" {
				return dt, nil
			}
			b := dt.backend
			return dt, run(fmt.Sprintf("%s window %s", action, id), func() error {
				return b.WindowAction(id, action)
			})
		}
	}

	var cmd tea.Cmd
	dt.list, cmd = dt.list.Update(msg)
	return dt, cmd
}

func (dt DesktopTab) sidebarWidth() int {
	// Sidebar takes ~35% of width, min 24, max 44
	sw := dt.width * 35 / 100
	if sw < 24 {
		sw = 24
	}
	if sw > 44 {
		sw = 44
	}
	return sw
}

// View renders the sidebar and the preview side by side.
func (dt DesktopTab) View() string {
	sidebar := dt.list.View()
	previewW := dt.width - dt.sidebarWidth() - 2
	if previewW < 1 {
		return sidebar
	}

	var preview string
	if dt.state == nil {
		preview = dimStyle.Render("waiting for daemon...")
	} else {
		preview = strings.Join(renderDesktopPreview(dt.state, previewW, dt.height), "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(dt.sidebarWidth()).Render(sidebar),
		"  ",
		preview,
	)
}
