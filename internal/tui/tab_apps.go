package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thriveremote/thriveos/internal/shell"
)

// appItem implements list.Item for the launcher.
type appItem struct {
	app shell.App
}

func (i appItem) Title() string { return i.app.Icon + " " + i.app.Title }

func (i appItem) Description() string {
	var parts []string
	parts = append(parts, i.app.Key)
	if i.app.Console {
		parts = append(parts, "console")
	}
	if i.app.Catalog != "" {
		parts = append(parts, "portal:"+i.app.Catalog)
	}
	return strings.Join(parts, " | ")
}

func (i appItem) FilterValue() string { return i.app.Title }

// AppsTab launches desktop apps.
type AppsTab struct {
	list    list.Model
	backend Backend
}

// NewAppsTab creates the launcher over every known app.
func NewAppsTab(b Backend) AppsTab {
	apps := shell.Apps()
	items := make([]list.Item, 0, len(apps))
	for _, a := range apps {
		items = append(items, appItem{app: a})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(items, delegate, 0, 0)
	l.Title = "Apps"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return AppsTab{list: l, backend: b}
}

// Update implements tea.Model.
func (at AppsTab) Update(msg tea.Msg) (AppsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		at.list.SetSize(msg.Width, msg.Height)
		return at, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !at.list.SettingFilter() {
			item, ok := at.list.SelectedItem().(appItem)
			if !ok {
				return at, nil
			}
			b := at.backend
			return at, run("opened "+item.app.Title, func() error {
				_, err := b.OpenApp(item.app.Key)
				return err
			})
		}
	}

	var cmd tea.Cmd
	at.list, cmd = at.list.Update(msg)
	return at, cmd
}

// Filtering reports whether the filter prompt is capturing keys.
func (at AppsTab) Filtering() bool { return at.list.SettingFilter() }

// View implements tea.Model.
func (at AppsTab) View() string { return at.list.View() }
