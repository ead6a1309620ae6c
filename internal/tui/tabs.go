package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/thriveremote/thriveos/internal/daemon"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabDesktop Tab = iota
	TabApps
	TabMusic
	TabConsole
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabDesktop:
		return "Desktop"
	case TabApps:
		return "Apps"
	case TabMusic:
		return "Music"
	case TabConsole:
		return "Console"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar renders the daemon connection and system readout.
func renderStatusBar(connected bool, summary *daemon.Summary, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected"}
		if summary != nil {
			m := summary.Metrics
			parts = append(parts,
				"up "+summary.Uptime,
				fmt.Sprintf("windows:%d", summary.Windows),
				fmt.Sprintf("mem %.1f/%.0fGB", m.Memory.Used, m.Memory.Total),
				fmt.Sprintf("bat %d%%", m.Battery),
				fmt.Sprintf("%.0f°C", m.Temperature),
				humanize.Comma(int64(summary.Database.TotalRecords))+" records",
			)
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

// renderHelpBar renders the bottom keybinding bar for the active tab.
func renderHelpBar(active Tab, statusText string, statusErr bool, width int) string {
	var help string
	switch active {
	case TabDesktop:
		help = "enter/f: focus  m: minimize  x: maximize  c: close  t: tile"
	case TabApps:
		help = "enter: open app"
	case TabMusic:
		help = "space: play/pause  n/p: next/prev  s: shuffle  r: repeat  +/-: volume  v: audio/video  /: search"
	case TabConsole:
		help = "enter: run command  ctrl+l: clear"
	}
	help += "  tab: switch  ctrl-c: quit"

	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	if statusText != "" {
		if statusErr {
			return style.Render(errorStyle.Render(statusText))
		}
		return style.Render(okStyle.Render(statusText))
	}
	return style.Render(help)
}
