package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/shell"
)

// model is the root bubbletea model for the TUI.
type model struct {
	backend Backend

	// Tab navigation
	activeTab Tab

	// Sub-models
	desktopTab DesktopTab
	appsTab    AppsTab
	musicTab   MusicTab
	consoleTab ConsoleTab

	// Daemon state
	connected bool
	summary   *daemon.Summary
	state     *shell.State

	statusText string
	statusErr  bool

	// Terminal dimensions
	width  int
	height int
}

func newModel(b Backend) model {
	return model{
		backend:    b,
		activeTab:  TabDesktop,
		desktopTab: NewDesktopTab(b),
		appsTab:    NewAppsTab(b),
		musicTab:   NewMusicTab(b),
		consoleTab: NewConsoleTab(b),
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1) = 4 lines
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		fetchState(m.backend),
		fetchSummary(m.backend),
		m.consoleTab.exec(""),
		tick(),
	)
}

// capturing reports whether the active tab consumes plain keys.
func (m model) capturing() bool {
	switch m.activeTab {
	case TabConsole:
		return true
	case TabMusic:
		return m.musicTab.Capturing()
	case TabApps:
		return m.appsTab.Filtering()
	}
	return false
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(fetchState(m.backend), fetchSummary(m.backend), tick())

	case stateMsg:
		if msg.err != nil {
			m.connected = false
			return m, nil
		}
		m.connected = true
		m.state = msg.state
		m.desktopTab.SetState(msg.state)
		m.musicTab.SetState(msg.state)
		return m, nil

	case summaryMsg:
		if msg.err == nil {
			m.summary = msg.summary
		}
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		m.statusErr = msg.isErr
		return m, tea.Batch(
			fetchState(m.backend),
			tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} }),
		)

	case clearStatusMsg:
		m.statusText = ""
		m.statusErr = false
		return m, nil

	case consoleMsg:
		var cmd tea.Cmd
		m.consoleTab, cmd = m.consoleTab.Update(msg)
		return m, cmd

	case searchMsg:
		var cmd tea.Cmd
		m.musicTab, cmd = m.musicTab.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Forward to sub-models with content dimensions
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.desktopTab, _ = m.desktopTab.Update(subMsg)
		m.appsTab, _ = m.appsTab.Update(subMsg)
		m.musicTab, _ = m.musicTab.Update(subMsg)
		m.consoleTab, _ = m.consoleTab.Update(subMsg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		}
		if !m.capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1", "2", "3", "4":
				m.activeTab = Tab(msg.String()[0] - '1')
				return m, nil
			}
		}
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabDesktop:
		m.desktopTab, cmd = m.desktopTab.Update(msg)
	case TabApps:
		m.appsTab, cmd = m.appsTab.Update(msg)
	case TabMusic:
		m.musicTab, cmd = m.musicTab.Update(msg)
	case TabConsole:
		m.consoleTab, cmd = m.consoleTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.summary, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.statusText, m.statusErr, m.width)

	var content string
	switch m.activeTab {
	case TabDesktop:
		content = m.desktopTab.View()
	case TabApps:
		content = m.appsTab.View()
	case TabMusic:
		content = m.musicTab.View()
	case TabConsole:
		content = m.consoleTab.View()
	}
	content = lipgloss.NewStyle().Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
