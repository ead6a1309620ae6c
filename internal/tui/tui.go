// Package tui is a terminal viewer for the daemon's default desktop.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/shell"
)

// Backend is the daemon surface the TUI drives. *ipc.Client satisfies it.
type Backend interface {
	GetStatus() (*daemon.Summary, error)
	GetState() (*shell.State, error)
	OpenApp(app string) (*desktop.Window, error)
	WindowAction(id desktop.WindowID, action string) error
	Arrange(mode string) ([]desktop.Window, error)
	PlayerAction(cmd shell.PlayerCommand) (*player.State, error)
	ConsoleExec(window desktop.WindowID, input string) (*shell.ConsoleReply, error)
	MusicSearch(query string, maxResults int) ([]playlist.Track, error)
}

const (
	refreshInterval = time.Second
	statusTimeout   = 3 * time.Second
	searchLimit     = 10
)

// Run starts the TUI and blocks until the user quits.
func Run(b Backend) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	p := tea.NewProgram(newModel(b), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Messages exchanged between the backend commands and the models.
type (
	tickMsg    time.Time
	stateMsg   struct {
		state *shell.State
		err   error
	}
	summaryMsg struct {
		summary *daemon.Summary
		err     error
	}
	statusMsg struct {
		text  string
		isErr bool
	}
	clearStatusMsg struct{}
	consoleMsg     struct {
		reply *shell.ConsoleReply
		err   error
	}
	searchMsg struct {
		query   string
		results []playlist.Track
		err     error
	}
)

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func fetchState(b Backend) tea.Cmd {
	return func() tea.Msg {
		st, err := b.GetState()
		return stateMsg{state: st, err: err}
	}
}

func fetchSummary(b Backend) tea.Cmd {
	return func() tea.Msg {
		s, err := b.GetStatus()
		return summaryMsg{summary: s, err: err}
	}
}

// run performs fn against the daemon and reports done, or the error.
func run(done string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return statusMsg{text: err.Error(), isErr: true}
		}
		return statusMsg{text: done}
	}
}
