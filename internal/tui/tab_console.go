package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thriveremote/thriveos/internal/console"
)

var commandLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))

// ConsoleTab drives the desktop's shell console.
type ConsoleTab struct {
	backend Backend
	input   textinput.Model
	history []console.Line

	width  int
	height int
}

// NewConsoleTab creates the console with its prompt focused.
func NewConsoleTab(b Backend) ConsoleTab {
	ti := textinput.New()
	ti.Prompt = console.Prompt
	ti.Placeholder = "help"
	ti.CharLimit = 200
	ti.Focus()
	return ConsoleTab{backend: b, input: ti}
}

// exec runs input on the shell console. Blank input only fetches the
// scrollback.
func (ct ConsoleTab) exec(input string) tea.Cmd {
	b := ct.backend
	return func() tea.Msg {
		reply, err := b.ConsoleExec("", input)
		return consoleMsg{reply: reply, err: err}
	}
}

// Update implements tea.Model.
func (ct ConsoleTab) Update(msg tea.Msg) (ConsoleTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ct.width = msg.Width
		ct.height = msg.Height
		ct.input.Width = msg.Width - len(console.Prompt) - 2
		return ct, nil

	case consoleMsg:
		if msg.err != nil {
			return ct, func() tea.Msg { return statusMsg{text: msg.err.Error(), isErr: true} }
		}
		ct.history = msg.reply.History
		return ct, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			line := ct.input.Value()
			ct.input.Reset()
			return ct, ct.exec(line)
		case "ctrl+l":
			return ct, ct.exec("clear")
		}
	}

	var cmd tea.Cmd
	ct.input, cmd = ct.input.Update(msg)
	return ct, cmd
}

// View renders the tail of the scrollback above the prompt.
func (ct ConsoleTab) View() string {
	room := ct.height - 1
	if room < 0 {
		room = 0
	}
	lines := ct.history
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	var b strings.Builder
	for _, l := range lines {
		if l.Kind == console.LineCommand {
			b.WriteString(commandLineStyle.Render(l.Text))
		} else {
			b.WriteString(l.Text)
		}
		b.WriteString("\n")
	}
	b.WriteString(ct.input.View())
	return b.String()
}
