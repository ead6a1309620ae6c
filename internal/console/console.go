// Package console implements the desktop's terminal window: a fixed set of
// informational commands with a scrollback history.
package console

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Welcome is the first line of every fresh history.
const Welcome = "Welcome to ThriveRemoteOS Quantum Terminal v5.0"

// Prompt prefixes echoed commands.
const Prompt = "$ "

// WorkingDir is what pwd prints.
const WorkingDir = "/home/thrive/quantum-workspace/enhanced-v5"

// LineKind distinguishes echoed input from command output.
type LineKind string

const (
	LineCommand LineKind = "command"
	LineOutput  LineKind = "output"
)

// Line is one row of scrollback.
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// Info is the live data the status and version commands report.
type Info struct {
	DatabaseType string
	Connected    bool
	Records      int
	PetGames     int
	Metrics      string // optional status-bar summary
}

// InfoFunc supplies Info on demand.
type InfoFunc func() Info

// Result is the outcome of one Exec.
type Result struct {
	Command string `json:"command"`
	Output  string `json:"output,omitempty"`
	Known   bool   `json:"known"`
	Cleared bool   `json:"cleared,omitempty"`
}

type handler func(c *Console) string

// Console holds one terminal's history. It is not safe for concurrent use.
type Console struct {
	history []Line
	info    InfoFunc
	lower   cases.Caser
}

// New creates a console. info may be nil.
func New(info InfoFunc) *Console {
	c := &Console{info: info, lower: cases.Lower(language.Und)}
	c.reset()
	return c
}

var commands = map[string]handler{
	"help": func(*Console) string {
		return "Available commands: " + strings.Join(Commands(), ", ")
	},
	"status": (*Console).status,
	"jobs": func(*Console) string {
		return `Fetching live job listings... Use "waitress-jobs" for specialized opportunities.`
	},
	"pets": func(*Console) string {
		return "Virtual Pets: 🥚 Cosmic Pets | 🐑 Cosmic Sheep | 🐾 Desktop Pets | Status: Active"
	},
	"desktop-pets": func(*Console) string {
		return "Desktop Pets: AI-powered virtual companions with autonomous behavior. Launch from desktop."
	},
	"waitress-jobs": func(*Console) string {
		return "Waitress Jobs Portal: 500+ remote positions | $18-35/hr | AI Apply integration available."
	},
	"version": (*Console).version,
	"ls": func(*Console) string {
		return "Database/  Content/  VirtualPets/  DesktopPets/  WaitressJobs/  Jobs/  Settings/  Terminal/"
	},
	"pwd": func(*Console) string {
		return WorkingDir
	},
}

// helpOrder is the order help lists commands in.
var helpOrder = []string{"help", "status", "jobs", "pets", "desktop-pets", "waitress-jobs", "clear", "version", "ls", "pwd"}

// Commands returns the command names in help order.
func Commands() []string {
	return append([]string(nil), helpOrder...)
}

// Exec runs one line of input. Blank input is ignored. Unknown commands are
// answered with a "Command not found" line; they are never an error.
func (c *Console) Exec(input string) Result {
	cmd := c.lower.String(strings.TrimSpace(input))
	if cmd == "" {
		return Result{}
	}
	if cmd == "clear" {
		c.reset()
		return Result{Command: cmd, Known: true, Cleared: true}
	}

	res := Result{Command: cmd}
	if h, ok := commands[cmd]; ok {
		res.Known = true
		res.Output = h(c)
	} else {
		res.Output = fmt.Sprintf(`Command not found: %s. Type "help" for available commands.`, cmd)
	}
	c.history = append(c.history,
		Line{Kind: LineCommand, Text: Prompt + input},
		Line{Kind: LineOutput, Text: res.Output},
	)
	return res
}

// History returns a copy of the scrollback.
func (c *Console) History() []Line {
	return append([]Line(nil), c.history...)
}

// Complete returns the commands that start with prefix, sorted.
func (c *Console) Complete(prefix string) []string {
	prefix = c.lower.String(strings.TrimSpace(prefix))
	var out []string
	for _, name := range helpOrder {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Console) reset() {
	c.history = []Line{{Kind: LineOutput, Text: Welcome}}
}

func (c *Console) snapshot() Info {
	if c.info == nil {
		return Info{DatabaseType: "SQLite", Connected: true, PetGames: 3}
	}
	return c.info()
}

func (c *Console) status() string {
	in := c.snapshot()
	db := in.DatabaseType + " Disconnected"
	services := "Degraded"
	if in.Connected {
		db = in.DatabaseType + " Connected"
		services = "All Services Online"
	}
	parts := []string{
		"System Status: " + db,
		fmt.Sprintf("%d+ Records", in.Records),
		services,
		fmt.Sprintf("%d Pet Games Active", in.PetGames),
	}
	if in.Metrics != "" {
		parts = append(parts, in.Metrics)
	}
	return strings.Join(parts, " | ")
}

func (c *Console) version() string {
	in := c.snapshot()
	return fmt.Sprintf("ThriveRemoteOS v5.0 - Enhanced Desktop Edition | %s Backend | %d Pet Systems", in.DatabaseType, in.PetGames)
}
