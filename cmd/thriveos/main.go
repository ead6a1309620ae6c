package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/thriveremote/thriveos/internal/config"
	"github.com/thriveremote/thriveos/internal/ipc"
	"github.com/thriveremote/thriveos/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "player":
		os.Exit(runPlayer(os.Args[2:]))
	case "console":
		os.Exit(runConsole(os.Args[2:]))
	case "music":
		os.Exit(runMusic(os.Args[2:]))
	case "catalog":
		os.Exit(runCatalog(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: thriveos <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the thriveos daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window list         List open windows")
	fmt.Fprintln(w, "  window open         Launch an app in a new window")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "  window minimize     Toggle a window's minimized state")
	fmt.Fprintln(w, "  window maximize     Toggle a window's maximized state")
	fmt.Fprintln(w, "  window focus        Raise a window")
	fmt.Fprintln(w, "  window arrange      Tile the visible windows")
	fmt.Fprintln(w, "  window apps         List launchable apps")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  player <action>     Control the audio or video player")
	fmt.Fprintln(w, "  console <command>   Run a desktop console command")
	fmt.Fprintln(w, "  music search        Search the music library")
	fmt.Fprintln(w, "  catalog             Browse the job portal link directory")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'thriveos <command> --help' for command-specific options.")
}

// wantsHelp reports whether args asks for a subcommand's usage.
func wantsHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

// parseFlags parses args into fs. It returns -1 to continue, or the exit
// code the caller should return.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}

// loadConfig loads path, or the default config file when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func newClient(session string) *ipc.Client {
	c := ipc.NewClient()
	if session != "" {
		c = c.WithSession(session)
	}
	return c
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the full status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: thriveos status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}

	m := status.Metrics
	db := status.Database
	fmt.Printf("daemon_running: %v\n", status.Running)
	fmt.Printf("uptime:         %s\n", status.Uptime)
	fmt.Printf("sessions:       %d\n", status.Sessions)
	fmt.Printf("windows:        %d\n", status.Windows)
	fmt.Printf("memory:         %.1f/%.0f GB (%.0f%%)\n", m.Memory.Used, m.Memory.Total, m.Memory.Percent())
	fmt.Printf("battery:        %d%%\n", m.Battery)
	fmt.Printf("temperature:    %.0f°C\n", m.Temperature)
	fmt.Printf("processes:      %s\n", humanize.Comma(int64(m.Processes)))
	fmt.Printf("database:       %s (%s)\n", db.Status, db.DatabaseType)
	fmt.Printf("records:        %s\n", humanize.Comma(int64(db.TotalRecords)))
	if db.Error != "" {
		fmt.Printf("database_error: %s\n", db.Error)
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || wantsHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  thriveos config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  thriveos config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  thriveos config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/thriveos/config.yaml)")
		if code := parseFlags(fs, args[1:]); code >= 0 {
			return code
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/thriveos/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		_ = fs.Bool("effective", false, "Print effective config (default)")
		if code := parseFlags(fs, args[1:]); code >= 0 {
			return code
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/thriveos/config.yaml)")
		if code := parseFlags(fs, args[1:]); code >= 0 {
			return code
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", src)
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	session := fs.String("session", "", "Desktop session to view (default: the shared session)")

	if wantsHelp(args) {
		fmt.Fprintln(os.Stderr, "Usage: thriveos tui [--session ID]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive terminal view of a running daemon's desktop.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-4      Switch between Desktop, Apps, Music and Console")
		fmt.Fprintln(os.Stderr, "  f, m, x, c    Focus, minimize, maximize or close the selected window")
		fmt.Fprintln(os.Stderr, "  t             Tile the windows, cycling through layout modes")
		fmt.Fprintln(os.Stderr, "  enter         Open the selected app")
		fmt.Fprintln(os.Stderr, "  space, n, p   Play/pause, next and previous track")
		fmt.Fprintln(os.Stderr, "  /             Search music")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C     Quit")
		return 0
	}
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	if err := tui.Run(newClient(*session)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
