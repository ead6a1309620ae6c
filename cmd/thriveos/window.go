package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/shell"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  thriveos window list [--session ID] [--json]")
	fmt.Fprintln(w, "  thriveos window open [--session ID] <app>")
	fmt.Fprintln(w, "  thriveos window close|minimize|maximize|focus [--session ID] <window-id>")
	fmt.Fprintln(w, "  thriveos window arrange [--session ID] [--mode auto|vertical|horizontal|master-stack]")
	fmt.Fprintln(w, "  thriveos window apps")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'thriveos window <command> --help' for command-specific options.")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "list":
		return runWindowList(args[1:])
	case "open":
		return runWindowOpen(args[1:])
	case shell.WindowClose, shell.WindowMinimize, shell.WindowMaximize, shell.WindowFocus:
		return runWindowAction(args[0], args[1:])
	case "arrange":
		return runWindowArrange(args[1:])
	case "apps":
		return runWindowApps(args[1:])
	case "help", "-h", "--help":
		printWindowUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runWindowList(args []string) int {
	fs := flag.NewFlagSet("window list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	session := fs.String("session", "", "Desktop session (default: the shared session)")
	asJSON := fs.Bool("json", false, "Print windows as JSON")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	data, err := newClient(*session).ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	if len(data.Windows) == 0 {
		fmt.Println("no open windows")
		return 0
	}

	active := desktop.WindowID("")
	for _, e := range data.Taskbar {
		if e.IsActive {
			active = e.ID
		}
	}
	writeWindowTable(os.Stdout, data.Windows, active)
	return 0
}

func writeWindowTable(w io.Writer, windows []desktop.Window, active desktop.WindowID) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAPP\tTITLE\tPOSITION\tSIZE\tZ\tSTATE")
	for _, win := range windows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d,%d\t%dx%d\t%d\t%s\n",
			win.ID, win.Content, win.Title,
			win.Position.X, win.Position.Y,
			win.Size.Width, win.Size.Height,
			win.ZIndex, windowState(win, win.ID == active))
	}
	tw.Flush()
}

func windowState(w desktop.Window, active bool) string {
	var parts []string
	if active {
		parts = append(parts, "active")
	}
	if w.IsMinimized {
		parts = append(parts, "minimized")
	}
	if w.IsMaximized {
		parts = append(parts, "maximized")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func runWindowOpen(args []string) int {
	fs := flag.NewFlagSet("window open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	session := fs.String("session", "", "Desktop session (default: the shared session)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: thriveos window open [--session ID] <app>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run 'thriveos window apps' for the app keys.")
	}
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	win, err := newClient(*session).OpenApp(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("opened window %s (%s) at %d,%d size %dx%d\n",
		win.ID, win.Title, win.Position.X, win.Position.Y, win.Size.Width, win.Size.Height)
	return 0
}

func runWindowAction(action string, args []string) int {
	fs := flag.NewFlagSet("window "+action, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	session := fs.String("session", "", "Desktop session (default: the shared session)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: thriveos window %s [--session ID] <window-id>\n", action)
	}
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if err := newClient(*session).WindowAction(desktop.WindowID(fs.Arg(0)), action); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowArrange(args []string) int {
	fs := flag.NewFlagSet("window arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	session := fs.String("session", "", "Desktop session (default: the shared session)")
	mode := fs.String("mode", "", "Layout mode (default: layout.mode)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window arrange takes no arguments")
		return 2
	}

	windows, err := newClient(*session).Arrange(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	writeWindowTable(os.Stdout, windows, "")
	return 0
}

func runWindowApps(args []string) int {
	if len(args) != 0 && !wantsHelp(args) {
		fmt.Fprintln(os.Stderr, "window apps takes no arguments")
		return 2
	}
	writeAppTable(os.Stdout, shell.Apps())
	return 0
}

func writeAppTable(w io.Writer, apps []shell.App) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTITLE\tSIZE")
	for _, a := range apps {
		fmt.Fprintf(tw, "%s\t%s %s\t%dx%d\n", a.Key, a.Icon, a.Title, a.Size.Width, a.Size.Height)
	}
	tw.Flush()
}
