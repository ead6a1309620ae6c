package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/thriveremote/thriveos/internal/console"
	"github.com/thriveremote/thriveos/internal/desktop"
)

func runConsole(args []string) int {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	session := fs.String("session", "", "Desktop session (default: the shared session)")
	window := fs.String("window", "", "Terminal window to run in (default: the desktop console)")
	history := fs.Bool("history", false, "Print the whole scrollback instead of just the output")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: thriveos console [--session ID] [--window ID] [--history] <command>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Commands: %s\n", strings.Join(console.Commands(), ", "))
	}
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	input := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(input) == "" && !*history {
		fs.Usage()
		return 2
	}

	reply, err := newClient(*session).ConsoleExec(desktop.WindowID(*window), input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *history {
		for _, l := range reply.History {
			fmt.Println(l.Text)
		}
		return 0
	}
	if reply.Result.Cleared {
		fmt.Println("console cleared")
		return 0
	}
	fmt.Println(reply.Result.Output)
	return 0
}
