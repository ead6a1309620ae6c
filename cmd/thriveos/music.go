package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/thriveremote/thriveos/internal/playlist"
)

func printMusicUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: thriveos music search [--limit N] [--json] <query>")
}

func runMusic(args []string) int {
	if len(args) == 0 {
		printMusicUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "search":
		return runMusicSearch(args[1:])
	case "help", "-h", "--help":
		printMusicUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown music command: %s\n\n", args[0])
		printMusicUsage(os.Stderr)
		return 2
	}
}

func runMusicSearch(args []string) int {
	fs := flag.NewFlagSet("music search", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", 0, "Maximum results (default: music.max_results)")
	asJSON := fs.Bool("json", false, "Print results as JSON")
	fs.Usage = func() { printMusicUsage(os.Stderr) }
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "search requires a query")
		return 2
	}

	results, err := newClient("").MusicSearch(query, *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Printf("no tracks match %q\n", query)
		return 0
	}
	writeTrackTable(os.Stdout, results)
	return 0
}

func writeTrackTable(w io.Writer, tracks []playlist.Track) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTIST\tDURATION")
	for _, t := range tracks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Artist, t.Duration)
	}
	tw.Flush()
}
