package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thriveremote/thriveos/internal/catalog"
	"github.com/thriveremote/thriveos/internal/daemon"
)

func runCatalog(args []string) int {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/thriveos/config.yaml)")
	variant := fs.String("variant", "", "Directory variant (default: catalog.default_variant)")
	search := fs.String("search", "", "Fuzzy search every link instead of listing a directory")
	limit := fs.Int("limit", 10, "Maximum search results")
	asJSON := fs.Bool("json", false, "Print as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: thriveos catalog [--variant NAME] [--search QUERY] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Browse the job portal link directory. Works without a running daemon.")
	}
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cat, err := daemon.LoadCatalog(res.Config.Catalog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if q := strings.TrimSpace(*search); q != "" {
		matches := cat.Search(q, *limit)
		if *asJSON {
			return printJSON(matches)
		}
		if len(matches) == 0 {
			fmt.Printf("no links match %q\n", q)
			return 0
		}
		for _, m := range matches {
			fmt.Printf("%-12s %s  %s\n", m.CategoryKey, m.Link.Name, m.Link.URL)
		}
		return 0
	}

	name := *variant
	if name == "" {
		name = res.Config.Catalog.DefaultVariant
	}
	dir, err := cat.Directory(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v (variants: %s)\n", err, strings.Join(cat.Variants(), ", "))
		return 1
	}
	if *asJSON {
		return printJSON(dir)
	}
	writeDirectory(os.Stdout, dir)
	return 0
}

func writeDirectory(w io.Writer, dir catalog.Directory) {
	fmt.Fprintf(w, "%s (%d links)\n", dir.Title, dir.TotalLinks)
	for _, c := range dir.Categories {
		fmt.Fprintf(w, "\n%s %s\n", c.Icon, c.Title)
		for _, l := range c.Links {
			fmt.Fprintf(w, "  %s %-28s %s  %s\n", l.Icon, l.Name, stars(l.Rating), l.URL)
		}
	}
}

func stars(rating float64) string {
	full, half, empty := catalog.Stars(rating)
	s := strings.Repeat("★", full)
	if half {
		s += "½"
	}
	return s + strings.Repeat("☆", empty)
}
