package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/thriveremote/thriveos/internal/catalog"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/geom"
	"github.com/thriveremote/thriveos/internal/media"
	"github.com/thriveremote/thriveos/internal/shell"
)

func TestBuildPlayerCommand(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		fraction float64
		volume   float64
		index    int
		repeat   string
		wantErr  string
	}{
		{name: "toggle", action: "toggle", fraction: -1, volume: -1, index: -1},
		{name: "seek", action: "seek", fraction: 0.5, volume: -1, index: -1},
		{name: "seek without fraction", action: "seek", fraction: -1, volume: -1, index: -1, wantErr: "--fraction"},
		{name: "volume without value", action: "volume", fraction: -1, volume: -1, index: -1, wantErr: "--volume"},
		{name: "select without index", action: "select", fraction: -1, volume: -1, index: -1, wantErr: "--index"},
		{name: "bad repeat mode", action: "repeat", fraction: -1, volume: -1, index: -1, repeat: "twice", wantErr: "twice"},
		{name: "unknown action", action: "rewind", fraction: -1, volume: -1, index: -1, wantErr: "unknown player action"},
		{name: "add is not exposed", action: "add", fraction: -1, volume: -1, index: -1, wantErr: "unknown player action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := buildPlayerCommand(media.KindVideo, tt.action, tt.fraction, tt.volume, tt.index, tt.repeat)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Player != "video" || cmd.Action != tt.action {
				t.Fatalf("unexpected command %+v", cmd)
			}
			if tt.action == "seek" && cmd.Fraction != 0.5 {
				t.Fatalf("expected fraction to carry over, got %v", cmd.Fraction)
			}
		})
	}
}

func TestWriteWindowTable(t *testing.T) {
	windows := []desktop.Window{
		{ID: "1", Content: "terminal", Title: "Terminal", Position: geom.Point{X: 100, Y: 100}, Size: geom.Size{Width: 800, Height: 500}, ZIndex: 101},
		{ID: "2", Content: "music", Title: "Music", Position: geom.Point{X: 130, Y: 130}, Size: geom.Size{Width: 600, Height: 400}, ZIndex: 102, IsMinimized: true},
	}
	var buf bytes.Buffer
	writeWindowTable(&buf, windows, "1")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "800x500") || !strings.Contains(lines[1], "active") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "minimized") || strings.Contains(lines[2], "active") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestWindowState(t *testing.T) {
	if got := windowState(desktop.Window{}, false); got != "-" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := windowState(desktop.Window{IsMaximized: true}, true); got != "active,maximized" {
		t.Fatalf("unexpected state %q", got)
	}
}

func TestWriteAppTable(t *testing.T) {
	var buf bytes.Buffer
	writeAppTable(&buf, shell.Apps())
	out := buf.String()
	for _, key := range []string{"terminal", "music", "jobs"} {
		if !strings.Contains(out, key) {
			t.Fatalf("expected app %q in table:\n%s", key, out)
		}
	}
}

func TestStars(t *testing.T) {
	if got := stars(4.5); got != "★★★★½" {
		t.Fatalf("unexpected stars for 4.5: %q", got)
	}
	if got := stars(3); got != "★★★☆☆" {
		t.Fatalf("unexpected stars for 3: %q", got)
	}
}

func TestWriteDirectory(t *testing.T) {
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	dir, err := cat.Directory("")
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	var buf bytes.Buffer
	writeDirectory(&buf, dir)
	if !strings.HasPrefix(buf.String(), dir.Title) {
		t.Fatalf("expected directory title first, got %q", buf.String())
	}
	if len(dir.Categories) > 0 && len(dir.Categories[0].Links) > 0 {
		if !strings.Contains(buf.String(), dir.Categories[0].Links[0].URL) {
			t.Fatalf("expected first link URL in output")
		}
	}
}

func TestUsageExitCodes(t *testing.T) {
	tests := []struct {
		name string
		run  func([]string) int
		args []string
		want int
	}{
		{"window without command", runWindow, nil, 2},
		{"window unknown command", runWindow, []string{"resize"}, 2},
		{"window open without app", runWindowOpen, nil, 2},
		{"window close extra args", func(args []string) int { return runWindowAction("close", args) }, []string{"1", "2"}, 2},
		{"window arrange extra args", runWindowArrange, []string{"now"}, 2},
		{"player without action", runPlayer, nil, 2},
		{"player help", runPlayer, []string{"--help"}, 0},
		{"music without command", runMusic, nil, 2},
		{"music search without query", runMusicSearch, []string{"--limit", "3"}, 2},
		{"console without input", runConsole, nil, 2},
		{"mcp without command", runMCP, nil, 2},
		{"config without command", runConfig, nil, 2},
		{"config unknown command", runConfig, []string{"edit"}, 2},
		{"config explain without path", runConfig, []string{"explain"}, 2},
		{"status bad flag", runStatus, []string{"--nope"}, 2},
		{"daemon extra args", runDaemon, []string{"now"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run(tt.args); got != tt.want {
				t.Fatalf("got exit code %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClientCommands_NoDaemon(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	if got := runStatus(nil); got != 1 {
		t.Fatalf("status without daemon: got %d, want 1", got)
	}
	if got := runWindowList(nil); got != 1 {
		t.Fatalf("window list without daemon: got %d, want 1", got)
	}
	if got := runConsole([]string{"help"}); got != 1 {
		t.Fatalf("console without daemon: got %d, want 1", got)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("listen: 127.0.0.1:9090\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if got := runConfig([]string{"validate", "--path", path}); got != 0 {
		t.Fatalf("validate: got %d", got)
	}
	if got := runConfig([]string{"explain", "--path", path, "listen"}); got != 0 {
		t.Fatalf("explain: got %d", got)
	}
	if got := runConfig([]string{"print", "--defaults"}); got != 0 {
		t.Fatalf("print defaults: got %d", got)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("no_such_key: 1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if got := runConfig([]string{"validate", "--path", bad}); got != 1 {
		t.Fatalf("validate bad config: got %d, want 1", got)
	}
}

func TestCatalogCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: 127.0.0.1:9090\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if got := runCatalog([]string{"--path", path}); got != 0 {
		t.Fatalf("catalog: got %d", got)
	}
	if got := runCatalog([]string{"--path", path, "--variant", "nope"}); got != 1 {
		t.Fatalf("unknown variant: got %d, want 1", got)
	}
	if got := runCatalog([]string{"--path", path, "--search", "remote", "--json"}); got != 0 {
		t.Fatalf("catalog search: got %d", got)
	}
}

func TestWritePIDFile(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	path, err := writePIDFile()
	if err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("unexpected pid file contents %q", data)
	}

	// A stale file naming our own pid is overwritten.
	if _, err := writePIDFile(); err != nil {
		t.Fatalf("rewrite pid file: %v", err)
	}
}
