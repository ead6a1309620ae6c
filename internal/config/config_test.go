package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Viewport.ChromeHeight != 60 || cfg.MinWindow.Width != 300 || cfg.MinWindow.Height != 200 {
		t.Fatalf("unexpected geometry defaults %+v %+v", cfg.Viewport, cfg.MinWindow)
	}
	if cfg.StatusInterval != 5*time.Second {
		t.Fatalf("expected 5s status interval, got %v", cfg.StatusInterval)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Listen != DefaultListen || len(res.Files) != 0 {
		t.Fatalf("expected defaults, got %+v files=%v", res.Config, res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Catalog.DefaultVariant != DefaultCatalogVariant {
		t.Fatalf("expected default variant %q, got %q", DefaultCatalogVariant, res.Config.Catalog.DefaultVariant)
	}
}

func TestLoadFromPath_PartialSectionsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		`listen: ":9090"`,
		"viewport:",
		"  width: 1920",
		"status_interval: 2s",
		"music:",
		"  import_timeout: 1m",
		"database:",
		`  path: ":memory:"`,
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Listen != ":9090" || cfg.Viewport.Width != 1920 || cfg.Viewport.Height != DefaultViewportHeight {
		t.Fatalf("unexpected merge %+v", cfg)
	}
	if cfg.StatusInterval != 2*time.Second || cfg.Music.ImportTimeout != time.Minute {
		t.Fatalf("durations not parsed: %v %v", cfg.StatusInterval, cfg.Music.ImportTimeout)
	}
	if cfg.Music.MaxResults != DefaultMaxResults {
		t.Fatalf("expected music.max_results default, got %d", cfg.Music.MaxResults)
	}
	if cfg.Database.Path != ":memory:" {
		t.Fatalf("unexpected database path %q", cfg.Database.Path)
	}
}

func TestLoadFromPath_LayoutSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "layout:\n  mode: master-stack\n  flexible_last_row: false\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	l := res.Config.Layout
	if l.Mode != LayoutModeMasterStack || l.FlexibleLastRow {
		t.Fatalf("unexpected layout %+v", l)
	}
	if l.Gap != DefaultLayoutGap || l.MasterWidthPercent != DefaultMasterPercent {
		t.Fatalf("unset layout keys should keep defaults, got %+v", l)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "max_sessions: 5\nplayer:\n  volume: 0.2\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "max_sessions: 6\n")
	writeFile(t, filepath.Join(configD, "README.txt"), "ignored")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - config.d\nmax_sessions: 7\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MaxSessions != 7 {
		t.Fatalf("expected max_sessions 7, got %d", res.Config.MaxSessions)
	}
	if res.Config.Player.Volume != 0.2 {
		t.Fatalf("expected included volume 0.2, got %v", res.Config.Player.Volume)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected error to include a line number, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "logging:\n  level: loud\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "logging.level" || verr.Source.Line != 2 {
		t.Fatalf("unexpected error context %+v", verr)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected file:line:col prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"listen", func(c *Config) { c.Listen = "nope" }, "listen"},
		{"viewport", func(c *Config) { c.Viewport.Width = 0 }, "viewport"},
		{"chrome", func(c *Config) { c.Viewport.ChromeHeight = c.Viewport.Height }, "viewport.chrome_height"},
		{"min window", func(c *Config) { c.MinWindow.Height = -1 }, "min_window"},
		{"layout mode", func(c *Config) { c.Layout.Mode = "spiral" }, "layout.mode"},
		{"layout gap", func(c *Config) { c.Layout.Gap = -1 }, "layout.gap"},
		{"master percent", func(c *Config) { c.Layout.MasterWidthPercent = 95 }, "layout.master_width_percent"},
		{"interval", func(c *Config) { c.StatusInterval = 0 }, "status_interval"},
		{"volume", func(c *Config) { c.Player.Volume = 1.5 }, "player.volume"},
		{"tick", func(c *Config) { c.Player.TickInterval = 0 }, "player.tick_interval"},
		{"database", func(c *Config) { c.Database.Path = " " }, "database.path"},
		{"max results", func(c *Config) { c.Music.MaxResults = 26 }, "music.max_results"},
		{"variant", func(c *Config) { c.Catalog.DefaultVariant = "" }, "catalog.default_variant"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("expected error at %s, got %v", tt.path, err)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "viewport:\n  width: 1440\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	v, src, err := Explain(res, "viewport.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if v != 1440 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result %v %+v", v, src)
	}

	v, src, err = Explain(res, "music.import_timeout")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if v != "30s" || src.Kind != SourceDefault {
		t.Fatalf("unexpected default explain %v %+v", v, src)
	}

	if _, _, err := Explain(res, "viewport.depth"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestSaveTo_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Listen = "0.0.0.0:8181"
	cfg.Music.ImportTimeout = 45 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Config.Listen != "0.0.0.0:8181" || res.Config.Music.ImportTimeout != 45*time.Second {
		t.Fatalf("unexpected reload %+v", res.Config)
	}
}
