package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustBuiltin(t *testing.T) *Catalog {
	t.Helper()
	c, err := Builtin()
	if err != nil {
		t.Fatalf("builtin catalog: %v", err)
	}
	return c
}

func TestBuiltin_DefaultVariant(t *testing.T) {
	c := mustBuiltin(t)
	d, err := c.Directory("")
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if d.Variant != DefaultVariant {
		t.Fatalf("expected %q, got %q", DefaultVariant, d.Variant)
	}
	if len(d.Categories) != 12 {
		t.Fatalf("expected 12 categories, got %d", len(d.Categories))
	}
	if d.DefaultCategory != "ai-automation" {
		t.Fatalf("unexpected default category %q", d.DefaultCategory)
	}
	if d.TotalLinks == 0 {
		t.Fatalf("expected links")
	}
	for _, cat := range d.Categories {
		for _, l := range cat.Links {
			if !strings.HasPrefix(l.URL, "https://") {
				t.Errorf("%s/%s: unexpected url %q", cat.Key, l.Name, l.URL)
			}
			if l.Rating < 0 || l.Rating > 5 {
				t.Errorf("%s/%s: rating %v out of range", cat.Key, l.Name, l.Rating)
			}
		}
	}
}

func TestDirectory_VariantRetitlesWithoutTouchingTable(t *testing.T) {
	c := mustBuiltin(t)
	jobs, err := c.Directory("Jobs")
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	cat, ok := jobs.Category("job-search")
	if !ok {
		t.Fatalf("jobs variant missing job-search")
	}
	if cat.Title != "Remote Job Boards" {
		t.Fatalf("expected retitled category, got %q", cat.Title)
	}

	full, _ := c.Directory(DefaultVariant)
	orig, _ := full.Category("job-search")
	if orig.Title == "Remote Job Boards" {
		t.Fatalf("retitle leaked into the shared table")
	}
	if len(jobs.Categories) >= len(full.Categories) {
		t.Fatalf("expected jobs variant to select a subset")
	}
}

func TestDirectory_UnknownVariant(t *testing.T) {
	c := mustBuiltin(t)
	if _, err := c.Directory("nope"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "categories: [\n"},
		{"missing key", "categories:\n  - title: x\n"},
		{"duplicate key", "categories:\n  - key: a\n  - key: a\n"},
		{"unknown category in variant", "categories:\n  - key: a\nvariants:\n  - name: v\n    categories: [b]\n"},
		{"unknown default", "categories:\n  - key: a\nvariants:\n  - name: v\n    default_category: b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDirectory_NoVariantsServesEverything(t *testing.T) {
	c, err := Parse([]byte("categories:\n  - key: a\n    links:\n      - name: one\n        url: https://one.test/\n  - key: b\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	d, err := c.Directory("")
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if len(d.Categories) != 2 || d.TotalLinks != 1 || d.DefaultCategory != "a" {
		t.Fatalf("unexpected directory %+v", d)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("categories:\n  - key: only\nvariants:\n  - name: solo\n    categories: [only]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Variants(); len(got) != 1 || got[0] != "solo" {
		t.Fatalf("unexpected variants %v", got)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSearch(t *testing.T) {
	c := mustBuiltin(t)
	got := c.Search("LazyApply", 3)
	if len(got) == 0 {
		t.Fatalf("expected a match")
	}
	if got[0].Link.Name != "LazyApply" || got[0].CategoryKey != "ai-automation" {
		t.Fatalf("unexpected top match %+v", got[0])
	}
	if len(got) > 3 {
		t.Fatalf("limit ignored: %d", len(got))
	}
	if c.Search("   ", 3) != nil {
		t.Fatalf("blank query should return nil")
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		rating float64
		full   int
		half   bool
		empty  int
	}{
		{4.9, 4, true, 0},
		{4.5, 4, true, 0},
		{4.0, 4, false, 1},
		{0, 0, false, 5},
		{7, 5, false, 0},
	}
	for _, tt := range tests {
		full, half, empty := Stars(tt.rating)
		if full != tt.full || half != tt.half || empty != tt.empty {
			t.Errorf("Stars(%v) = %d,%v,%d want %d,%v,%d", tt.rating, full, half, empty, tt.full, tt.half, tt.empty)
		}
	}
}

func TestClickStats(t *testing.T) {
	var s ClickStats
	s.Record("https://aiapply.co/")
	s.Record("https://aiapply.co/")
	s.Record("https://rezi.ai/")
	snap := s.Snapshot()
	if snap.TotalClicks != 3 || snap.TodayClicks != 3 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if s.Count("https://aiapply.co/") != 2 {
		t.Fatalf("expected per-url count 2")
	}
	s.ResetDay()
	if snap := s.Snapshot(); snap.TodayClicks != 0 || snap.TotalClicks != 3 {
		t.Fatalf("unexpected snapshot after reset %+v", snap)
	}
}
