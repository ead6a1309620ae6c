// Package catalog serves the curated link directory rendered by the job
// portal windows. Every portal re-skin is a variant over one embedded table.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinYAML []byte

// DefaultVariant is served when no variant is requested.
const DefaultVariant = "waitress"

// ErrUnknownVariant is returned for a variant name the table does not define.
var ErrUnknownVariant = errors.New("unknown catalog variant")

// Link is one entry of a category.
type Link struct {
	Name        string  `yaml:"name" json:"name"`
	URL         string  `yaml:"url" json:"url"`
	Description string  `yaml:"description" json:"description"`
	Icon        string  `yaml:"icon" json:"icon"`
	Rating      float64 `yaml:"rating" json:"rating"`
	Category    string  `yaml:"category" json:"category"`
	Urgency     string  `yaml:"urgency" json:"urgency"`
}

// Category groups links under a titled, coloured heading.
type Category struct {
	Key         string `yaml:"key" json:"key"`
	Title       string `yaml:"title" json:"title"`
	Icon        string `yaml:"icon" json:"icon"`
	Color       string `yaml:"color" json:"color"`
	Description string `yaml:"description" json:"description"`
	Links       []Link `yaml:"links" json:"links"`
}

// Variant selects and re-titles categories for one portal skin.
type Variant struct {
	Name            string            `yaml:"name" json:"name"`
	Title           string            `yaml:"title" json:"title"`
	DefaultCategory string            `yaml:"default_category" json:"default_category"`
	Categories      []string          `yaml:"categories" json:"categories"`
	Retitle         map[string]string `yaml:"retitle,omitempty" json:"retitle,omitempty"`
}

// Directory is a variant resolved against the table.
type Directory struct {
	Variant         string     `json:"variant"`
	Title           string     `json:"title"`
	DefaultCategory string     `json:"default_category"`
	Categories      []Category `json:"categories"`
	TotalLinks      int        `json:"total_links"`
}

// Category returns the category with key.
func (d Directory) Category(key string) (Category, bool) {
	for _, c := range d.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Catalog is the parsed link table.
type Catalog struct {
	categories []Category
	byKey      map[string]int
	variants   map[string]Variant
	order      []string
}

type rawCatalog struct {
	Categories []Category `yaml:"categories"`
	Variants   []Variant  `yaml:"variants"`
}

// Builtin parses the embedded table.
func Builtin() (*Catalog, error) {
	return Parse(builtinYAML)
}

// LoadFile parses a catalog file that replaces the embedded table.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c := &Catalog{
		categories: raw.Categories,
		byKey:      make(map[string]int, len(raw.Categories)),
		variants:   make(map[string]Variant, len(raw.Variants)),
	}
	for i, cat := range raw.Categories {
		key := strings.TrimSpace(cat.Key)
		if key == "" {
			return nil, fmt.Errorf("category %d has no key", i)
		}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate category %q", key)
		}
		c.byKey[key] = i
	}
	for _, v := range raw.Variants {
		if v.Name == "" {
			return nil, errors.New("variant without a name")
		}
		for _, key := range v.Categories {
			if _, ok := c.byKey[key]; !ok {
				return nil, fmt.Errorf("variant %q references unknown category %q", v.Name, key)
			}
		}
		if v.DefaultCategory != "" {
			if _, ok := c.byKey[v.DefaultCategory]; !ok {
				return nil, fmt.Errorf("variant %q default category %q is unknown", v.Name, v.DefaultCategory)
			}
		}
		c.variants[v.Name] = v
		c.order = append(c.order, v.Name)
	}
	return c, nil
}

// Variants lists variant names in table order.
func (c *Catalog) Variants() []string {
	return append([]string(nil), c.order...)
}

// Directory resolves a variant. An empty name selects DefaultVariant, or all
// categories when the table defines no such variant.
func (c *Catalog) Directory(variant string) (Directory, error) {
	name := strings.ToLower(strings.TrimSpace(variant))
	if name == "" {
		name = DefaultVariant
		if _, ok := c.variants[name]; !ok {
			return c.all(), nil
		}
	}
	v, ok := c.variants[name]
	if !ok {
		return Directory{}, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}

	keys := v.Categories
	if len(keys) == 0 {
		keys = make([]string, 0, len(c.categories))
		for _, cat := range c.categories {
			keys = append(keys, cat.Key)
		}
	}
	d := Directory{Variant: v.Name, Title: v.Title, DefaultCategory: v.DefaultCategory}
	for _, key := range keys {
		cat := c.categories[c.byKey[key]]
		if t, ok := v.Retitle[key]; ok {
			cat.Title = t
		}
		cat.Links = append([]Link(nil), cat.Links...)
		d.Categories = append(d.Categories, cat)
		d.TotalLinks += len(cat.Links)
	}
	if d.DefaultCategory == "" && len(d.Categories) > 0 {
		d.DefaultCategory = d.Categories[0].Key
	}
	return d, nil
}

func (c *Catalog) all() Directory {
	d := Directory{Title: "Link Directory"}
	for _, cat := range c.categories {
		cat.Links = append([]Link(nil), cat.Links...)
		d.Categories = append(d.Categories, cat)
		d.TotalLinks += len(cat.Links)
	}
	if len(d.Categories) > 0 {
		d.DefaultCategory = d.Categories[0].Key
	}
	return d
}

// Match is a search hit.
type Match struct {
	CategoryKey string `json:"category_key"`
	Link        Link   `json:"link"`
	Score       int    `json:"score"`
}

type linkSource []Match

func (s linkSource) String(i int) string {
	return s[i].Link.Name + " " + s[i].Link.Description
}

func (s linkSource) Len() int { return len(s) }

// Search fuzzy-matches link names and descriptions across every category.
func (c *Catalog) Search(query string, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	var src linkSource
	for _, cat := range c.categories {
		for _, l := range cat.Links {
			src = append(src, Match{CategoryKey: cat.Key, Link: l})
		}
	}
	found := fuzzy.FindFrom(query, src)
	out := make([]Match, 0, len(found))
	for _, f := range found {
		m := src[f.Index]
		m.Score = f.Score
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Stars splits a 0..5 rating into full, half and empty star counts.
func Stars(rating float64) (full int, half bool, empty int) {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	full = int(math.Floor(rating))
	half = rating != math.Floor(rating)
	empty = 5 - int(math.Ceil(rating))
	return full, half, empty
}

// ClickStats counts link opens for the portal header.
type ClickStats struct {
	mu    sync.Mutex
	total int
	today int
	byURL map[string]int
}

// ClickSnapshot is a point-in-time copy of ClickStats.
type ClickSnapshot struct {
	TotalClicks int     `json:"total_clicks"`
	TodayClicks int     `json:"today_clicks"`
	SuccessRate float64 `json:"success_rate"`
}

// Record counts one open of url.
func (s *ClickStats) Record(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byURL == nil {
		s.byURL = make(map[string]int)
	}
	s.total++
	s.today++
	s.byURL[url]++
}

// ResetDay zeroes the daily counter.
func (s *ClickStats) ResetDay() {
	s.mu.Lock()
	s.today = 0
	s.mu.Unlock()
}

// Count returns the opens recorded for url.
func (s *ClickStats) Count(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byURL[url]
}

// Snapshot returns the header counters.
func (s *ClickStats) Snapshot() ClickSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ClickSnapshot{TotalClicks: s.total, TodayClicks: s.today, SuccessRate: 97.3}
}
