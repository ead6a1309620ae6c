package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawViewport struct {
	Width        *int `yaml:"width"`
	Height       *int `yaml:"height"`
	ChromeHeight *int `yaml:"chrome_height"`
}

type RawMinWindow struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawLayout struct {
	Mode               *LayoutMode `yaml:"mode"`
	Gap                *int        `yaml:"gap"`
	MasterWidthPercent *int        `yaml:"master_width_percent"`
	FlexibleLastRow    *bool       `yaml:"flexible_last_row"`
}

type RawPlayerConfig struct {
	Volume       *float64       `yaml:"volume"`
	TickInterval *time.Duration `yaml:"tick_interval"`
}

type RawDatabaseConfig struct {
	Path *string `yaml:"path"`
}

type RawMusicConfig struct {
	MaxResults    *int           `yaml:"max_results"`
	ImportTimeout *time.Duration `yaml:"import_timeout"`
	PlaylistLimit *int           `yaml:"playlist_limit"`
}

type RawCatalogConfig struct {
	Path           *string `yaml:"path"`
	DefaultVariant *string `yaml:"default_variant"`
}

type RawLoggingConfig struct {
	Level     *string `yaml:"level"`
	Format    *string `yaml:"format"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig is one file's worth of settings. Nil fields were not set and
// leave lower layers untouched when merged.
type RawConfig struct {
	Include        IncludeList        `yaml:"include"`
	Listen         *string            `yaml:"listen"`
	Viewport       *RawViewport       `yaml:"viewport"`
	MinWindow      *RawMinWindow      `yaml:"min_window"`
	Layout         *RawLayout         `yaml:"layout"`
	StatusInterval *time.Duration     `yaml:"status_interval"`
	MaxSessions    *int               `yaml:"max_sessions"`
	Player         *RawPlayerConfig   `yaml:"player"`
	Database       *RawDatabaseConfig `yaml:"database"`
	Music          *RawMusicConfig    `yaml:"music"`
	Catalog        *RawCatalogConfig  `yaml:"catalog"`
	Logging        *RawLoggingConfig  `yaml:"logging"`
}

func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil
	out.Listen = pick(c.Listen, overlay.Listen)
	out.StatusInterval = pick(c.StatusInterval, overlay.StatusInterval)
	out.MaxSessions = pick(c.MaxSessions, overlay.MaxSessions)

	if overlay.Viewport != nil {
		base := RawViewport{}
		if c.Viewport != nil {
			base = *c.Viewport
		}
		out.Viewport = &RawViewport{
			Width:        pick(base.Width, overlay.Viewport.Width),
			Height:       pick(base.Height, overlay.Viewport.Height),
			ChromeHeight: pick(base.ChromeHeight, overlay.Viewport.ChromeHeight),
		}
	}
	if overlay.MinWindow != nil {
		base := RawMinWindow{}
		if c.MinWindow != nil {
			base = *c.MinWindow
		}
		out.MinWindow = &RawMinWindow{
			Width:  pick(base.Width, overlay.MinWindow.Width),
			Height: pick(base.Height, overlay.MinWindow.Height),
		}
	}
	if overlay.Layout != nil {
		base := RawLayout{}
		if c.Layout != nil {
			base = *c.Layout
		}
		out.Layout = &RawLayout{
			Mode:               pick(base.Mode, overlay.Layout.Mode),
			Gap:                pick(base.Gap, overlay.Layout.Gap),
			MasterWidthPercent: pick(base.MasterWidthPercent, overlay.Layout.MasterWidthPercent),
			FlexibleLastRow:    pick(base.FlexibleLastRow, overlay.Layout.FlexibleLastRow),
		}
	}
	if overlay.Player != nil {
		base := RawPlayerConfig{}
		if c.Player != nil {
			base = *c.Player
		}
		out.Player = &RawPlayerConfig{
			Volume:       pick(base.Volume, overlay.Player.Volume),
			TickInterval: pick(base.TickInterval, overlay.Player.TickInterval),
		}
	}
	if overlay.Database != nil {
		base := RawDatabaseConfig{}
		if c.Database != nil {
			base = *c.Database
		}
		out.Database = &RawDatabaseConfig{Path: pick(base.Path, overlay.Database.Path)}
	}
	if overlay.Music != nil {
		base := RawMusicConfig{}
		if c.Music != nil {
			base = *c.Music
		}
		out.Music = &RawMusicConfig{
			MaxResults:    pick(base.MaxResults, overlay.Music.MaxResults),
			ImportTimeout: pick(base.ImportTimeout, overlay.Music.ImportTimeout),
			PlaylistLimit: pick(base.PlaylistLimit, overlay.Music.PlaylistLimit),
		}
	}
	if overlay.Catalog != nil {
		base := RawCatalogConfig{}
		if c.Catalog != nil {
			base = *c.Catalog
		}
		out.Catalog = &RawCatalogConfig{
			Path:           pick(base.Path, overlay.Catalog.Path),
			DefaultVariant: pick(base.DefaultVariant, overlay.Catalog.DefaultVariant),
		}
	}
	if overlay.Logging != nil {
		base := RawLoggingConfig{}
		if c.Logging != nil {
			base = *c.Logging
		}
		out.Logging = &RawLoggingConfig{
			Level:     pick(base.Level, overlay.Logging.Level),
			Format:    pick(base.Format, overlay.Logging.Format),
			File:      pick(base.File, overlay.Logging.File),
			MaxSizeMB: pick(base.MaxSizeMB, overlay.Logging.MaxSizeMB),
			MaxFiles:  pick(base.MaxFiles, overlay.Logging.MaxFiles),
		}
	}
	return out
}
