package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	set(&cfg.Listen, raw.Listen)
	set(&cfg.StatusInterval, raw.StatusInterval)
	set(&cfg.MaxSessions, raw.MaxSessions)

	if v := raw.Viewport; v != nil {
		set(&cfg.Viewport.Width, v.Width)
		set(&cfg.Viewport.Height, v.Height)
		set(&cfg.Viewport.ChromeHeight, v.ChromeHeight)
	}
	if m := raw.MinWindow; m != nil {
		set(&cfg.MinWindow.Width, m.Width)
		set(&cfg.MinWindow.Height, m.Height)
	}
	if l := raw.Layout; l != nil {
		set(&cfg.Layout.Mode, l.Mode)
		set(&cfg.Layout.Gap, l.Gap)
		set(&cfg.Layout.MasterWidthPercent, l.MasterWidthPercent)
		set(&cfg.Layout.FlexibleLastRow, l.FlexibleLastRow)
	}
	if p := raw.Player; p != nil {
		set(&cfg.Player.Volume, p.Volume)
		set(&cfg.Player.TickInterval, p.TickInterval)
	}
	if d := raw.Database; d != nil {
		set(&cfg.Database.Path, d.Path)
	}
	if m := raw.Music; m != nil {
		set(&cfg.Music.MaxResults, m.MaxResults)
		set(&cfg.Music.ImportTimeout, m.ImportTimeout)
		set(&cfg.Music.PlaylistLimit, m.PlaylistLimit)
	}
	if c := raw.Catalog; c != nil {
		set(&cfg.Catalog.Path, c.Path)
		set(&cfg.Catalog.DefaultVariant, c.DefaultVariant)
	}
	if l := raw.Logging; l != nil {
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.Format, l.Format)
		set(&cfg.Logging.File, l.File)
		set(&cfg.Logging.MaxSizeMB, l.MaxSizeMB)
		set(&cfg.Logging.MaxFiles, l.MaxFiles)
	}
	return cfg
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
