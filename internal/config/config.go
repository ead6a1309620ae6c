package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListen         = "127.0.0.1:8080"
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultChromeHeight   = 60
	DefaultMinWidth       = 300
	DefaultMinHeight      = 200
	DefaultStatusInterval = 5 * time.Second
	DefaultTickInterval   = 250 * time.Millisecond
	DefaultVolume         = 0.7
	DefaultMaxResults     = 5
	DefaultImportTimeout  = 30 * time.Second
	DefaultPlaylistLimit  = 50
	DefaultMaxSessions    = 64
	DefaultCatalogVariant = "waitress"
	DefaultLayoutGap      = 10
	DefaultMasterPercent  = 60
)

// LayoutMode defines how the arrange command places windows.
type LayoutMode string

const (
	LayoutModeAuto        LayoutMode = "auto"         // Grid sized by window count.
	LayoutModeVertical    LayoutMode = "vertical"     // Single column stack.
	LayoutModeHorizontal  LayoutMode = "horizontal"   // Single row side-by-side.
	LayoutModeMasterStack LayoutMode = "master-stack" // Focused window left, the rest stacked right.
)

// LayoutModes lists every supported mode.
func LayoutModes() []LayoutMode {
	return []LayoutMode{LayoutModeAuto, LayoutModeVertical, LayoutModeHorizontal, LayoutModeMasterStack}
}

// Viewport is the desktop size used until a client reports its own.
type Viewport struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	ChromeHeight int `yaml:"chrome_height"`
}

// MinWindow bounds resize gestures.
type MinWindow struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Layout configures window arrangement.
type Layout struct {
	Mode               LayoutMode `yaml:"mode"`
	Gap                int        `yaml:"gap"`
	MasterWidthPercent int        `yaml:"master_width_percent"` // 10-90
	FlexibleLastRow    bool       `yaml:"flexible_last_row"`    // auto mode only
}

// PlayerConfig holds player defaults.
type PlayerConfig struct {
	Volume float64 `yaml:"volume"` // 0..1
	// TickInterval drives the simulated media clock.
	TickInterval time.Duration `yaml:"tick_interval"`
}

// DatabaseConfig points at the content store.
type DatabaseConfig struct {
	// Path of the SQLite file; ":memory:" keeps content in memory.
	Path string `yaml:"path"`
}

// MusicConfig configures the YouTube service.
type MusicConfig struct {
	MaxResults    int           `yaml:"max_results"`
	ImportTimeout time.Duration `yaml:"import_timeout"`
	PlaylistLimit int           `yaml:"playlist_limit"`
}

// CatalogConfig selects the link directory source.
type CatalogConfig struct {
	// Path of a catalog YAML file; empty uses the builtin catalog.
	Path           string `yaml:"path"`
	DefaultVariant string `yaml:"default_variant"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warning, error
	Format string `yaml:"format"` // auto, text, json
	File   string `yaml:"file"`   // empty logs to stderr

	// Rotation applies to File only.
	MaxSizeMB int `yaml:"max_size_mb"`
	MaxFiles  int `yaml:"max_files"`
}

// Config is the effective daemon configuration.
type Config struct {
	Listen         string         `yaml:"listen"`
	Viewport       Viewport       `yaml:"viewport"`
	MinWindow      MinWindow      `yaml:"min_window"`
	Layout         Layout         `yaml:"layout"`
	StatusInterval time.Duration  `yaml:"status_interval"`
	MaxSessions    int            `yaml:"max_sessions"`
	Player         PlayerConfig   `yaml:"player"`
	Database       DatabaseConfig `yaml:"database"`
	Music          MusicConfig    `yaml:"music"`
	Catalog        CatalogConfig  `yaml:"catalog"`
	Logging        LoggingConfig  `yaml:"logging"`
}

// DefaultDatabasePath returns ~/.local/share/thriveos/thriveos.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "thriveos", "thriveos.db")
}

func DefaultConfig() *Config {
	return &Config{
		Listen: DefaultListen,
		Viewport: Viewport{
			Width:        DefaultViewportWidth,
			Height:       DefaultViewportHeight,
			ChromeHeight: DefaultChromeHeight,
		},
		MinWindow:      MinWindow{Width: DefaultMinWidth, Height: DefaultMinHeight},
		Layout: Layout{
			Mode:               LayoutModeAuto,
			Gap:                DefaultLayoutGap,
			MasterWidthPercent: DefaultMasterPercent,
			FlexibleLastRow:    true,
		},
		StatusInterval: DefaultStatusInterval,
		MaxSessions:    DefaultMaxSessions,
		Player: PlayerConfig{
			Volume:       DefaultVolume,
			TickInterval: DefaultTickInterval,
		},
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Music: MusicConfig{
			MaxResults:    DefaultMaxResults,
			ImportTimeout: DefaultImportTimeout,
			PlaylistLimit: DefaultPlaylistLimit,
		},
		Catalog: CatalogConfig{DefaultVariant: DefaultCatalogVariant},
		Logging: LoggingConfig{Level: "info", Format: "auto", MaxSizeMB: 10, MaxFiles: 3},
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return &ValidationError{Path: "listen", Err: fmt.Errorf("listen is required")}
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return &ValidationError{Path: "listen", Err: fmt.Errorf("listen must be host:port: %w", err)}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be positive")}
	}
	if c.Viewport.ChromeHeight < 0 || c.Viewport.ChromeHeight >= c.Viewport.Height {
		return &ValidationError{Path: "viewport.chrome_height", Err: fmt.Errorf("chrome_height must be >= 0 and below the viewport height")}
	}
	if c.MinWindow.Width <= 0 || c.MinWindow.Height <= 0 {
		return &ValidationError{Path: "min_window", Err: fmt.Errorf("min_window width and height must be positive")}
	}
	if err := validateLayout(c.Layout); err != nil {
		return err
	}
	if c.StatusInterval <= 0 {
		return &ValidationError{Path: "status_interval", Err: fmt.Errorf("status_interval must be > 0")}
	}
	if c.MaxSessions <= 0 {
		return &ValidationError{Path: "max_sessions", Err: fmt.Errorf("max_sessions must be > 0")}
	}
	if c.Player.Volume < 0 || c.Player.Volume > 1 {
		return &ValidationError{Path: "player.volume", Err: fmt.Errorf("volume must be between 0 and 1")}
	}
	if c.Player.TickInterval <= 0 {
		return &ValidationError{Path: "player.tick_interval", Err: fmt.Errorf("tick_interval must be > 0")}
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return &ValidationError{Path: "database.path", Err: fmt.Errorf("database path is required")}
	}
	if c.Music.MaxResults <= 0 || c.Music.MaxResults > 25 {
		return &ValidationError{Path: "music.max_results", Err: fmt.Errorf("max_results must be between 1 and 25")}
	}
	if c.Music.ImportTimeout <= 0 {
		return &ValidationError{Path: "music.import_timeout", Err: fmt.Errorf("import_timeout must be > 0")}
	}
	if c.Music.PlaylistLimit < 0 {
		return &ValidationError{Path: "music.playlist_limit", Err: fmt.Errorf("playlist_limit must be >= 0")}
	}
	if strings.TrimSpace(c.Catalog.DefaultVariant) == "" {
		return &ValidationError{Path: "catalog.default_variant", Err: fmt.Errorf("default_variant is required")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	switch c.Logging.Format {
	case "auto", "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: auto, text, json")}
	}
	if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging", Err: fmt.Errorf("max_size_mb must be > 0 and max_files >= 0")}
	}
	return nil
}

func validateLayout(l Layout) error {
	switch l.Mode {
	case LayoutModeAuto, LayoutModeVertical, LayoutModeHorizontal, LayoutModeMasterStack:
	default:
		return &ValidationError{Path: "layout.mode", Err: fmt.Errorf("mode must be one of: auto, vertical, horizontal, master-stack")}
	}
	if l.Gap < 0 {
		return &ValidationError{Path: "layout.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if l.MasterWidthPercent < 10 || l.MasterWidthPercent > 90 {
		return &ValidationError{Path: "layout.master_width_percent", Err: fmt.Errorf("master_width_percent must be between 10 and 90")}
	}
	return nil
}
