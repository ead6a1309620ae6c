// Package daemon owns the long-lived services shared by every transport: the
// content store, the music service, the status poller, the link catalog and
// the desktop sessions.
package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/catalog"
	"github.com/thriveremote/thriveos/internal/config"
	"github.com/thriveremote/thriveos/internal/console"
	"github.com/thriveremote/thriveos/internal/content"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/interaction"
	"github.com/thriveremote/thriveos/internal/music"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/shell"
	"github.com/thriveremote/thriveos/internal/status"
)

// Options overrides external dependencies, mainly for tests.
type Options struct {
	Fetcher       music.Fetcher
	StatusOptions []status.Option
}

// Daemon is one running thriveos instance.
type Daemon struct {
	log      logrus.FieldLogger
	store    *content.Store
	music    *music.Service
	poller   *status.Poller
	clicks   *catalog.ClickStats
	sessions *Sessions
	started  time.Time

	mu       sync.RWMutex
	cfg      *config.Config
	catalog  *catalog.Catalog
	dbStatus content.DatabaseStatus
}

// New opens the content store and builds the shared services.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, opts Options) (*Daemon, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cat, err := LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	store, err := content.Open(ctx, cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open content store: %w", err)
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = music.YTDLPFetcher{Limit: cfg.Music.PlaylistLimit}
	}
	svc := music.NewService(fetcher, log)
	svc.SetTimeout(cfg.Music.ImportTimeout)

	statusOpts := append([]status.Option{status.WithLogger(log)}, opts.StatusOptions...)

	d := &Daemon{
		log:     log,
		store:   store,
		music:   svc,
		poller:  status.NewPoller(statusOpts...),
		clicks:  &catalog.ClickStats{},
		started: time.Now(),
		cfg:     cfg,
		catalog: cat,
	}
	d.RefreshDatabaseStatus(ctx)
	d.sessions = NewSessions(cfg.MaxSessions, d.newDesktop)
	return d, nil
}

// LoadCatalog reads the configured catalog file, or the builtin one.
func LoadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Builtin()
	}
	cat, err := catalog.LoadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func (d *Daemon) newDesktop() *shell.Desktop {
	cfg := d.Config()

	volume := cfg.Player.Volume
	audio := player.AudioOptions()
	audio.Volume = &volume
	video := player.VideoOptions()
	video.Volume = &volume

	return shell.NewDesktop(shell.Options{
		Viewport: desktop.Viewport{
			Width:        cfg.Viewport.Width,
			Height:       cfg.Viewport.Height,
			ChromeHeight: cfg.Viewport.ChromeHeight,
		},
		Limits:      interaction.Limits{MinWidth: cfg.MinWindow.Width, MinHeight: cfg.MinWindow.Height},
		Layout:      cfg.Layout,
		Audio:       audio,
		AudioTracks: music.AudioPlaylist(),
		Video:       video,
		VideoTracks: d.music.Playlist(),
		Info:        d.Info,
		Logger:      d.log,
	})
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Catalog returns the active link catalog.
func (d *Daemon) Catalog() *catalog.Catalog {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.catalog
}

func (d *Daemon) Store() *content.Store       { return d.store }
func (d *Daemon) Music() *music.Service       { return d.music }
func (d *Daemon) Poller() *status.Poller      { return d.poller }
func (d *Daemon) Clicks() *catalog.ClickStats { return d.clicks }
func (d *Daemon) Sessions() *Sessions         { return d.sessions }
func (d *Daemon) Logger() logrus.FieldLogger  { return d.log }

// Uptime is the time since New.
func (d *Daemon) Uptime() time.Duration {
	return time.Since(d.started)
}

// RefreshDatabaseStatus recounts the content tables and caches the readout.
func (d *Daemon) RefreshDatabaseStatus(ctx context.Context) content.DatabaseStatus {
	st := d.store.Status(ctx)
	d.mu.Lock()
	d.dbStatus = st
	d.mu.Unlock()
	return st
}

// DatabaseStatus returns the cached readout.
func (d *Daemon) DatabaseStatus() content.DatabaseStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dbStatus
}

// Info feeds the console status commands. It only reads cached state so it
// is safe to call under a desktop lock.
func (d *Daemon) Info() console.Info {
	db := d.DatabaseStatus()
	return console.Info{
		DatabaseType: db.DatabaseType,
		Connected:    db.Connected(),
		Records:      db.TotalRecords,
		PetGames:     len(content.VirtualPets().Pets),
		Metrics:      d.poller.Snapshot().Summary(),
	}
}

// Reload swaps in cfg. Geometry and player settings apply to sessions
// created afterwards; the database path is fixed for the process lifetime.
func (d *Daemon) Reload(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cat, err := LoadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	d.mu.Lock()
	if cfg.Database.Path != d.cfg.Database.Path {
		d.log.WithField("path", cfg.Database.Path).Warn("database path change needs a restart")
	}
	d.cfg = cfg
	d.catalog = cat
	d.mu.Unlock()

	d.music.SetTimeout(cfg.Music.ImportTimeout)
	d.sessions.SetMax(cfg.MaxSessions)
	d.log.Info("configuration reloaded")
	return nil
}

// Summary is the daemon-wide status readout.
type Summary struct {
	Running  bool                   `json:"running"`
	Uptime   string                 `json:"uptime"`
	Sessions int                    `json:"sessions"`
	Windows  int                    `json:"windows"`
	Metrics  status.Metrics         `json:"metrics"`
	Database content.DatabaseStatus `json:"database"`
}

// Summary reports the default session and shared services.
func (d *Daemon) Summary() Summary {
	return Summary{
		Running:  true,
		Uptime:   status.FormatUptime(d.Uptime()),
		Sessions: d.sessions.Len(),
		Windows:  len(d.sessions.Default().Windows()),
		Metrics:  d.poller.Snapshot(),
		Database: d.DatabaseStatus(),
	}
}

// Run drives the status poller and the media clock until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) {
	cfg := d.Config()

	// Keep the cached record count fresh alongside the metrics.
	d.poller.Subscribe(func(status.Metrics) { d.RefreshDatabaseStatus(ctx) })

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.poller.Run(ctx, cfg.StatusInterval)
	}()
	go func() {
		defer wg.Done()
		NewClock(cfg.Player.TickInterval, d.sessions, d.log).Run(ctx)
	}()
	d.log.WithField("interval", cfg.StatusInterval).Info("daemon running")
	wg.Wait()
}

// Close releases sessions and the store.
func (d *Daemon) Close() error {
	d.sessions.Close()
	return d.store.Close()
}
