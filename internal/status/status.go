// Package status simulates the system metrics shown in the desktop's top bar.
package status

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/geom"
)

// DefaultInterval is the poll period of the top bar.
const DefaultInterval = 5 * time.Second

// Bounds of the random walk.
const (
	MemoryTotalGB = 16.0
	MemoryMinGB   = 3.5
	MemoryMaxGB   = 6.0

	BatteryMin = 20
	BatteryMax = 100

	TemperatureMin = 18.0
	TemperatureMax = 26.0

	ProcessesMin = 120
	ProcessesMax = 150
)

// Level is a coarse health classification used for colouring.
type Level string

const (
	LevelOK       Level = "ok"
	LevelWarn     Level = "warn"
	LevelCritical Level = "critical"
)

// Memory is the simulated memory usage in GB.
type Memory struct {
	Used  float64 `json:"used"`
	Total float64 `json:"total"`
}

// Percent returns used/total as a percentage.
func (m Memory) Percent() float64 {
	if m.Total <= 0 {
		return 0
	}
	return m.Used / m.Total * 100
}

// Metrics is one snapshot of the simulated readout.
type Metrics struct {
	Memory      Memory    `json:"memory"`
	Battery     int       `json:"battery"`
	Temperature float64   `json:"temperature"`
	Processes   int       `json:"processes"`
	Uptime      string    `json:"uptime"`
	SampledAt   time.Time `json:"sampled_at"`
}

// Initial returns the readout shown before the first tick.
func Initial() Metrics {
	return Metrics{
		Memory:      Memory{Used: 4.2, Total: MemoryTotalGB},
		Battery:     85,
		Temperature: 22,
		Processes:   134,
	}
}

// BatteryLevel classifies the battery percentage.
func (m Metrics) BatteryLevel() Level {
	switch {
	case m.Battery < 30:
		return LevelCritical
	case m.Battery < 60:
		return LevelWarn
	default:
		return LevelOK
	}
}

// MemoryLevel classifies memory pressure.
func (m Metrics) MemoryLevel() Level {
	p := m.Memory.Percent()
	switch {
	case p > 80:
		return LevelCritical
	case p > 60:
		return LevelWarn
	default:
		return LevelOK
	}
}

// Summary renders a one-line readout.
func (m Metrics) Summary() string {
	used := uint64(m.Memory.Used * float64(humanize.GiByte))
	total := uint64(m.Memory.Total * float64(humanize.GiByte))
	return fmt.Sprintf("mem %s / %s  bat %d%%  %.1f°C  %d processes  up %s",
		humanize.IBytes(used), humanize.IBytes(total),
		m.Battery, m.Temperature, m.Processes, m.Uptime)
}

// Poller owns the simulated metrics. Snapshot is safe to call from any
// goroutine while Run is active.
type Poller struct {
	mu      sync.RWMutex
	metrics Metrics
	rnd     *rand.Rand
	started time.Time
	now     func() time.Time
	log     logrus.FieldLogger

	subs []func(Metrics)
}

// Option customizes a Poller.
type Option func(*Poller)

// WithRand injects the random source.
func WithRand(r *rand.Rand) Option {
	return func(p *Poller) { p.rnd = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Poller) { p.log = l }
}

// NewPoller creates a poller at the initial readout.
func NewPoller(opts ...Option) *Poller {
	p := &Poller{
		metrics: Initial(),
		now:     time.Now,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rnd == nil {
		p.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p.started = p.now()
	p.metrics.SampledAt = p.started
	p.metrics.Uptime = FormatUptime(0)
	return p
}

// Snapshot returns the latest metrics.
func (p *Poller) Snapshot() Metrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metrics
}

// Subscribe registers fn to receive every new snapshot. Callbacks run on the
// poller goroutine.
func (p *Poller) Subscribe(fn func(Metrics)) {
	p.mu.Lock()
	p.subs = append(p.subs, fn)
	p.mu.Unlock()
}

// Step applies one random-walk update and returns the new snapshot.
func (p *Poller) Step() Metrics {
	p.mu.Lock()
	m := p.metrics
	m.Memory.Used = geom.ClampFloat(m.Memory.Used+(p.rnd.Float64()-0.5)*0.2, MemoryMinGB, MemoryMaxGB)
	if p.rnd.Float64() > 0.9 {
		m.Battery--
	}
	m.Battery = geom.Clamp(m.Battery, BatteryMin, BatteryMax)
	m.Temperature = geom.ClampFloat(m.Temperature+(p.rnd.Float64()-0.5)*0.5, TemperatureMin, TemperatureMax)
	m.Processes = geom.Clamp(m.Processes+int(math.Floor((p.rnd.Float64()-0.5)*4)), ProcessesMin, ProcessesMax)
	now := p.now()
	m.SampledAt = now
	m.Uptime = FormatUptime(now.Sub(p.started))
	p.metrics = m
	subs := append([]func(Metrics){}, p.subs...)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(m)
	}
	return m
}

// Run steps every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	p.log.WithField("interval", interval).Debug("status poller started")
	for {
		select {
		case <-ctx.Done():
			p.log.Debug("status poller stopped")
			return
		case <-ticker.C:
			p.Step()
		}
	}
}

// FormatUptime renders d as "2h 45m".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h >= 24 {
		return fmt.Sprintf("%dd %dh %dm", h/24, h%24, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
