// Package shell is the desktop chrome: the app launcher table, the start
// menu, the taskbar and the Desktop aggregate that owns one session's state.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thriveremote/thriveos/internal/geom"
)

// DefaultWindowSize is used for apps that do not ask for a size.
var DefaultWindowSize = geom.Size{Width: 600, Height: 400}

// ErrUnknownApp is returned when launching an app key the table lacks.
var ErrUnknownApp = errors.New("unknown app")

// App is a launchable window kind.
type App struct {
	Key   string    `json:"key"`
	Title string    `json:"title"`
	Icon  string    `json:"icon"`
	Size  geom.Size `json:"size"`
	// Catalog names the link-directory variant rendered by portal apps.
	Catalog string `json:"catalog,omitempty"`
	// Console marks apps whose window hosts a command console.
	Console bool `json:"console,omitempty"`
}

var apps = []App{
	{Key: "jobs", Title: "AI Job Portal", Icon: "🤖", Catalog: "waitress"},
	{Key: "music", Title: "Music Player", Icon: "🎵"},
	{Key: "pets", Title: "Virtual Pets", Icon: "🐾"},
	{Key: "files", Title: "File Manager", Icon: "📁"},
	{Key: "terminal", Title: "Terminal", Icon: "💻", Size: geom.Size{Width: 800, Height: 500}, Console: true},
	{Key: "settings", Title: "Settings", Icon: "⚙️"},
	{Key: "calculator", Title: "Calculator", Icon: "🧮"},
	{Key: "editor", Title: "Text Editor", Icon: "📝"},
	{Key: "database", Title: "Database Manager", Icon: "🗄️"},
	{Key: "content", Title: "Content Manager", Icon: "📁"},
	{Key: "desktop-pets", Title: "Desktop Pets", Icon: "🐾"},
	{Key: "job-portal", Title: "Waitress Jobs", Icon: "🍽️", Catalog: "waitress"},
	{Key: "remote-jobs", Title: "Remote Jobs", Icon: "💼", Catalog: "jobs"},
	{Key: "resume", Title: "Resume Studio", Icon: "📄", Catalog: "resume"},
	{Key: "career", Title: "Career Coach", Icon: "🎯", Catalog: "career"},
	{Key: "youtube", Title: "YouTube Music", Icon: "📺"},
}

// Apps returns the launcher table with sizes filled in.
func Apps() []App {
	out := make([]App, len(apps))
	for i, a := range apps {
		out[i] = withDefaults(a)
	}
	return out
}

// LookupApp finds an app by key, case-insensitively.
func LookupApp(key string) (App, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, a := range apps {
		if a.Key == k {
			return withDefaults(a), nil
		}
	}
	return App{}, fmt.Errorf("%w: %q", ErrUnknownApp, key)
}

func withDefaults(a App) App {
	if a.Size.Width <= 0 || a.Size.Height <= 0 {
		a.Size = DefaultWindowSize
	}
	return a
}
