package mcp

import (
	"github.com/thriveremote/thriveos/internal/playlist"
)

// WindowInfo describes one desktop window.
type WindowInfo struct {
	ID        string `json:"id"`
	App       string `json:"app"`
	Title     string `json:"title"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ZIndex    int    `json:"z_index"`
	Minimized bool   `json:"minimized"`
	Maximized bool   `json:"maximized"`
	Active    bool   `json:"active"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeMinimized *bool `json:"include_minimized,omitempty" jsonschema:"Include minimized windows (default: true)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
	Count   int          `json:"count"`
}

// OpenAppInput is the input for the open_app tool.
type OpenAppInput struct {
	App string `json:"app" jsonschema:"Application key, e.g. terminal, music, youtube, jobs, pets, files"`
}

// WindowActionInput is the input for the window_action tool.
type WindowActionInput struct {
	Window string `json:"window" jsonschema:"Window id as returned by list_windows or open_app"`
	Action string `json:"action" jsonschema:"One of close, minimize, maximize, focus"`
}

// WindowActionOutput is the output for the window_action tool.
type WindowActionOutput struct {
	Window string `json:"window"`
	Action string `json:"action"`
	Open   bool   `json:"open"`
}

// ArrangeWindowsInput is the input for the arrange_windows tool.
type ArrangeWindowsInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"auto, vertical, horizontal or master-stack (default: the configured layout)"`
}

// PlayerActionInput is the input for the player_action tool.
type PlayerActionInput struct {
	Player   string   `json:"player" jsonschema:"audio or video"`
	Action   string   `json:"action" jsonschema:"One of toggle, next, previous, seek, volume, shuffle, repeat, expand, select"`
	Fraction *float64 `json:"fraction,omitempty" jsonschema:"Seek position as a fraction of the track, 0 to 1 (seek only)"`
	Volume   *float64 `json:"volume,omitempty" jsonschema:"Volume from 0 to 1 (volume only)"`
	Index    *int     `json:"index,omitempty" jsonschema:"Playlist index to play (select only)"`
	Repeat   string   `json:"repeat,omitempty" jsonschema:"none, one or all (repeat only; omit to cycle)"`
}

// SearchMusicInput is the input for the search_music tool.
type SearchMusicInput struct {
	Query      string `json:"query" jsonschema:"Free text matched against track titles and artists"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum results to return (default from daemon config)"`
}

// SearchMusicOutput is the output for the search_music tool.
type SearchMusicOutput struct {
	Results []playlist.Track `json:"results"`
	Count   int              `json:"count"`
}

// RunConsoleCommandInput is the input for the run_console_command tool.
type RunConsoleCommandInput struct {
	Command string `json:"command" jsonschema:"Console command line, e.g. help, status, version, ls"`
	Window  string `json:"window,omitempty" jsonschema:"Terminal window id whose history should record the command (default: detached console)"`
}

// RunConsoleCommandOutput is the output for the run_console_command tool.
type RunConsoleCommandOutput struct {
	Command string `json:"command"`
	Output  string `json:"output"`
	Known   bool   `json:"known"`
	Cleared bool   `json:"cleared,omitempty"`
}

// SystemStatusInput is the input for the system_status tool.
type SystemStatusInput struct{}
