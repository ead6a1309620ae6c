package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/ipc"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/shell"
)

const (
	ServerName    = "thriveos"
	ServerVersion = "0.1.0"

	// logPreviewLength bounds console text copied into log entries.
	logPreviewLength = 50
)

// Backend is the daemon surface the tools drive. *ipc.Client satisfies it.
type Backend interface {
	GetStatus() (*daemon.Summary, error)
	ListWindows() (*ipc.WindowsData, error)
	OpenApp(app string) (*desktop.Window, error)
	WindowAction(id desktop.WindowID, action string) error
	Arrange(mode string) ([]desktop.Window, error)
	PlayerAction(cmd shell.PlayerCommand) (*player.State, error)
	ConsoleExec(window desktop.WindowID, input string) (*shell.ConsoleReply, error)
	MusicSearch(query string, maxResults int) ([]playlist.Track, error)
}

// Server is the MCP server exposing the desktop to agents.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	log       logrus.FieldLogger
}

// NewServer creates a new MCP server backed by a running daemon.
func NewServer(backend Backend, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		backend: backend,
		log:     log.WithField("component", "mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open desktop windows with their geometry, stacking order and minimized/maximized/active state. Windows are ordered by z-index, top-most last.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_app",
		Description: "Launch an application window on the shared desktop. New windows cascade from (100,100) and become the active window. Returns the new window.",
	}, s.handleOpenApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_action",
		Description: "Close, minimize, maximize or focus a window. Maximize toggles: a maximized window is restored to its previous geometry.",
	}, s.handleWindowAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Tile every visible window over the desktop work area. Modes: auto (grid), vertical, horizontal, master-stack (active window on the left). Maximized windows are restored; minimized windows stay put.",
	}, s.handleArrangeWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "player_action",
		Description: "Drive the audio or video player: toggle play/pause, skip, seek, set volume, shuffle, repeat, expand or select a playlist entry. Returns the player state after the action.",
	}, s.handlePlayerAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "search_music",
		Description: "Fuzzy search the curated and imported music catalog. Returns matching tracks, best match first.",
	}, s.handleSearchMusic)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_console_command",
		Description: "Run a command in the simulated terminal console (help, status, jobs, pets, version, ls, pwd, clear, ...). Unknown commands return a 'Command not found' line rather than an error.",
	}, s.handleRunConsoleCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "system_status",
		Description: "Report daemon uptime, session and window counts, simulated system metrics and the content database status.",
	}, s.handleSystemStatus)
}
