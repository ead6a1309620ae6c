package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/shell"
)

func windowInfo(w desktop.Window, active bool) WindowInfo {
	return WindowInfo{
		ID:        string(w.ID),
		App:       w.Content,
		Title:     w.Title,
		X:         w.Position.X,
		Y:         w.Position.Y,
		Width:     w.Size.Width,
		Height:    w.Size.Height,
		ZIndex:    w.ZIndex,
		Minimized: w.IsMinimized,
		Maximized: w.IsMaximized,
		Active:    active,
	}
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.backend.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	includeMinimized := args.IncludeMinimized == nil || *args.IncludeMinimized
	active := make(map[desktop.WindowID]bool, len(data.Taskbar))
	for _, e := range data.Taskbar {
		active[e.ID] = e.IsActive
	}

	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(data.Windows))}
	for _, w := range data.Windows {
		if w.IsMinimized && !includeMinimized {
			continue
		}
		out.Windows = append(out.Windows, windowInfo(w, active[w.ID]))
	}
	out.Count = len(out.Windows)
	return nil, out, nil
}

func (s *Server) handleOpenApp(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenAppInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	app := strings.TrimSpace(args.App)
	if app == "" {
		return nil, WindowInfo{}, fmt.Errorf("app is required")
	}
	w, err := s.backend.OpenApp(app)
	if err != nil {
		s.log.WithFields(logrus.Fields{"tool": "open_app", "app": app}).WithError(err).Warn("tool failed")
		return nil, WindowInfo{}, err
	}
	s.log.WithFields(logrus.Fields{"tool": "open_app", "app": app, "window": w.ID}).Info("window opened")
	return nil, windowInfo(*w, true), nil
}

func (s *Server) handleWindowAction(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowActionInput) (*mcpsdk.CallToolResult, WindowActionOutput, error) {
	action := strings.ToLower(strings.TrimSpace(args.Action))
	switch action {
	case shell.WindowClose, shell.WindowMinimize, shell.WindowMaximize, shell.WindowFocus:
	default:
		return nil, WindowActionOutput{}, fmt.Errorf("unknown window action %q; expected close, minimize, maximize or focus", args.Action)
	}

	id := desktop.WindowID(strings.TrimSpace(args.Window))
	if err := s.backend.WindowAction(id, action); err != nil {
		return nil, WindowActionOutput{}, err
	}
	s.log.WithFields(logrus.Fields{"tool": "window_action", "window": id, "action": action}).Debug("window action applied")
	return nil, WindowActionOutput{
		Window: string(id),
		Action: action,
		Open:   action != shell.WindowClose,
	}, nil
}

func (s *Server) handleArrangeWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	mode := strings.ToLower(strings.TrimSpace(args.Mode))
	windows, err := s.backend.Arrange(mode)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	data, err := s.backend.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	active := make(map[desktop.WindowID]bool, len(data.Taskbar))
	for _, e := range data.Taskbar {
		active[e.ID] = e.IsActive
	}

	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, windowInfo(w, active[w.ID]))
	}
	out.Count = len(out.Windows)
	s.log.WithFields(logrus.Fields{"tool": "arrange_windows", "mode": mode}).Debug("windows arranged")
	return nil, out, nil
}

func (s *Server) handlePlayerAction(_ context.Context, _ *mcpsdk.CallToolRequest, args PlayerActionInput) (*mcpsdk.CallToolResult, player.State, error) {
	cmd := shell.PlayerCommand{
		Player: strings.ToLower(strings.TrimSpace(args.Player)),
		Action: strings.ToLower(strings.TrimSpace(args.Action)),
		Repeat: strings.ToLower(strings.TrimSpace(args.Repeat)),
	}
	switch cmd.Action {
	case shell.PlayerSeek:
		if args.Fraction == nil {
			return nil, player.State{}, fmt.Errorf("fraction is required for seek")
		}
		cmd.Fraction = *args.Fraction
	case shell.PlayerVolume:
		if args.Volume == nil {
			return nil, player.State{}, fmt.Errorf("volume is required for volume")
		}
		cmd.Volume = *args.Volume
	case shell.PlayerSelect:
		if args.Index == nil {
			return nil, player.State{}, fmt.Errorf("index is required for select")
		}
		cmd.Index = *args.Index
	}

	st, err := s.backend.PlayerAction(cmd)
	if err != nil {
		return nil, player.State{}, err
	}
	return nil, *st, nil
}

func (s *Server) handleSearchMusic(_ context.Context, _ *mcpsdk.CallToolRequest, args SearchMusicInput) (*mcpsdk.CallToolResult, SearchMusicOutput, error) {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return nil, SearchMusicOutput{}, fmt.Errorf("query is required")
	}
	tracks, err := s.backend.MusicSearch(query, args.MaxResults)
	if err != nil {
		return nil, SearchMusicOutput{}, err
	}
	if tracks == nil {
		tracks = []playlist.Track{}
	}
	return nil, SearchMusicOutput{Results: tracks, Count: len(tracks)}, nil
}

func (s *Server) handleRunConsoleCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunConsoleCommandInput) (*mcpsdk.CallToolResult, RunConsoleCommandOutput, error) {
	input := cleanCommand(args.Command)
	if input == "" {
		return nil, RunConsoleCommandOutput{}, fmt.Errorf("command is required")
	}
	reply, err := s.backend.ConsoleExec(desktop.WindowID(strings.TrimSpace(args.Window)), input)
	if err != nil {
		return nil, RunConsoleCommandOutput{}, err
	}

	out := RunConsoleCommandOutput{
		Command: reply.Result.Command,
		Output:  cleanOutput(reply.Result.Output),
		Known:   reply.Result.Known,
		Cleared: reply.Result.Cleared,
	}
	s.log.WithFields(logrus.Fields{
		"tool":           "run_console_command",
		"command":        truncate(input, logPreviewLength),
		"known":          out.Known,
		"output_preview": truncate(out.Output, logPreviewLength),
	}).Debug("console command run")
	return nil, out, nil
}

func (s *Server) handleSystemStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ SystemStatusInput) (*mcpsdk.CallToolResult, daemon.Summary, error) {
	sum, err := s.backend.GetStatus()
	if err != nil {
		return nil, daemon.Summary{}, err
	}
	return nil, *sum, nil
}
