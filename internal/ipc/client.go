package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/runtimepath"
	"github.com/thriveremote/thriveos/internal/shell"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
	session    string
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// WithSession returns a copy of the client that targets a desktop session
// other than the shared default.
func (c *Client) WithSession(id string) *Client {
	cp := *c
	cp.session = id
	return &cp
}

func (c *Client) target() Target { return Target{Session: c.session} }

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload interface{}, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*daemon.Summary, error) {
	var sum daemon.Summary
	if err := c.call(CommandGetStatus, nil, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// GetState retrieves the full desktop snapshot.
func (c *Client) GetState() (*shell.State, error) {
	var st shell.State
	if err := c.call(CommandGetState, c.target(), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListWindows retrieves the open windows and taskbar.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, c.target(), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// OpenApp launches an application window.
func (c *Client) OpenApp(app string) (*desktop.Window, error) {
	var w desktop.Window
	if err := c.call(CommandOpenApp, OpenAppPayload{Target: c.target(), App: app}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// WindowAction closes, minimizes, maximizes or focuses a window.
func (c *Client) WindowAction(id desktop.WindowID, action string) error {
	return c.call(CommandWindowAction, WindowActionPayload{Target: c.target(), Window: id, Action: action}, nil)
}

// Arrange tiles the visible windows and returns the new geometry.
func (c *Client) Arrange(mode string) ([]desktop.Window, error) {
	var windows []desktop.Window
	if err := c.call(CommandArrange, ArrangePayload{Target: c.target(), Mode: mode}, &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// Pointer forwards a pointer event and reports whether geometry changed.
func (c *Client) Pointer(ev shell.PointerEvent) (bool, error) {
	var data PointerData
	if err := c.call(CommandPointer, PointerPayload{Target: c.target(), Event: ev}, &data); err != nil {
		return false, err
	}
	return data.Changed, nil
}

// PlayerAction drives the audio or video player.
func (c *Client) PlayerAction(cmd shell.PlayerCommand) (*player.State, error) {
	var st player.State
	if err := c.call(CommandPlayerAction, PlayerActionPayload{Target: c.target(), PlayerCommand: cmd}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ConsoleExec runs a console command. An empty window uses the daemon's
// detached console.
func (c *Client) ConsoleExec(window desktop.WindowID, input string) (*shell.ConsoleReply, error) {
	var reply shell.ConsoleReply
	if err := c.call(CommandConsoleExec, ConsoleExecPayload{Target: c.target(), Window: window, Input: input}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// MusicSearch ranks known tracks against query.
func (c *Client) MusicSearch(query string, maxResults int) ([]playlist.Track, error) {
	var data MusicSearchData
	if err := c.call(CommandMusicSearch, MusicSearchPayload{Query: query, MaxResults: maxResults}, &data); err != nil {
		return nil, err
	}
	return data.Results, nil
}
