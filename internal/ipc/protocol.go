package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/shell"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetState     CommandType = "GET_STATE"
	CommandListWindows  CommandType = "LIST_WINDOWS"
	CommandOpenApp      CommandType = "OPEN_APP"
	CommandWindowAction CommandType = "WINDOW_ACTION"
	CommandArrange      CommandType = "ARRANGE"
	CommandPointer      CommandType = "POINTER"
	CommandPlayerAction CommandType = "PLAYER_ACTION"
	CommandConsoleExec  CommandType = "CONSOLE_EXEC"
	CommandMusicSearch  CommandType = "MUSIC_SEARCH"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Target selects a desktop session; empty means the shared default session.
type Target struct {
	Session string `json:"session,omitempty"`
}

// WindowsData is returned by LIST_WINDOWS.
type WindowsData struct {
	Windows []desktop.Window     `json:"windows"`
	Taskbar []shell.TaskbarEntry `json:"taskbar"`
}

type OpenAppPayload struct {
	Target
	App string `json:"app"`
}

type WindowActionPayload struct {
	Target
	Window desktop.WindowID `json:"window"`
	Action string           `json:"action"`
}

type ArrangePayload struct {
	Target
	Mode string `json:"mode,omitempty"` // empty uses layout.mode
}

type PointerPayload struct {
	Target
	Event shell.PointerEvent `json:"event"`
}

// PointerData reports whether a pointer event changed geometry.
type PointerData struct {
	Changed bool `json:"changed"`
}

type PlayerActionPayload struct {
	Target
	shell.PlayerCommand
}

type ConsoleExecPayload struct {
	Target
	Window desktop.WindowID `json:"window,omitempty"` // empty uses the detached console
	Input  string           `json:"input"`
}

type MusicSearchPayload struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// MusicSearchData is returned by MUSIC_SEARCH.
type MusicSearchData struct {
	Results []playlist.Track `json:"results"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
