package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/config"
	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/runtimepath"
	"github.com/thriveremote/thriveos/internal/shell"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	configPath   string
	listener     net.Listener
	daemon       *daemon.Daemon
	log          logrus.FieldLogger
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on the runtime socket. configPath is
// re-read on RELOAD; empty means the default config location.
func NewServer(d *daemon.Daemon, configPath string, log logrus.FieldLogger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, d, configPath, log), nil
}

// NewServerAt creates a server bound to an explicit socket path.
func NewServerAt(socketPath string, d *daemon.Daemon, configPath string, log logrus.FieldLogger) *Server {
	if log == nil {
		log = d.Logger()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		configPath: configPath,
		daemon:     d,
		log:        log.WithField("component", "ipc"),
	}
}

// SocketPath is the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.WithField("socket", s.socketPath).Info("IPC server listening")

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.WithError(err).Warn("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.WithError(err).Debug("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.log.WithError(err).Error("failed to marshal response")
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.WithError(err).Debug("failed to send response")
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.log.WithField("command", req.Command).Debug("IPC request")

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return ok(s.daemon.Summary())
	case CommandGetState:
		return s.handleGetState(req.Payload)
	case CommandListWindows:
		return s.handleListWindows(req.Payload)
	case CommandOpenApp:
		return s.handleOpenApp(req.Payload)
	case CommandWindowAction:
		return s.handleWindowAction(req.Payload)
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandPointer:
		return s.handlePointer(req.Payload)
	case CommandPlayerAction:
		return s.handlePlayerAction(req.Payload)
	case CommandConsoleExec:
		return s.handleConsoleExec(req.Payload)
	case CommandMusicSearch:
		return s.handleMusicSearch(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// decode unmarshals an optional payload. An absent payload leaves v untouched.
func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func (s *Server) desktop(t Target) (*shell.Desktop, error) {
	if t.Session == "" {
		return s.daemon.Sessions().Default(), nil
	}
	return s.daemon.Sessions().Get(t.Session)
}

// handleReload re-reads the config file and applies it to the daemon
func (s *Server) handleReload() *Response {
	s.log.Info("received RELOAD")

	var (
		cfg *config.Config
		err error
	)
	if s.configPath != "" {
		var res *config.LoadResult
		res, err = config.LoadFromPath(s.configPath)
		if res != nil {
			cfg = res.Config
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	if err := s.daemon.Reload(cfg); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply config: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleGetState(payload json.RawMessage) *Response {
	var t Target
	if err := decode(payload, &t); err != nil {
		return NewErrorResponse(err.Error())
	}
	desk, err := s.desktop(t)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(desk.State())
}

func (s *Server) handleListWindows(payload json.RawMessage) *Response {
	var t Target
	if err := decode(payload, &t); err != nil {
		return NewErrorResponse(err.Error())
	}
	desk, err := s.desktop(t)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	st := desk.State()
	return ok(WindowsData{Windows: st.Windows, Taskbar: st.Taskbar})
}

func (s *Server) handleOpenApp(payload json.RawMessage) *Response {
	var req OpenAppPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.App == "" {
		return NewErrorResponse("app is required")
	}
	desk, err := s.desktop(req.Target)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	w, err := desk.Launch(req.App)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	s.log.WithFields(logrus.Fields{"app": req.App, "window": w.ID}).Info("window opened")
	return ok(w)
}

func (s *Server) handleWindowAction(payload json.RawMessage) *Response {
	var req WindowActionPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	desk, err := s.desktop(req.Target)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := desk.WindowAction(req.Window, req.Action); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var req ArrangePayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	desk, err := s.desktop(req.Target)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	windows, err := desk.Arrange(req.Mode)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(windows)
}

func (s *Server) handlePointer(payload json.RawMessage) *Response {
	var req PointerPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	desk, err := s.desktop(req.Target)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	changed, err := desk.Pointer(req.Event)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(PointerData{Changed: changed})
}

func (s *Server) handlePlayerAction(payload json.RawMessage) *Response {
	var req PlayerActionPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	desk, err := s.desktop(req.Target)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	st, err := desk.Player(req.PlayerCommand)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(st)
}

func (s *Server) handleConsoleExec(payload json.RawMessage) *Response {
	var req ConsoleExecPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	desk, err := s.desktop(req.Target)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	reply, err := desk.Exec(req.Window, req.Input)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(reply)
}

func (s *Server) handleMusicSearch(payload json.RawMessage) *Response {
	var req MusicSearchPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	limit := req.MaxResults
	if limit <= 0 {
		limit = s.daemon.Config().Music.MaxResults
	}
	return ok(MusicSearchData{Results: s.daemon.Music().Search(req.Query, limit)})
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
