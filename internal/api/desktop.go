package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/shell"
)

// session resolves the {sid} path value, writing a 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*shell.Desktop, bool) {
	desk, err := s.daemon.Sessions().Get(r.PathValue("sid"))
	if err != nil {
		s.rejectInput(w, err)
		return nil, false
	}
	return desk, true
}

func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, shell.Apps())
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, shell.StartMenu())
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.daemon.Sessions().List())
}

type sessionCreated struct {
	ID    string      `json:"id"`
	State shell.State `json:"state"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, desk := s.daemon.Sessions().Create()
	s.log.WithField("session", id).Info("desktop session created")
	writeJSON(w, http.StatusCreated, sessionCreated{ID: id, State: desk.State()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := r.PathValue("sid")
	if err := s.daemon.Sessions().Delete(sid); err != nil {
		s.rejectInput(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, desk.State())
}

type launchRequest struct {
	App string `json:"app"`
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	var req launchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.rejectInput(w, err)
		return
	}
	win, err := desk.Launch(req.App)
	if err != nil {
		s.rejectInput(w, err)
		return
	}
	s.log.WithFields(logrus.Fields{"session": r.PathValue("sid"), "app": req.App, "window": win.ID}).Debug("window opened")
	writeJSON(w, http.StatusCreated, win)
}

func (s *Server) handleWindowAction(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := desk.WindowAction(desktop.WindowID(r.PathValue("id")), r.PathValue("action")); err != nil {
		s.rejectInput(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desk.State())
}

func (s *Server) handleTaskbarClick(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := desk.TaskbarClick(desktop.WindowID(r.PathValue("id"))); err != nil {
		s.rejectInput(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desk.State())
}

type pointerResponse struct {
	Changed bool        `json:"changed"`
	State   shell.State `json:"state"`
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	var ev shell.PointerEvent
	if err := decodeBody(w, r, &ev); err != nil {
		s.rejectInput(w, err)
		return
	}
	changed, err := desk.Pointer(ev)
	if err != nil {
		s.rejectInput(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pointerResponse{Changed: changed, State: desk.State()})
}

type viewportRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	var req viewportRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.rejectInput(w, err)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		s.writeError(w, badRequest("width and height must be positive"))
		return
	}
	desk.SetViewport(req.Width, req.Height)
	writeJSON(w, http.StatusOK, desk.State())
}

type arrangeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleArrange(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	var req arrangeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.rejectInput(w, err)
		return
	}
	if _, err := desk.Arrange(req.Mode); err != nil {
		s.rejectInput(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desk.State())
}

type menuResponse struct {
	Open bool `json:"open"`
}

func (s *Server) handleToggleMenu(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, menuResponse{Open: desk.ToggleStartMenu()})
}

type menuSelectRequest struct {
	Action string `json:"action"`
}

// handleSelectMenu launches the app or returns the link a menu item names.
// Opened links count towards the portal click stats.
func (s *Server) handleSelectMenu(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	var req menuSelectRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.rejectInput(w, err)
		return
	}
	sel, err := desk.SelectMenu(req.Action)
	if err != nil {
		s.rejectInput(w, err)
		return
	}
	if sel.URL != "" {
		s.daemon.Clicks().Record(sel.URL)
	}
	writeJSON(w, http.StatusOK, sel)
}

func (s *Server) handlePlayerAction(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	var cmd shell.PlayerCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		s.rejectInput(w, err)
		return
	}
	cmd.Action = r.PathValue("action")
	if cmd.Player == "" {
		cmd.Player = "audio"
	}
	st, err := desk.Player(cmd)
	if err != nil {
		s.rejectInput(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePlayerTracks(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	tracks, err := desk.PlayerTracks(r.PathValue("player"))
	if err != nil {
		s.rejectInput(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlistResponse{Success: true, Playlist: tracks})
}

type consoleRequest struct {
	Window desktop.WindowID `json:"window"`
	Input  string           `json:"input"`
}

func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	desk, ok := s.session(w, r)
	if !ok {
		return
	}
	var req consoleRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.rejectInput(w, err)
		return
	}
	reply, err := desk.Exec(req.Window, req.Input)
	if err != nil {
		s.rejectInput(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
