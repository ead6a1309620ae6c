// Package api serves the desktop's backend endpoints and the per-session
// desktop control surface over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/catalog"
	"github.com/thriveremote/thriveos/internal/content"
	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/music"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/shell"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 5 * time.Second

	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20
)

// Server is the HTTP surface of a daemon.
type Server struct {
	daemon  *daemon.Daemon
	log     logrus.FieldLogger
	handler http.Handler
}

// New builds the router for d.
func New(d *daemon.Daemon, log logrus.FieldLogger) *Server {
	if log == nil {
		log = d.Logger()
	}
	s := &Server{daemon: d, log: log.WithField("component", "http")}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = Chain(mux, RequestID(), Logging(s.log), Recovery(s.log), CORS())
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes(mux *http.ServeMux) {
	// Backend data sources.
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/database/status", s.handleDatabaseStatus)
	mux.HandleFunc("GET /api/virtual-pets", s.handleVirtualPets)
	mux.HandleFunc("GET /api/content/relocation-arizona-peak", s.handleRelocation)
	mux.HandleFunc("GET /api/music/playlist", s.handleMusicPlaylist)
	mux.HandleFunc("POST /api/music/search", s.handleMusicSearch)
	mux.HandleFunc("POST /api/music/import", s.handleMusicImport)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/catalog/search", s.handleCatalogSearch)
	mux.HandleFunc("GET /api/catalog/clicks", s.handleCatalogClicks)
	mux.HandleFunc("POST /api/catalog/clicks", s.handleRecordClick)

	// Desktop shell.
	mux.HandleFunc("GET /api/desktop/apps", s.handleApps)
	mux.HandleFunc("GET /api/desktop/menu", s.handleMenu)
	mux.HandleFunc("GET /api/desktop/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/desktop/sessions", s.handleCreateSession)
	mux.HandleFunc("DELETE /api/desktop/sessions/{sid}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/desktop/sessions/{sid}/state", s.handleState)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/windows", s.handleLaunch)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/windows/{id}/{action}", s.handleWindowAction)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/taskbar/{id}", s.handleTaskbarClick)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/pointer", s.handlePointer)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/viewport", s.handleViewport)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/arrange", s.handleArrange)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/menu", s.handleToggleMenu)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/menu/select", s.handleSelectMenu)
	mux.HandleFunc("GET /api/desktop/sessions/{sid}/player/{player}/tracks", s.handlePlayerTracks)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/player/{action}", s.handlePlayerAction)
	mux.HandleFunc("POST /api/desktop/sessions/{sid}/console", s.handleConsole)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.WithField("addr", ln.Addr().String()).Info("HTTP server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code: lookup failures are 404, known
// input errors 400, anything else 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeStatus(w, err, http.StatusInternalServerError)
}

// rejectInput is writeError for operations whose only failure modes are bad
// input or a missing target, so unclassified errors become 400.
func (s *Server) rejectInput(w http.ResponseWriter, err error) {
	s.writeStatus(w, err, http.StatusBadRequest)
}

func (s *Server) writeStatus(w http.ResponseWriter, err error, fallback int) {
	status := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error, fallback int) int {
	var bad badRequestError
	switch {
	case errors.Is(err, daemon.ErrSessionNotFound),
		errors.Is(err, shell.ErrWindowNotFound):
		return http.StatusNotFound
	case errors.As(err, &bad),
		errors.Is(err, shell.ErrUnknownApp),
		errors.Is(err, shell.ErrUnknownAction),
		errors.Is(err, shell.ErrNotConsole),
		errors.Is(err, catalog.ErrUnknownVariant),
		errors.Is(err, player.ErrReadOnlyPlaylist),
		errors.Is(err, music.ErrInvalidPlaylist),
		errors.Is(err, content.ErrUnknownTable):
		return http.StatusBadRequest
	default:
		return fallback
	}
}

// badRequestError marks malformed client input.
type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return badRequestError{msg: fmt.Sprintf(format, args...)}
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}
