package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/thriveremote/thriveos/internal/catalog"
	"github.com/thriveremote/thriveos/internal/content"
	"github.com/thriveremote/thriveos/internal/playlist"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.daemon.Summary())
}

// handleDatabaseStatus recounts on demand so the readout reflects inserts
// made since the last poll.
func (s *Server) handleDatabaseStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.daemon.RefreshDatabaseStatus(r.Context()))
}

func (s *Server) handleVirtualPets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, content.VirtualPets())
}

func (s *Server) handleRelocation(w http.ResponseWriter, r *http.Request) {
	rel, err := s.daemon.Store().Relocation(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

type playlistResponse struct {
	Success  bool             `json:"success"`
	Playlist []playlist.Track `json:"playlist"`
}

type tracksResponse struct {
	Success bool             `json:"success"`
	Results []playlist.Track `json:"results"`
	Count   int              `json:"count"`
}

func (s *Server) handleMusicPlaylist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, playlistResponse{Success: true, Playlist: s.daemon.Music().Playlist()})
}

type musicSearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleMusicSearch(w http.ResponseWriter, r *http.Request) {
	var req musicSearchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, badRequest("query is required"))
		return
	}
	limit := req.MaxResults
	if limit <= 0 {
		limit = s.daemon.Config().Music.MaxResults
	}
	results := s.daemon.Music().Search(req.Query, limit)
	writeJSON(w, http.StatusOK, tracksResponse{Success: true, Results: results, Count: len(results)})
}

type musicImportRequest struct {
	PlaylistID string `json:"playlist_id"`
}

// handleMusicImport runs the fetch on the request goroutine; no desktop lock
// is held while the network call is in flight.
func (s *Server) handleMusicImport(w http.ResponseWriter, r *http.Request) {
	var req musicImportRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.PlaylistID) == "" {
		s.writeError(w, badRequest("playlist_id is required"))
		return
	}
	tracks, err := s.daemon.Music().ImportPlaylist(r.Context(), req.PlaylistID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracksResponse{Success: true, Results: tracks, Count: len(tracks)})
}

type catalogResponse struct {
	catalog.Directory
	Variants []string              `json:"variants"`
	Clicks   catalog.ClickSnapshot `json:"clicks"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	variant := r.URL.Query().Get("variant")
	if variant == "" {
		variant = s.daemon.Config().Catalog.DefaultVariant
	}
	cat := s.daemon.Catalog()
	dir, err := cat.Directory(variant)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Directory: dir,
		Variants:  cat.Variants(),
		Clicks:    s.daemon.Clicks().Snapshot(),
	})
}

type catalogSearchResponse struct {
	Results []catalog.Match `json:"results"`
	Count   int             `json:"count"`
}

func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		s.writeError(w, badRequest("q is required"))
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, badRequest("invalid limit %q", raw))
			return
		}
		limit = n
	}
	results := s.daemon.Catalog().Search(query, limit)
	if results == nil {
		results = []catalog.Match{}
	}
	writeJSON(w, http.StatusOK, catalogSearchResponse{Results: results, Count: len(results)})
}

func (s *Server) handleCatalogClicks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.daemon.Clicks().Snapshot())
}

type clickRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleRecordClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, badRequest("url is required"))
		return
	}
	s.daemon.Clicks().Record(req.URL)
	writeJSON(w, http.StatusOK, s.daemon.Clicks().Snapshot())
}
