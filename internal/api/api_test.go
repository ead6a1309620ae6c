package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/catalog"
	"github.com/thriveremote/thriveos/internal/config"
	"github.com/thriveremote/thriveos/internal/content"
	"github.com/thriveremote/thriveos/internal/daemon"
	"github.com/thriveremote/thriveos/internal/desktop"
	"github.com/thriveremote/thriveos/internal/music"
	"github.com/thriveremote/thriveos/internal/player"
	"github.com/thriveremote/thriveos/internal/playlist"
	"github.com/thriveremote/thriveos/internal/shell"
)

type stubFetcher struct{}

func (stubFetcher) PlaylistItems(ctx context.Context, id string) ([]music.Item, error) {
	if id == "PLbroken" {
		return nil, errors.New("upstream unavailable")
	}
	return []music.Item{
		{VideoID: "vid1", Title: "Desert Highway", Author: "Road Band", Seconds: 245},
		{VideoID: "", Title: "Deleted video"},
	}, nil
}

func newTestAPI(t *testing.T) (*httptest.Server, *daemon.Daemon) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.DefaultConfig()
	cfg.Database.Path = ":memory:"
	d, err := daemon.New(context.Background(), cfg, log, daemon.Options{Fetcher: stubFetcher{}})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	srv := httptest.NewServer(New(d, log).Handler())
	t.Cleanup(func() {
		srv.Close()
		d.Close()
	})
	return srv, d
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestDatabaseStatus(t *testing.T) {
	srv, _ := newTestAPI(t)
	var st content.DatabaseStatus
	if code := do(t, srv, http.MethodGet, "/api/database/status", nil, &st); code != http.StatusOK {
		t.Fatalf("status code %d", code)
	}
	if st.Status != "connected" || st.DatabaseType != "SQLite" || st.TotalRecords != 21 {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(st.Tables) == 0 {
		t.Fatalf("expected per-table counts")
	}
}

func TestVirtualPetsAndRelocation(t *testing.T) {
	srv, _ := newTestAPI(t)

	var pets content.PetsInfo
	if code := do(t, srv, http.MethodGet, "/api/virtual-pets", nil, &pets); code != http.StatusOK {
		t.Fatalf("pets code %d", code)
	}
	if len(pets.Pets) != 3 {
		t.Fatalf("expected 3 pets, got %d", len(pets.Pets))
	}
	for key, p := range pets.Pets {
		if p.URL == "" || len(p.Features) == 0 {
			t.Fatalf("pet %s missing url or features: %+v", key, p)
		}
	}

	var rel content.Relocation
	if code := do(t, srv, http.MethodGet, "/api/content/relocation-arizona-peak", nil, &rel); code != http.StatusOK {
		t.Fatalf("relocation code %d", code)
	}
	if rel.RelocationFocus != content.RelocationFocus || rel.TotalItems == 0 || len(rel.Categories) == 0 {
		t.Fatalf("unexpected relocation %+v", rel)
	}
}

func TestMusicEndpoints(t *testing.T) {
	srv, _ := newTestAPI(t)

	var pl playlistResponse
	if code := do(t, srv, http.MethodGet, "/api/music/playlist", nil, &pl); code != http.StatusOK || !pl.Success || len(pl.Playlist) != 5 {
		t.Fatalf("playlist: code=%d %+v", code, pl)
	}

	var imported tracksResponse
	code := do(t, srv, http.MethodPost, "/api/music/import", map[string]string{"playlist_id": "https://www.youtube.com/playlist?list=PLroad"}, &imported)
	if code != http.StatusOK || imported.Count != 1 {
		t.Fatalf("import: code=%d %+v", code, imported)
	}
	got := imported.Results[0]
	if got.Duration != "4:05" || got.Cover != "https://img.youtube.com/vi/vid1/hqdefault.jpg" {
		t.Fatalf("unexpected imported track %+v", got)
	}

	var found tracksResponse
	if code := do(t, srv, http.MethodPost, "/api/music/search", map[string]any{"query": "desert highway", "max_results": 3}, &found); code != http.StatusOK {
		t.Fatalf("search code %d", code)
	}
	if !containsTrack(found.Results, "vid1") {
		t.Fatalf("expected imported track to be searchable, got %+v", found.Results)
	}

	var e errorBody
	if code := do(t, srv, http.MethodPost, "/api/music/search", map[string]string{"query": " "}, &e); code != http.StatusBadRequest || e.Error == "" {
		t.Fatalf("blank search: code=%d %+v", code, e)
	}
	if code := do(t, srv, http.MethodPost, "/api/music/import", map[string]string{"playlist_id": ""}, &e); code != http.StatusBadRequest {
		t.Fatalf("empty import: code=%d", code)
	}
	if code := do(t, srv, http.MethodPost, "/api/music/import", map[string]string{"playlist_id": "PLbroken"}, &e); code != http.StatusInternalServerError {
		t.Fatalf("failed import: code=%d", code)
	}
}

func containsTrack(tracks []playlist.Track, id string) bool {
	for _, tr := range tracks {
		if tr.ID == id {
			return true
		}
	}
	return false
}

func TestCatalog(t *testing.T) {
	srv, d := newTestAPI(t)

	var dir catalogResponse
	if code := do(t, srv, http.MethodGet, "/api/catalog", nil, &dir); code != http.StatusOK {
		t.Fatalf("catalog code %d", code)
	}
	if dir.Variant != d.Config().Catalog.DefaultVariant || len(dir.Categories) == 0 || len(dir.Variants) == 0 {
		t.Fatalf("unexpected directory %+v", dir.Directory)
	}

	var e errorBody
	if code := do(t, srv, http.MethodGet, "/api/catalog?variant=nope", nil, &e); code != http.StatusBadRequest {
		t.Fatalf("unknown variant code %d", code)
	}
	if !strings.Contains(e.Error, catalog.ErrUnknownVariant.Error()) {
		t.Fatalf("unexpected error %q", e.Error)
	}

	var snap catalog.ClickSnapshot
	if code := do(t, srv, http.MethodPost, "/api/catalog/clicks", map[string]string{"url": "https://example.test"}, &snap); code != http.StatusOK || snap.TotalClicks != 1 {
		t.Fatalf("click: code=%d %+v", code, snap)
	}

	var hits catalogSearchResponse
	if code := do(t, srv, http.MethodGet, "/api/catalog/search?q=indeed&limit=2", nil, &hits); code != http.StatusOK || hits.Count > 2 {
		t.Fatalf("catalog search: code=%d %+v", code, hits)
	}
	if code := do(t, srv, http.MethodGet, "/api/catalog/search?q=x&limit=-1", nil, &e); code != http.StatusBadRequest {
		t.Fatalf("bad limit code %d", code)
	}
}

func TestDesktopSessionFlow(t *testing.T) {
	srv, _ := newTestAPI(t)

	var created sessionCreated
	if code := do(t, srv, http.MethodPost, "/api/desktop/sessions", nil, &created); code != http.StatusCreated || created.ID == "" {
		t.Fatalf("create: code=%d %+v", code, created)
	}
	base := "/api/desktop/sessions/" + created.ID

	var win desktop.Window
	if code := do(t, srv, http.MethodPost, base+"/windows", map[string]string{"app": "terminal"}, &win); code != http.StatusCreated {
		t.Fatalf("launch code %d", code)
	}
	if win.ID != "1" || win.Position.X != 100 || win.Size.Width != 800 {
		t.Fatalf("unexpected window %+v", win)
	}

	// Drag by the header.
	var pr pointerResponse
	do(t, srv, http.MethodPost, base+"/pointer", shell.PointerEvent{Kind: "down", Target: "header", Window: win.ID, X: 110, Y: 105}, &pr)
	if pr.State.Gesture.Phase != "dragging" {
		t.Fatalf("expected dragging, got %q", pr.State.Gesture.Phase)
	}
	do(t, srv, http.MethodPost, base+"/pointer", shell.PointerEvent{Kind: "move", X: 210, Y: 155}, &pr)
	if !pr.Changed {
		t.Fatalf("expected move to change geometry")
	}
	do(t, srv, http.MethodPost, base+"/pointer", shell.PointerEvent{Kind: "up"}, &pr)
	if got := pr.State.Windows[0].Position; got.X != 200 || got.Y != 150 {
		t.Fatalf("expected window at (200,150), got %+v", got)
	}

	var st shell.State
	if code := do(t, srv, http.MethodPost, base+"/windows/1/maximize", nil, &st); code != http.StatusOK {
		t.Fatalf("maximize code %d", code)
	}
	if w := st.Windows[0]; !w.IsMaximized || w.Size.Height != 740 {
		t.Fatalf("unexpected maximized window %+v", w)
	}

	var reply shell.ConsoleReply
	if code := do(t, srv, http.MethodPost, base+"/console", map[string]string{"window": "1", "input": "status"}, &reply); code != http.StatusOK {
		t.Fatalf("console code %d", code)
	}
	if !strings.Contains(reply.Result.Output, "21+ Records") || len(reply.History) != 3 {
		t.Fatalf("unexpected console reply %+v", reply)
	}

	var ps player.State
	if code := do(t, srv, http.MethodPost, base+"/player/toggle", map[string]string{"player": "audio"}, &ps); code != http.StatusOK || !ps.IsPlaying {
		t.Fatalf("toggle: code=%d %+v", code, ps)
	}
	if code := do(t, srv, http.MethodPost, base+"/player/event", map[string]string{"player": "audio", "event": "ended"}, &ps); code != http.StatusOK || ps.CurrentTrackIndex != 1 || !ps.IsPlaying {
		t.Fatalf("reported end: code=%d %+v", code, ps)
	}

	if code := do(t, srv, http.MethodPost, base+"/taskbar/1", nil, &st); code != http.StatusOK || !st.Windows[0].IsMinimized {
		t.Fatalf("taskbar click should minimize: code=%d", code)
	}

	if code := do(t, srv, http.MethodPost, base+"/viewport", map[string]int{"width": 1024, "height": 768}, &st); code != http.StatusOK || st.Viewport.Width != 1024 {
		t.Fatalf("viewport: code=%d %+v", code, st.Viewport)
	}

	if code := do(t, srv, http.MethodPost, base+"/arrange", map[string]string{"mode": "horizontal"}, &st); code != http.StatusOK {
		t.Fatalf("arrange code %d", code)
	}
	for _, win := range st.Windows {
		if win.IsMaximized {
			t.Fatalf("arranged window %s still maximized", win.ID)
		}
	}

	if code := do(t, srv, http.MethodDelete, base, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete code %d", code)
	}
	var e errorBody
	if code := do(t, srv, http.MethodGet, base+"/state", nil, &e); code != http.StatusNotFound {
		t.Fatalf("deleted session code %d", code)
	}
}

func TestDesktopErrors(t *testing.T) {
	srv, _ := newTestAPI(t)
	base := "/api/desktop/sessions/" + daemon.DefaultSession

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown session", http.MethodGet, "/api/desktop/sessions/nope/state", nil, http.StatusNotFound},
		{"unknown app", http.MethodPost, base + "/windows", map[string]string{"app": "solitaire"}, http.StatusBadRequest},
		{"missing window", http.MethodPost, base + "/windows/42/close", nil, http.StatusNotFound},
		{"unknown pointer target", http.MethodPost, base + "/pointer", map[string]any{"kind": "down", "target": "frame", "x": 1, "y": 1}, http.StatusBadRequest},
		{"unknown player", http.MethodPost, base + "/player/toggle", map[string]string{"player": "radio"}, http.StatusBadRequest},
		{"unknown media event", http.MethodPost, base + "/player/event", map[string]string{"player": "video", "event": "stalled"}, http.StatusBadRequest},
		{"read-only audio playlist", http.MethodPost, base + "/player/add", map[string]any{"player": "audio", "tracks": []map[string]string{{"id": "x", "title": "X"}}}, http.StatusBadRequest},
		{"bad viewport", http.MethodPost, base + "/viewport", map[string]int{"width": 0, "height": 10}, http.StatusBadRequest},
		{"malformed json", http.MethodPost, base + "/console", "{", http.StatusBadRequest},
		{"unknown layout", http.MethodPost, base + "/arrange", map[string]string{"mode": "spiral"}, http.StatusBadRequest},
		{"default session is permanent", http.MethodDelete, base, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e errorBody
			if code := do(t, srv, tt.method, tt.path, tt.body, &e); code != tt.want {
				t.Fatalf("got %d (%q), want %d", code, e.Error, tt.want)
			}
			if e.Error == "" {
				t.Fatalf("expected error body")
			}
		})
	}
}

func TestStartMenuSelectRecordsLinkClicks(t *testing.T) {
	srv, d := newTestAPI(t)
	base := "/api/desktop/sessions/" + daemon.DefaultSession

	var menu []shell.MenuItem
	if code := do(t, srv, http.MethodGet, "/api/desktop/menu", nil, &menu); code != http.StatusOK || len(menu) == 0 {
		t.Fatalf("menu: code=%d", code)
	}
	link := findLink(menu)
	if link == "" {
		t.Fatal("expected a link item in the start menu")
	}

	var open menuResponse
	if do(t, srv, http.MethodPost, base+"/menu", nil, &open); !open.Open {
		t.Fatal("expected menu to open")
	}
	var sel shell.MenuSelection
	if code := do(t, srv, http.MethodPost, base+"/menu/select", map[string]string{"action": link}, &sel); code != http.StatusOK || sel.URL == "" {
		t.Fatalf("select: code=%d %+v", code, sel)
	}
	if d.Clicks().Count(sel.URL) != 1 {
		t.Fatalf("expected the link open to be counted")
	}
	if d.Sessions().Default().State().StartMenuOpen {
		t.Fatal("selecting an item should close the menu")
	}
}

func findLink(items []shell.MenuItem) string {
	for _, it := range items {
		if strings.HasPrefix(it.Action, "link:") {
			return it.Action
		}
		if a := findLink(it.Submenu); a != "" {
			return a
		}
	}
	return ""
}

func TestMiddleware(t *testing.T) {
	srv, _ := newTestAPI(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/status", nil)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight response %d %v", resp.StatusCode, resp.Header)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected a generated request id")
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), Recovery(log))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "internal error") {
		t.Fatalf("expected recovered 500, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	_, d := newTestAPI(t)
	s := New(d, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("ListenAndServe: %v", err)
	}
}
