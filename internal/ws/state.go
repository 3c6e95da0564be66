package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/flywave/go3d/float64/quaternion"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-modelviewer/internal/catalog"
	diag "github.com/coreman2200/funtimes-modelviewer/internal/diagnostics"
	"github.com/coreman2200/funtimes-modelviewer/internal/live"
)

// State tracks connected viewer pages and serves the JSON endpoints.
type State struct {
	mu        sync.Mutex
	ModelsDir string

	clients     map[*websocket.Conn]bool
	startTime   time.Time
	sent        uint64
	orientation *live.Message
}

func NewState(modelsDir string) *State {
	return &State{
		ModelsDir: modelsDir,
		clients:   map[*websocket.Conn]bool{},
		startTime: time.Now(),
	}
}

// Routes registers the hub endpoints on mux.
func (s *State) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleViewerWS)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("GET /api/models", s.HandleModels)
	mux.HandleFunc("GET /api/models/{name}", s.HandleModel)
}

// HandleViewerWS registers a viewer page. New pages get the last known
// orientation straight away.
func (s *State) HandleViewerWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	if s.orientation != nil {
		s.write(conn, *s.orientation)
	}
	s.mu.Unlock()
	log.Debug().Str("remote", r.RemoteAddr).Msg("viewer connected")

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
			log.Debug().Str("remote", r.RemoteAddr).Msg("viewer disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"uptime_s":   time.Since(s.startTime).Seconds(),
		"clients":    len(s.clients),
		"sent":       s.sent,
		"models_dir": s.ModelsDir,
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// HandleModels lists the catalog. ?inspect=0 skips parsing the files.
func (s *State) HandleModels(w http.ResponseWriter, r *http.Request) {
	entries, err := catalog.Scan(s.ModelsDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if r.URL.Query().Get("inspect") != "0" {
		for i := range entries {
			entries[i].Inspect()
		}
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleModel reports one model, parsed. Expects a {name} path value.
func (s *State) HandleModel(w http.ResponseWriter, r *http.Request) {
	e, err := catalog.Find(s.ModelsDir, r.PathValue("name"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	e.Inspect()
	writeJSON(w, http.StatusOK, e)
}

// Reload tells pages showing model to reload.
func (s *State) Reload(model string) { s.Broadcast(live.Reload(model)) }

// Orientation remembers q and pushes it to every page.
func (s *State) Orientation(q quaternion.T) {
	m := live.Orientation(q)
	s.mu.Lock()
	s.orientation = &m
	s.mu.Unlock()
	s.Broadcast(m)
}

func (s *State) Diag(d diag.Diagnostic) { s.Broadcast(live.Diag(d)) }

// Broadcast writes msg to every page, dropping pages that fail.
func (s *State) Broadcast(msg live.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		s.write(c, msg)
	}
}

func (s *State) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// write sends to one page; s.mu must be held.
func (s *State) write(c *websocket.Conn, msg live.Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("marshal message")
		return
	}
	c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Debug().Err(err).Msg("write message")
		c.Close()
		delete(s.clients, c)
		return
	}
	s.sent++
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
