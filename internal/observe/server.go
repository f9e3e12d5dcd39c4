package observe

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes a driven battle to spectators.
type Server struct {
	ctx    context.Context // parent of every battle loop
	driver *game.Driver
	hub    *Hub
}

// NewServer wires a hub and a driver around b. b must not be stepped by
// anything else. Battles begun over HTTP run until ctx is done.
func NewServer(ctx context.Context, b *game.Battle) *Server {
	hub := NewHub()
	b.AddObserver(hub)
	s := &Server{ctx: ctx, driver: game.NewDriver(b), hub: hub}
	hub.OnTick(s.driver.Snapshot())
	return s
}

// Driver returns the battle driver.
func (s *Server) Driver() *game.Driver { return s.driver }

// Hub returns the spectator hub.
func (s *Server) Hub() *Hub { return s.hub }

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/battle/begin", s.handleBegin).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.driver.Snapshot())
}

func (s *Server) handleBegin(w http.ResponseWriter, _ *http.Request) {
	if err := s.driver.Begin(s.ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, s.driver.Snapshot())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("observe: upgrade:", err)
		return
	}
	s.hub.HandleWS(conn)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("observe: write response: %v", err)
	}
}
