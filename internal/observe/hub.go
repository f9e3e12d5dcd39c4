// Package observe streams battle snapshots to spectators over HTTP and
// websockets.
package observe

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Grid-Skirmish/internal/game"
)

// Message types sent to spectators.
const (
	MsgSnapshot   = "snapshot"
	MsgBattleOver = "battle_over"
)

// Envelope wraps every websocket message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// BattleOver is the payload of a battle_over message.
type BattleOver struct {
	Winner game.Team `json:"winner"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans battle output out to connected websocket clients. It implements
// game.Observer; callbacks never block on slow clients.
// Only the hub sends on a client's queue, and always under mu.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte // latest snapshot message, replayed to new clients
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// OnTick implements game.Observer.
func (h *Hub) OnTick(s game.Snapshot) {
	msg, err := encode(MsgSnapshot, s)
	if err != nil {
		log.Printf("observe: encode snapshot: %v", err)
		return
	}
	h.mu.Lock()
	h.last = msg
	h.broadcastLocked(msg)
	h.mu.Unlock()
}

// OnBattleOver implements game.Observer.
func (h *Hub) OnBattleOver(winner game.Team) {
	msg, err := encode(MsgBattleOver, BattleOver{Winner: winner})
	if err != nil {
		log.Printf("observe: encode battle_over: %v", err)
		return
	}
	h.mu.Lock()
	h.broadcastLocked(msg)
	h.mu.Unlock()
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcastLocked(msg []byte) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow spectator: drop its oldest queued message so the newest,
			// including a final battle_over, always gets through.
			select {
			case <-c.send:
			default:
			}
			c.send <- msg
		}
	}
}

// HandleWS serves one spectator until it disconnects.
func (h *Hub) HandleWS(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	go c.writer()
	c.reader(h)
}

// reader drains and discards client frames; it exists to notice disconnects.
func (c *client) reader(h *Hub) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		close(c.send)
		h.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func encode(typ string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Data: data})
}
