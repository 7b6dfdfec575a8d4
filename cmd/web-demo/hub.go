package main

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/warchess/warchess-go/internal/game"
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/rules"
	"github.com/warchess/warchess-go/internal/game/watchers"
)

// WSMessage is the envelope for both directions of the socket.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// cellRequest carries the coordinates of click and revive requests.
type cellRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// EventNotice is the wire form of one engine event.
type EventNotice struct {
	Seq  uint64          `json:"seq"`
	Type rules.EventType `json:"type"`
}

// StateMessage is pushed to every client after each handled request.
type StateMessage struct {
	State   game.View     `json:"state"`
	Events  []EventNotice `json:"events"`
	Tallies tallies       `json:"tallies"`
	Turns   int           `json:"turns"`
	Ok      bool          `json:"ok"`
}

type tallies struct {
	White watchers.Tally `json:"white"`
	Black watchers.Tally `json:"black"`
}

// Client is one browser connection.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub owns the single shared game and fans state out to every client. The
// engine is single-threaded, so every engine call happens under mu.
type Hub struct {
	logger *zap.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	game    *game.GameState
	combat  *watchers.CombatWatcher
	turns   *watchers.TurnWatcher
	pending []EventNotice
}

func newHub(logger *zap.Logger, g *game.GameState, combat *watchers.CombatWatcher, turns *watchers.TurnWatcher) *Hub {
	h := &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		game:       g,
		combat:     combat,
		turns:      turns,
	}
	g.Events().Subscribe(func(e rules.Event) {
		h.pending = append(h.pending, EventNotice{Seq: e.Seq, Type: e.Type})
	})
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("client registered", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("client unregistered", zap.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// handle applies one request to the engine and returns the resulting state
// message. Unknown request types are answered with ok=false.
func (h *Hub) handle(msg WSMessage) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	ok := false
	switch msg.Type {
	case "state":
		ok = true
	case "click":
		if req, valid := h.decodeCell(msg); valid {
			ok = h.game.Click(req.X, req.Y)
		}
	case "revive":
		if req, valid := h.decodeCell(msg); valid {
			_, ok = h.game.ActivateQueenRevive(req.X, req.Y)
		}
	case "cancel":
		ok = h.game.CancelRevive()
	case "restart":
		if err := h.game.Initialize(); err != nil {
			h.logger.Error("restart failed", zap.Error(err))
		} else {
			ok = true
		}
	default:
		h.logger.Warn("unknown message type", zap.String("type", msg.Type))
	}

	return h.snapshotLocked(ok)
}

func (h *Hub) decodeCell(msg WSMessage) (cellRequest, bool) {
	var req cellRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		h.logger.Warn("malformed cell request", zap.String("type", msg.Type), zap.Error(err))
		return req, false
	}
	return req, true
}

func (h *Hub) snapshotLocked(ok bool) []byte {
	events := h.pending
	h.pending = nil
	if events == nil {
		events = []EventNotice{}
	}
	state := StateMessage{
		State:  h.game.View(),
		Events: events,
		Tallies: tallies{
			White: h.combat.Tally(pieces.White),
			Black: h.combat.Tally(pieces.Black),
		},
		Turns: h.turns.Turns(),
		Ok:    ok,
	}
	data, err := json.Marshal(state)
	if err != nil {
		h.logger.Error("failed to encode state", zap.Error(err))
		return nil
	}
	out, err := json.Marshal(WSMessage{Type: "game_state", Data: data})
	if err != nil {
		h.logger.Error("failed to encode envelope", zap.Error(err))
		return nil
	}
	return out
}

func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			hub.logger.Warn("error unmarshaling message", zap.Error(err))
			continue
		}

		if out := hub.handle(msg); out != nil {
			hub.broadcast <- out
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
