// Package ws implements the push-notification channel. Clients connect
// over WebSocket with an access token; each connection is bound to its
// user's room and receives events targeted at that user plus broadcasts.
package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/launchpool/launchpool-api/internal/httputil"
	"github.com/launchpool/launchpool-api/pkg/auth"
)

const writeTimeout = 10 * time.Second

// event is the wire envelope pushed to clients.
type event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// client is one connected socket. Writes are serialized per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(e event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(e)
}

// Hub tracks connections grouped by user and implements notify.Notifier.
type Hub struct {
	logger   *slog.Logger
	codec    *auth.TokenCodec
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*client]struct{}
}

// NewHub creates a hub. The token codec authenticates handshakes.
func NewHub(logger *slog.Logger, codec *auth.TokenCodec) *Hub {
	return &Hub{
		logger: logger,
		codec:  codec,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		rooms: make(map[uuid.UUID]map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection. The access token is verified once, at
// connect time, from the Authorization header or the token query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}
	}
	if token == "" {
		httputil.Error(w, http.StatusUnauthorized, "missing token")
		return
	}

	claims, err := h.codec.VerifyAccess(token)
	if err != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	userID, err := auth.UserIDFromClaims(claims)
	if err != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	h.join(userID, c)
	h.logger.Info("websocket client connected", "user_id", userID)

	go h.readLoop(userID, c)
}

// readLoop drains inbound frames until the peer disconnects. The channel
// is push-only; inbound payloads are discarded.
func (h *Hub) readLoop(userID uuid.UUID, c *client) {
	defer func() {
		h.leave(userID, c)
		c.conn.Close()
		h.logger.Info("websocket client disconnected", "user_id", userID)
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) join(userID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[userID]
	if room == nil {
		room = make(map[*client]struct{})
		h.rooms[userID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(userID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room := h.rooms[userID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// Notify delivers an event to every connection in the user's room.
func (h *Hub) Notify(userID uuid.UUID, name string, payload any) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[userID]))
	for c := range h.rooms[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	e := event{Event: name, Data: payload}
	for _, c := range clients {
		if err := c.send(e); err != nil {
			h.logger.Warn("websocket send failed", "user_id", userID, "event", name, "error", err)
		}
	}
}

// Broadcast delivers an event to every connected client.
func (h *Hub) Broadcast(name string, payload any) {
	h.mu.RLock()
	var clients []*client
	for _, room := range h.rooms {
		for c := range room {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	e := event{Event: name, Data: payload}
	for _, c := range clients {
		if err := c.send(e); err != nil {
			h.logger.Warn("websocket broadcast failed", "event", name, "error", err)
		}
	}
}
