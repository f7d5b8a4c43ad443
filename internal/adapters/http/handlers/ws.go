package handlers

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hallworld/hallgate/internal/adapters/http/middleware"
	"github.com/hallworld/hallgate/internal/adapters/metrics"
	"github.com/hallworld/hallgate/internal/ports"
)

const subscriberWriteTimeout = 10 * time.Second

// subscriber is one WebSocket connection held by one identity. The
// write mutex serializes frames; gorilla/websocket allows only a
// single concurrent writer per connection.
type subscriber struct {
	identity string
	conn     *websocket.Conn
	writeMu  sync.Mutex
}

// CallHub fans call events out to WebSocket subscribers. An identity
// may hold several connections at once and each receives every event
// addressed to it.
type CallHub struct {
	mu   sync.RWMutex
	subs map[string]map[*websocket.Conn]*subscriber
}

func NewCallHub() *CallHub {
	return &CallHub{
		subs: make(map[string]map[*websocket.Conn]*subscriber),
	}
}

func (h *CallHub) Subscribe(identity string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.subs[identity]
	if !ok {
		conns = make(map[*websocket.Conn]*subscriber)
		h.subs[identity] = conns
	}
	conns[conn] = &subscriber{identity: identity, conn: conn}
	metrics.CallSubscribersActive.Inc()
}

// Unsubscribe is safe to call twice for the same connection; the gauge
// only moves when the connection was still registered.
func (h *CallHub) Unsubscribe(identity string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.subs[identity]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}

	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.subs, identity)
	}
	metrics.CallSubscribersActive.Dec()
}

// NotifyUser delivers the event to every connection the identity holds.
// Unknown identities are a no-op.
func (h *CallHub) NotifyUser(identity string, event *ports.CallEvent) {
	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subs[identity]))
	for _, s := range h.subs[identity] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		h.send(s, event)
	}
}

// NotifyAll delivers the event to every subscriber. Events carry the
// room name, so clients filter for the rooms they care about.
func (h *CallHub) NotifyAll(event *ports.CallEvent) {
	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subs))
	for _, conns := range h.subs {
		for _, s := range conns {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range targets {
		h.send(s, event)
	}
}

// send writes one event. A connection that cannot be written within the
// deadline is dropped from the hub and closed.
func (h *CallHub) send(s *subscriber, event *ports.CallEvent) {
	s.writeMu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(subscriberWriteTimeout))
	err := s.conn.WriteJSON(event)
	s.writeMu.Unlock()

	if err != nil {
		log.Printf("dropping call subscriber %s: %v", s.identity, err)
		h.Unsubscribe(s.identity, s.conn)
		s.conn.Close()
	}
}

func (h *CallHub) subscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.subs {
		n += len(conns)
	}
	return n
}

// WSHandler upgrades /ws/calls requests and registers them with the
// hub.
type WSHandler struct {
	hub      *CallHub
	upgrader websocket.Upgrader
}

// NewWSHandler builds the subscribe endpoint. Origins are checked with
// the same rules the CORS middleware applies to plain HTTP requests.
func NewWSHandler(hub *CallHub, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// Subscribe handles GET /ws/calls?user=<identity>. The connection stays
// open until the client closes it or a write fails.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		respondError(w, "user query parameter is required", http.StatusBadRequest)
		return
	}
	if !middleware.ValidUserID(user) {
		respondError(w, "invalid user identifier", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		log.Printf("websocket upgrade failed for %s: %v", user, err)
		return
	}

	h.hub.Subscribe(user, conn)
	defer func() {
		h.hub.Unsubscribe(user, conn)
		conn.Close()
	}()

	// Subscribers are not expected to send; drain the connection so
	// the close handshake is observed.
	conn.SetReadLimit(1024)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
