package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 8 // frames queued per client before the oldest is dropped
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // local dashboard
	},
}

// StreamMessage is one frame pushed to WebSocket clients
type StreamMessage struct {
	Type    string             `json:"type"`
	Payload dashboard.Snapshot `json:"payload"`
}

// StreamHandler pushes a snapshot to every connected client after each store transition.
// With a throttle, bursts collapse into the latest snapshot; the final state is always sent.
// Store listeners only queue frames; each client has its own writer goroutine.
type StreamHandler struct {
	store  *dashboard.Store
	logger *logger.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*streamClient

	throttle  *rate.Limiter
	interval  time.Duration
	pendingMu sync.Mutex
	pending   *dashboard.Snapshot
	scheduled bool

	unsubscribe func()
}

// streamClient is one connection with its outbound queue.
// Versions pushed to a client only increase.
type streamClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu      sync.Mutex
	sent    bool
	version uint64
}

func newStreamClient(conn *websocket.Conn) *streamClient {
	return &streamClient{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// push queues a frame unless the client already has the same or a newer snapshot.
// When the queue is full the oldest frame is dropped; push never blocks.
func (c *streamClient) push(version uint64, data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sent && version <= c.version {
		return false
	}
	c.sent = true
	c.version = version

	for {
		select {
		case c.send <- data:
			return true
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

// NewStreamHandler subscribes to the store. A zero throttle pushes every transition.
func NewStreamHandler(store *dashboard.Store, throttle time.Duration, log *logger.Logger) *StreamHandler {
	h := &StreamHandler{
		store:    store,
		logger:   log,
		clients:  make(map[*websocket.Conn]*streamClient),
		interval: throttle,
	}
	if throttle > 0 {
		h.throttle = rate.NewLimiter(rate.Every(throttle), 1)
		log.WithField("interval", throttle.String()).Debug("Snapshot stream throttled")
	}
	h.unsubscribe = store.Subscribe(h.onSnapshot)
	return h
}

// Close stops listening to the store and disconnects every client
func (h *StreamHandler) Close() {
	h.unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// Clients returns the number of connected clients
func (h *StreamHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the connection and sends the current snapshot
// GET /ws
func (h *StreamHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	// Register before reading the snapshot so no transition falls in between
	client := newStreamClient(conn)
	h.mu.Lock()
	h.clients[conn] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("clients", total).Debug("WebSocket client connected")

	go h.writePump(client)

	snap := h.store.Snapshot()
	if data, err := encodeSnapshot(snap); err == nil {
		client.push(snap.Version, data)
	}

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		remaining := len(h.clients)
		h.mu.Unlock()

		close(client.done)
		conn.Close()
		h.logger.WithField("clients", remaining).Debug("WebSocket client disconnected")
	}()

	// Read until the client goes away; inbound frames are ignored
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Warn("WebSocket error")
			}
			return
		}
	}
}

// writePump is the only writer of a connection
func (h *StreamHandler) writePump(c *streamClient) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.WithError(err).Warn("Failed to push snapshot to client")
				c.conn.Close()
				return
			}
		}
	}
}

func (h *StreamHandler) onSnapshot(snap dashboard.Snapshot) {
	if h.throttle == nil || h.throttle.Allow() {
		h.broadcast(snap)
		return
	}

	h.pendingMu.Lock()
	if h.pending == nil || snap.Version > h.pending.Version {
		h.pending = &snap
	}
	if !h.scheduled {
		h.scheduled = true
		time.AfterFunc(h.interval, h.flush)
	}
	h.pendingMu.Unlock()
}

func (h *StreamHandler) flush() {
	h.pendingMu.Lock()
	snap := h.pending
	h.pending = nil
	h.scheduled = false
	h.pendingMu.Unlock()

	if snap != nil {
		h.broadcast(*snap)
	}
}

func (h *StreamHandler) broadcast(snap dashboard.Snapshot) {
	// A parked snapshot that is not newer is superseded
	h.pendingMu.Lock()
	if h.pending != nil && h.pending.Version <= snap.Version {
		h.pending = nil
	}
	h.pendingMu.Unlock()

	data, err := encodeSnapshot(snap)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal snapshot")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.push(snap.Version, data)
	}
}

func encodeSnapshot(snap dashboard.Snapshot) ([]byte, error) {
	return json.Marshal(StreamMessage{Type: "snapshot", Payload: snap})
}
