package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/dynastydroid/go/internal/chat"
	"github.com/mcdev12/dynastydroid/go/internal/models"
	"github.com/mcdev12/dynastydroid/go/internal/relay"
	"github.com/rs/zerolog/log"
)

// Hub fans displayed chat messages out to browser WebSocket connections,
// grouped by room. It is a chat.Sink and can also be fed from the relay.
type Hub struct {
	// Connection pools organized by room ID
	rooms map[string]map[*Connection]bool
	mu    sync.RWMutex

	upgrader websocket.Upgrader
	config   HubConfig

	broadcastCh chan broadcast
	attachCh    chan attachment
}

// Connection is one browser attached to a room
type Connection struct {
	ID     string
	RoomID string
	Conn   *websocket.Conn
	Send   chan []byte
	hub    *Hub

	ConnectedAt time.Time

	// ids already written, touched only by the Run goroutine
	seen    map[string]struct{}
	onClose func()
}

// Attach customizes a new browser connection.
type Attach struct {
	// Backlog is read on the Run goroutine when the connection joins its
	// room; its messages are written before any live frame.
	Backlog func() []models.ChatMessage
	// OnClose runs once after the connection leaves its room or fails to
	// join it.
	OnClose func()
}

type attachment struct {
	conn    *Connection
	backlog func() []models.ChatMessage
}

// HubConfig holds configuration for browser WebSocket connections
type HubConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	CheckOrigin     func(r *http.Request) bool
}

// Frame is what browsers receive, shaped like a room stream frame.
type Frame struct {
	Type   models.StreamEnvelopeType `json:"type"`
	RoomID string                    `json:"room_id"`
	Origin chat.Origin               `json:"origin"`
	Data   models.ChatMessage        `json:"data"`
}

type broadcast struct {
	roomID string
	frame  Frame
}

// HubStats is a snapshot of attached browsers
type HubStats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveRooms      int            `json:"active_rooms"`
	Rooms            map[string]int `json:"room_connections"`
}

func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      256,
		CheckOrigin: func(r *http.Request) bool {
			// local dashboard, any origin
			return true
		},
	}
}

func NewHub(config HubConfig) *Hub {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 256
	}
	return &Hub{
		rooms: make(map[string]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcast, 1000),
		attachCh:    make(chan attachment),
	}
}

// Run processes broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Msg("chat hub started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("chat hub shutting down")
			h.closeAll()
			return
		case a := <-h.attachCh:
			h.attach(a)
		case message := <-h.broadcastCh:
			h.handleBroadcast(message)
		}
	}
}

// Deliver implements chat.Sink. It never blocks; a full broadcast queue
// drops the message.
func (h *Hub) Deliver(roomID string, msg models.ChatMessage, origin chat.Origin) {
	b := broadcast{
		roomID: roomID,
		frame: Frame{
			Type:   models.EnvelopeTypeChatMessage,
			RoomID: roomID,
			Origin: origin,
			Data:   msg,
		},
	}
	select {
	case h.broadcastCh <- b:
	default:
		log.Warn().Str("room_id", roomID).Str("message_id", msg.ID).Msg("broadcast channel full, dropping message")
	}
}

// HandleRelay forwards a relayed envelope; pass it to relay.Subscribe.
func (h *Hub) HandleRelay(env relay.Envelope) {
	h.Deliver(env.RoomID, env.Message, env.Origin)
}

// Upgrade attaches the request's connection to roomID. The hub must be
// running.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request, roomID string, opts Attach) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if opts.OnClose != nil {
			opts.OnClose()
		}
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		Conn:        conn,
		Send:        make(chan []byte, h.config.SendBuffer),
		hub:         h,
		ConnectedAt: time.Now(),
		seen:        make(map[string]struct{}),
		onClose:     opts.OnClose,
	}

	select {
	case h.attachCh <- attachment{conn: c, backlog: opts.Backlog}:
	case <-time.After(h.config.WriteTimeout):
		conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
		return fmt.Errorf("chat hub is not running")
	}

	go c.writePump()
	go c.readPump()

	log.Info().
		Str("connection_id", c.ID).
		Str("room_id", roomID).
		Msg("browser chat connection established")

	return nil
}

// attach queues the backlog and joins the room in one step of the Run
// loop, so a live message is either in the backlog or broadcast after it.
func (h *Hub) attach(a attachment) {
	c := a.conn
	if a.backlog != nil {
		for _, msg := range a.backlog() {
			data, ok := h.encode(c, Frame{
				Type:   models.EnvelopeTypeChatMessage,
				RoomID: c.RoomID,
				Origin: chat.OriginHistory,
				Data:   msg,
			})
			if !ok {
				continue
			}
			select {
			case c.Send <- data:
			default:
				log.Warn().Str("connection_id", c.ID).Msg("history exceeds send buffer, truncating")
			}
		}
	}
	h.register(c)
}

// encode marshals frame for c, or reports false when c already has it.
func (h *Hub) encode(c *Connection, frame Frame) ([]byte, bool) {
	if id := frame.Data.ID; id != "" {
		if _, dup := c.seen[id]; dup {
			return nil, false
		}
		c.seen[id] = struct{}{}
	}
	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal chat frame")
		return nil, false
	}
	return data, true
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[c.RoomID] == nil {
		h.rooms[c.RoomID] = make(map[*Connection]bool)
	}
	h.rooms[c.RoomID][c] = true

	log.Debug().
		Str("connection_id", c.ID).
		Str("room_id", c.RoomID).
		Int("room_connections", len(h.rooms[c.RoomID])).
		Msg("connection registered")
}

// unregister is safe to call more than once per connection.
func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	conns, ok := h.rooms[c.RoomID]
	if !ok || !conns[c] {
		h.mu.Unlock()
		return
	}
	delete(conns, c)
	close(c.Send)
	if len(conns) == 0 {
		delete(h.rooms, c.RoomID)
	}
	h.mu.Unlock()

	log.Info().
		Str("connection_id", c.ID).
		Str("room_id", c.RoomID).
		Msg("connection unregistered")

	if c.onClose != nil {
		c.onClose()
	}
}

func (h *Hub) handleBroadcast(b broadcast) {
	h.mu.RLock()
	conns, ok := h.rooms[b.roomID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	targets := make([]*Connection, 0, len(conns))
	for c := range conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		data, ok := h.encode(c, b.frame)
		if !ok {
			continue
		}
		if !h.trySend(c, data) {
			log.Warn().Str("connection_id", c.ID).Msg("connection send buffer full, closing connection")
			h.unregister(c)
			c.Conn.Close()
		}
	}

	log.Debug().
		Str("room_id", b.roomID).
		Str("message_id", b.frame.Data.ID).
		Int("connections", len(targets)).
		Msg("chat message broadcasted")
}

// trySend queues data unless the buffer is full. The read lock keeps
// unregister from closing Send underneath it.
func (h *Hub) trySend(c *Connection, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.rooms[c.RoomID][c] {
		return true
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	var all []*Connection
	for _, conns := range h.rooms {
		for c := range conns {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.unregister(c)
	}
}

func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := HubStats{Rooms: make(map[string]int, len(h.rooms))}
	for roomID, conns := range h.rooms {
		stats.TotalConnections += len(conns)
		stats.Rooms[roomID] = len(conns)
	}
	stats.ActiveRooms = len(h.rooms)
	return stats
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump only keeps the connection alive; browsers send chat through
// the REST API.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected WebSocket close error")
			}
			return
		}

		log.Debug().
			Str("connection_id", c.ID).
			Str("room_id", c.RoomID).
			Int("bytes", len(message)).
			Msg("ignoring browser message")
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}
