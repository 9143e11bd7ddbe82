package ws

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/mocktest"
	"github.com/SAP-F-2025/mocktest-service/internal/utils"
	"github.com/gorilla/websocket"
)

// Client is one registered mock test connection
type Client struct {
	ID          string
	RemoteAddr  string
	ConnectedAt time.Time

	conn     *websocket.Conn
	state    atomic.Int32
	answered atomic.Int32
}

func NewClient(id string, conn *websocket.Conn) *Client {
	c := &Client{
		ID:          id,
		ConnectedAt: time.Now(),
		conn:        conn,
	}
	if conn != nil {
		c.RemoteAddr = conn.RemoteAddr().String()
	}
	return c
}

// Track publishes session progress for readers outside the connection goroutine
func (c *Client) Track(state mocktest.State, answered int) {
	c.state.Store(int32(state))
	c.answered.Store(int32(answered))
}

// ClientInfo is a point-in-time view of a connection
type ClientInfo struct {
	ID          string    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	ConnectedAt time.Time `json:"connected_at"`
	State       string    `json:"state"`
	Answered    int       `json:"answered"`
}

func (c *Client) Info() ClientInfo {
	return ClientInfo{
		ID:          c.ID,
		RemoteAddr:  c.RemoteAddr,
		ConnectedAt: c.ConnectedAt,
		State:       mocktest.State(c.state.Load()).String(),
		Answered:    int(c.answered.Load()),
	}
}

// Hub is the registry of live mock test connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  utils.Logger
}

func NewHub(logger utils.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Info("Client connected", "conn_id", client.ID, "total", len(h.clients))
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		h.logger.Info("Client disconnected", "conn_id", id, "total", len(h.clients))
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Snapshot lists live connections, oldest first
func (h *Hub) Snapshot() []ClientInfo {
	h.mu.RLock()
	infos := make([]ClientInfo, 0, len(h.clients))
	for _, client := range h.clients {
		infos = append(infos, client.Info())
	}
	h.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].ConnectedAt.Equal(infos[j].ConnectedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].ConnectedAt.Before(infos[j].ConnectedAt)
	})
	return infos
}

// CloseAll sends a close frame to every connection; their read loops then unregister them
func (h *Hub) CloseAll(reason string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, reason)
	deadline := time.Now().Add(time.Second)
	for id, client := range h.clients {
		if client.conn == nil {
			continue
		}
		if err := client.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
			h.logger.Debug("Failed to send close frame", "conn_id", id, "error", err)
		}
		client.conn.Close()
	}
}
