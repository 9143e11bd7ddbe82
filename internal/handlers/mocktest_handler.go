package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/mocktest"
	"github.com/SAP-F-2025/mocktest-service/internal/utils"
	"github.com/SAP-F-2025/mocktest-service/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	maxFrameSize = 8 << 10
	writeTimeout = 10 * time.Second
)

// MockTestHandler serves the real-time mock test over WebSocket
type MockTestHandler struct {
	BaseHandler
	coordinator *mocktest.Coordinator
	hub         *ws.Hub
	upgrader    websocket.Upgrader
}

func NewMockTestHandler(coordinator *mocktest.Coordinator, hub *ws.Hub, allowedOrigins []string, logger utils.Logger) *MockTestHandler {
	return &MockTestHandler{
		BaseHandler: NewBaseHandler(logger),
		coordinator: coordinator,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// HandleWebSocket runs one mock test connection until the client goes away
// @Summary Mock test WebSocket
// @Description Upgrade to WebSocket; exchange start_test/answer and question/result/error_message frames
// @Tags mock-test
// @Router /ws/mock-test [get]
func (h *MockTestHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.LogWarn(c, "WebSocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	client := ws.NewClient(id, conn)
	session := h.coordinator.NewConn(id, &wsEmitter{conn: conn})
	h.hub.Add(client)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer func() {
		cancel()
		session.Close()
		h.hub.Remove(id)
		conn.Close()
	}()

	conn.SetReadLimit(maxFrameSize)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				h.logger.Debug("WebSocket read error", "conn_id", id, "error", err)
			}
			return
		}

		if err := session.HandleFrame(ctx, frame); err != nil {
			h.logger.Debug("WebSocket write error", "conn_id", id, "error", err)
			return
		}
		client.Track(session.State(), session.Answered())
	}
}

// ActiveConnections lists open mock test connections
// @Summary Active mock tests
// @Tags mock-test
// @Produce json
// @Router /admin/mock-tests/active [get]
func (h *MockTestHandler) ActiveConnections(c *gin.Context) {
	connections := h.hub.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"count":       len(connections),
		"connections": connections,
	})
}

// wsEmitter writes envelopes to a connection; only the connection's reader goroutine uses it
type wsEmitter struct {
	conn *websocket.Conn
}

func (e *wsEmitter) Emit(event string, payload interface{}) error {
	if err := e.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return e.conn.WriteJSON(mocktest.OutboundMessage{Type: event, Data: payload})
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allowAll := len(allowed) == 0
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		set[origin] = true
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
