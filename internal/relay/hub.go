package relay

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/insighthire/insighthire-backend/internal/monitoring"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub fans bus events out to connected dashboard websocket clients.
type Hub struct {
	bus      *Bus
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	upgrader websocket.Upgrader
}

// NewHub creates a websocket hub bound to a bus.
func NewHub(bus *Bus, metrics *monitoring.Metrics, logger *monitoring.Logger) *Hub {
	return &Hub{
		bus:     bus,
		metrics: metrics,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the CORS middleware on
			// the HTTP layer; the dashboard connects from a separate origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler upgrades the request and streams bus events to the client until
// either side disconnects.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.APIErrorLogger(err, c.Request.Method, c.Request.URL.Path, c.ClientIP(), http.StatusBadRequest)
			return
		}

		events, cancel := h.bus.Subscribe()

		go h.writePump(conn, events, cancel)
		go h.readPump(conn, cancel)
	}
}

// writePump forwards events and keeps the connection alive with pings.
func (h *Hub) writePump(conn *websocket.Conn, events <-chan Event, cancel func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			h.metrics.IncrementRelayEvents()
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs are processed and detects closure.
func (h *Hub) readPump(conn *websocket.Conn, cancel func()) {
	defer func() {
		cancel()
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
