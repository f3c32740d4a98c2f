package eventsmodule

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/streamvault/streamvault/internal/events"
	"github.com/streamvault/streamvault/internal/logger"
)

// streamBuffer is how many events a slow websocket client may lag before
// the stream drops them.
const streamBuffer = 32

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Demo console: same-origin policy is not enforced.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler exposes the notification feed over HTTP
type Handler struct {
	bus events.EventBus
}

// NewHandler creates an events API handler
func NewHandler(bus events.EventBus) *Handler {
	return &Handler{bus: bus}
}

// RegisterRoutes attaches the event feed routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/admin/events", h.RecentEvents)
	router.GET("/api/admin/events/ws", h.StreamEvents)
}

// RecentEvents handles GET /api/admin/events. The optional limit query
// caps how many of the retained events come back, most recent first.
func (h *Handler) RecentEvents(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, h.bus.Recent(limit))
}

// StreamEvents handles GET /api/admin/events/ws, pushing every published
// event to the client as a JSON message.
func (h *Handler) StreamEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	feed := make(chan events.Event, streamBuffer)
	sub := h.bus.Subscribe("eventsmodule.ws."+c.ClientIP(), func(event events.Event) {
		select {
		case feed <- event:
		default:
			// Slow consumer; the recent-events endpoint is the catch-up path.
		}
	})
	defer func() {
		if err := h.bus.Unsubscribe(sub.ID); err != nil {
			logger.Warn("Failed to unsubscribe websocket feed: %v", err)
		}
	}()

	// The read loop only exists to observe the close handshake.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-feed:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
