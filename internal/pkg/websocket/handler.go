package websocket

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler upgrades console requests to status event streams
type Handler struct {
	hub       *Hub
	sessionID func(c *gin.Context) string
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

// NewHandler creates a new WebSocket handler. sessionID extracts the caller's
// session; allowedOrigins are accepted in addition to same-origin requests.
func NewHandler(hub *Hub, sessionID func(c *gin.Context) string, allowedOrigins []string, logger zerolog.Logger) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		hub:       hub,
		sessionID: sessionID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowed["*"] || allowed[origin] {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Stream status changes
// @Description Upgrades to a WebSocket that receives a JSON event whenever the session's status slot changes
// @Tags console
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} dto.ErrorResponse "Not a WebSocket handshake"
// @Router /console/events [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	sessionID := h.sessionID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an error response
		h.logger.Debug().Err(err).Str("session", sessionID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 16),
		sessionID: sessionID,
		logger:    h.logger,
	}
	if !h.hub.add(client) {
		// Shutting down
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
