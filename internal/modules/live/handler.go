package live

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"velopark/internal/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// TODO: restrict origins once the dashboard host is settled
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades dashboard connections and keeps them subscribed to one
// rack's status feed.
type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewHandler(hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{hub: hub, jwtService: jwtService}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/racks/:id", h.HandleRackFeed)
}

// HandleRackFeed serves GET /ws/racks/:id?token=JWT_TOKEN. Auth goes through
// the query string since websocket clients cannot set headers.
func (h *Handler) HandleRackFeed(c *gin.Context) {
	rackID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rack id"})
		return
	}

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required. Use ?token=YOUR_JWT_TOKEN"})
		return
	}
	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("live: websocket upgrade failed: %v", err)
		return
	}

	h.hub.Subscribe(rackID, conn)
	log.Printf("live: user %d subscribed to rack %d", claims.UserID, rackID)

	defer func() {
		h.hub.Unsubscribe(rackID, conn)
		log.Printf("live: user %d left rack %d", claims.UserID, rackID)
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	go h.pingLoop(conn)

	h.readLoop(conn)
}

func (h *Handler) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

// readLoop drains client frames until the peer goes away. Subscribers only
// listen; inbound payloads are ignored.
func (h *Handler) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("live: websocket read error: %v", err)
			}
			return
		}
	}
}
