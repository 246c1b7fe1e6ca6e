package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jattu8602/ek-sub000/internal/middleware"
	ws "github.com/jattu8602/ek-sub000/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"https://kisankhet.in":       true,
			"https://admin.kisankhet.in": true,
			"http://localhost:5173":      true, // local dev
			"http://localhost:3000":      true, // local dev
		}
		return allowedOrigins[origin]
	},
}

// EventsController serves the admin dashboard's live order feed.
type EventsController struct {
	hub *ws.Hub
}

func NewEventsController(hub *ws.Hub) *EventsController {
	return &EventsController{
		hub: hub,
	}
}

// StreamOrders upgrades the connection and attaches it to the event hub
// GET /api/v1/admin/events/orders?token=<jwt>
func (ctrl *EventsController) StreamOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   &ws.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
