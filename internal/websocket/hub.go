package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
)

const (
	EventOrderPaid          = "order.paid"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the wire format pushed to admin dashboard connections.
type Event struct {
	Type  string       `json:"type"`
	Order *model.Order `json:"order,omitempty"`
	At    time.Time    `json:"at"`
}

// Client is one admin dashboard connection.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans order events out to every connected admin session. A user can
// hold several sessions at once (multiple tabs or devices).
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Order feed client connected", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			removed := false
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				removed = len(newList) < len(clientList)
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
			}
			h.mu.Unlock()

			// Unregister can arrive twice for one session: once from the
			// full-buffer disconnect and once from the read pump. Only the
			// pass that actually removed the client may close its channel.
			if removed {
				close(client.Send)
				logger.Info("Order feed client disconnected", map[string]interface{}{
					"user_id": client.UserID,
				})
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					select {
					case client.Send <- message:
					default:
						// Send buffer full, the connection is stuck.
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PublishOrderPaid pushes a paid order to every connected admin session.
// Called from the checkout path, so a full broadcast channel drops the
// event instead of blocking payment confirmation.
func (h *Hub) PublishOrderPaid(order *model.Order) {
	h.publish(Event{
		Type:  EventOrderPaid,
		Order: order,
		At:    time.Now(),
	})
}

// PublishOrderStatusChanged notifies admin sessions of a status update.
func (h *Hub) PublishOrderStatusChanged(order *model.Order) {
	h.publish(Event{
		Type:  EventOrderStatusChanged,
		Order: order,
		At:    time.Now(),
	})
}

func (h *Hub) publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order event", err, map[string]interface{}{
			"type": event.Type,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// ConnectedSessions reports how many sessions are currently attached.
func (h *Hub) ConnectedSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clientList := range h.clients {
		total += len(clientList)
	}
	return total
}
