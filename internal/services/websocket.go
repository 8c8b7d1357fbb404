package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/petsustain/petsustain-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Role string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and pushes donation change
// events to them. Dashboards apply the events incrementally instead of
// refetching full tables.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToRole sends a message to all connected users holding a role
func (h *Hub) BroadcastToRole(role string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.Role == role {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToAll sends a message to all connected clients
func (h *Hub) BroadcastToAll(message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- message:
			// Message sent successfully
		default:
			log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// DonationCreated announces a new pending donation to riders and admins
type DonationCreated struct {
	Donation *models.Donation `json:"donation"`
}

// DonationClaimed announces that a rider accepted a donation
type DonationClaimed struct {
	DonationID uint   `json:"donationId"`
	RiderID    uint   `json:"riderId"`
	Status     string `json:"status"`
}

// QualityChecked announces a rider's quality-check outcome
type QualityChecked struct {
	DonationID uint   `json:"donationId"`
	RiderID    uint   `json:"riderId"`
	Result     string `json:"result"`
	Status     string `json:"status"`
}

// DonationDelivered announces that a donation reached a shelter
type DonationDelivered struct {
	DonationID uint   `json:"donationId"`
	ShelterID  uint   `json:"shelterId"`
	Status     string `json:"status"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		// Clients only listen; reads exist to detect disconnects
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendDonationCreated pushes a new donation to every rider and admin
func (hub *Hub) SendDonationCreated(created DonationCreated) {
	data, err := json.Marshal(WebSocketMessage{Type: "donation_created", Data: created})
	if err != nil {
		log.Printf("Error marshaling donation created: %v", err)
		return
	}

	hub.BroadcastToRole(models.RoleRider, data)
	hub.BroadcastToRole(models.RoleAdmin, data)
}

// SendDonationClaimed notifies the donor and keeps rider and admin
// dashboards current after a claim
func (hub *Hub) SendDonationClaimed(donorID uint, claimed DonationClaimed) {
	data, err := json.Marshal(WebSocketMessage{Type: "donation_claimed", Data: claimed})
	if err != nil {
		log.Printf("Error marshaling donation claimed: %v", err)
		return
	}

	hub.BroadcastToUser(donorID, data)
	hub.BroadcastToRole(models.RoleRider, data)
	hub.BroadcastToRole(models.RoleAdmin, data)
}

// SendQualityChecked notifies the donor of the inspection outcome
func (hub *Hub) SendQualityChecked(donorID uint, checked QualityChecked) {
	data, err := json.Marshal(WebSocketMessage{Type: "quality_checked", Data: checked})
	if err != nil {
		log.Printf("Error marshaling quality checked: %v", err)
		return
	}

	hub.BroadcastToUser(donorID, data)
	hub.BroadcastToRole(models.RoleRider, data)
	hub.BroadcastToRole(models.RoleAdmin, data)
}

// SendDonationDelivered notifies the donor and the receiving shelter
func (hub *Hub) SendDonationDelivered(donorID, shelterUserID uint, delivered DonationDelivered) {
	data, err := json.Marshal(WebSocketMessage{Type: "donation_delivered", Data: delivered})
	if err != nil {
		log.Printf("Error marshaling donation delivered: %v", err)
		return
	}

	hub.BroadcastToUser(donorID, data)
	hub.BroadcastToUser(shelterUserID, data)
	hub.BroadcastToRole(models.RoleAdmin, data)
}
