package realtime

import (
	"encoding/json"
	"log"

	"github.com/invtrack/inventory-golang/internal/models"
)

// Hub fans committed store mutations out to every connected client.
// All client bookkeeping happens on the Run goroutine, so no locking is
// needed around the clients map, and broadcasts for one item are delivered
// in the order they were committed.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's event loop. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("WebSocket client connected (%d total)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("WebSocket client disconnected (%d total)", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// A client that cannot keep up is dropped; it will
					// re-fetch the full item list on reconnect.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast queues one event for delivery to every connected client.
func (h *Hub) Broadcast(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event.Name, err)
		return
	}
	h.broadcast <- message
}

// --- store.Broadcaster implementation ---

func (h *Hub) ItemAdded(item models.Item) {
	h.Broadcast(NewItemAddedEvent(item))
}

func (h *Hub) ItemUpdated(item models.Item) {
	h.Broadcast(NewItemUpdatedEvent(item))
}

func (h *Hub) ItemDeleted(itemID int64) {
	h.Broadcast(NewItemDeletedEvent(itemID))
}
