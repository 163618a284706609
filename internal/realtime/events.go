// Package realtime is the push layer: committed inventory mutations are
// broadcast to every connected client so their local views stay consistent
// without polling.
package realtime

import (
	"encoding/json"

	"github.com/invtrack/inventory-golang/internal/models"
)

// The three event names of the push contract. Per-item ordering is
// preserved because every event originates from one serialized store
// mutation; events for different items carry no ordering guarantee.
const (
	EventItemAdded   = "item_added"
	EventItemUpdated = "item_updated"
	EventItemDeleted = "item_deleted"
)

// Event is one push message as it travels over the wire.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// deletedPayload is the body of an item_deleted event.
type deletedPayload struct {
	ID int64 `json:"id"`
}

func newItemEvent(name string, item models.Item) Event {
	data, _ := json.Marshal(item)
	return Event{Name: name, Data: data}
}

// NewItemAddedEvent builds an item_added event carrying the full item.
func NewItemAddedEvent(item models.Item) Event {
	return newItemEvent(EventItemAdded, item)
}

// NewItemUpdatedEvent builds an item_updated event carrying the full item.
func NewItemUpdatedEvent(item models.Item) Event {
	return newItemEvent(EventItemUpdated, item)
}

// NewItemDeletedEvent builds an item_deleted event carrying only the id.
func NewItemDeletedEvent(itemID int64) Event {
	data, _ := json.Marshal(deletedPayload{ID: itemID})
	return Event{Name: EventItemDeleted, Data: data}
}
