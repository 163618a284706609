package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invtrack/inventory-golang/internal/models"
)

// ItemCache is the consumed side of the push contract: a locally cached
// item list that is mutated ONLY by the three event appliers plus a full
// Reset. No optimistic local edits: the cache reflects store-confirmed
// state exclusively, so every view reading it converges to the same list.
type ItemCache struct {
	mu    sync.RWMutex
	items []models.Item
}

func NewItemCache() *ItemCache {
	return &ItemCache{}
}

// Reset replaces the whole cache with a freshly fetched item list. Used
// after the initial fetch and on every reconnect, since missed events are
// not replayed.
func (c *ItemCache) Reset(items []models.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]models.Item(nil), items...)
}

// Apply dispatches one push event to the matching mutation path:
// item_added appends, item_updated replaces by id, item_deleted removes
// by id.
func (c *ItemCache) Apply(event Event) error {
	switch event.Name {
	case EventItemAdded:
		var item models.Item
		if err := json.Unmarshal(event.Data, &item); err != nil {
			return fmt.Errorf("bad %s payload: %w", event.Name, err)
		}
		c.add(item)

	case EventItemUpdated:
		var item models.Item
		if err := json.Unmarshal(event.Data, &item); err != nil {
			return fmt.Errorf("bad %s payload: %w", event.Name, err)
		}
		c.replace(item)

	case EventItemDeleted:
		var payload struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return fmt.Errorf("bad %s payload: %w", event.Name, err)
		}
		c.remove(payload.ID)

	default:
		return fmt.Errorf("unknown event %q", event.Name)
	}
	return nil
}

// Items returns a snapshot copy of the cached list.
func (c *ItemCache) Items() []models.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Item(nil), c.items...)
}

// Len returns the number of cached items.
func (c *ItemCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *ItemCache) add(item models.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Guard against a duplicate add (e.g. the initial fetch already
	// contained the item the event announces).
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

func (c *ItemCache) replace(item models.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i] = item
			return
		}
	}
	// An update for an item we never saw (missed add): append so the list
	// still converges to exactly one copy.
	c.items = append(c.items, item)
}

func (c *ItemCache) remove(itemID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}
