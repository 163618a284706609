package realtime

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/invtrack/inventory-golang/internal/models"
)

func TestRealtime(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Realtime Suite")
}

var _ = Describe("Event constructors", func() {
	It("names item events by the wire contract", func() {
		Expect(NewItemAddedEvent(models.Item{ID: 1}).Name).To(Equal("item_added"))
		Expect(NewItemUpdatedEvent(models.Item{ID: 1}).Name).To(Equal("item_updated"))
		Expect(NewItemDeletedEvent(1).Name).To(Equal("item_deleted"))
	})

	It("carries the full item on add and update", func() {
		event := NewItemAddedEvent(models.Item{ID: 3, Name: "Widget A", Quantity: 4, Unit: "pcs"})
		var item models.Item
		Expect(json.Unmarshal(event.Data, &item)).To(Succeed())
		Expect(item.ID).To(Equal(int64(3)))
		Expect(item.Name).To(Equal("Widget A"))
	})

	It("carries only the id on delete", func() {
		event := NewItemDeletedEvent(9)
		Expect(string(event.Data)).To(MatchJSON(`{"id": 9}`))
	})
})

var _ = Describe("ItemCache", func() {
	var cache *ItemCache

	BeforeEach(func() {
		cache = NewItemCache()
		cache.Reset([]models.Item{
			{ID: 1, Name: "Widget A", Quantity: 4, Unit: "pcs"},
			{ID: 2, Name: "Gadget B", Quantity: 3, Unit: "pcs"},
		})
	})

	It("appends on item_added", func() {
		Expect(cache.Apply(NewItemAddedEvent(models.Item{ID: 3, Name: "Sprocket", Quantity: 1, Unit: "pcs"}))).To(Succeed())
		Expect(cache.Len()).To(Equal(3))
	})

	It("does not duplicate an item the snapshot already contained", func() {
		Expect(cache.Apply(NewItemAddedEvent(models.Item{ID: 2, Name: "Gadget B", Quantity: 3, Unit: "pcs"}))).To(Succeed())
		Expect(cache.Len()).To(Equal(2))
	})

	It("replaces by id on item_updated", func() {
		Expect(cache.Apply(NewItemUpdatedEvent(models.Item{ID: 1, Name: "Widget A", Quantity: 20, Unit: "pcs"}))).To(Succeed())

		items := cache.Items()
		Expect(items).To(HaveLen(2))
		count := 0
		for _, item := range items {
			if item.ID == 1 {
				count++
				Expect(item.Quantity).To(Equal(20.0))
			}
		}
		Expect(count).To(Equal(1))
	})

	It("converges regardless of interleaving with unrelated item events", func() {
		// Unrelated add and delete around the update must not disturb the
		// update's effect on item 1.
		Expect(cache.Apply(NewItemAddedEvent(models.Item{ID: 5, Name: "Cog", Quantity: 2, Unit: "pcs"}))).To(Succeed())
		Expect(cache.Apply(NewItemUpdatedEvent(models.Item{ID: 1, Name: "Widget A", Quantity: 20, Unit: "pcs"}))).To(Succeed())
		Expect(cache.Apply(NewItemDeletedEvent(2))).To(Succeed())

		var matches []models.Item
		for _, item := range cache.Items() {
			if item.ID == 1 {
				matches = append(matches, item)
			}
		}
		Expect(matches).To(HaveLen(1))
		Expect(matches[0].Quantity).To(Equal(20.0))
	})

	It("appends on an update for an item it never saw", func() {
		Expect(cache.Apply(NewItemUpdatedEvent(models.Item{ID: 8, Name: "Bolt", Quantity: 6, Unit: "pcs"}))).To(Succeed())
		Expect(cache.Len()).To(Equal(3))
	})

	It("removes by id on item_deleted", func() {
		Expect(cache.Apply(NewItemDeletedEvent(1))).To(Succeed())
		Expect(cache.Len()).To(Equal(1))
		Expect(cache.Items()[0].ID).To(Equal(int64(2)))
	})

	It("ignores a delete for an unknown id", func() {
		Expect(cache.Apply(NewItemDeletedEvent(42))).To(Succeed())
		Expect(cache.Len()).To(Equal(2))
	})

	It("rejects unknown event names", func() {
		err := cache.Apply(Event{Name: "item_exploded", Data: json.RawMessage(`{}`)})
		Expect(err).To(HaveOccurred())
	})

	It("replaces the whole list on Reset", func() {
		cache.Reset([]models.Item{{ID: 9, Name: "Nut", Quantity: 1, Unit: "pcs"}})
		Expect(cache.Len()).To(Equal(1))
		Expect(cache.Items()[0].ID).To(Equal(int64(9)))
	})

	It("hands out snapshot copies, not the backing slice", func() {
		items := cache.Items()
		items[0].Quantity = 999
		Expect(cache.Items()[0].Quantity).To(Equal(4.0))
	})
})
