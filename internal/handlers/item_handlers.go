package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/invtrack/inventory-golang/internal/models"
	"github.com/invtrack/inventory-golang/internal/store"
)

// --- Inventory Item Handlers ---
// The payload shapes here are the contract the frontend was built against:
// lists and items are returned bare, errors as {"error": ...}.

// GetItems is the handler for GET /api/items.
func (h *Handlers) GetItems(c *gin.Context) {
	items, err := h.Store.ListItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// GetItem is the handler for GET /api/items/:id.
func (h *Handlers) GetItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	item, err := h.Store.GetItem(id)
	if errors.Is(err, store.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateItemInput defines the JSON for creating an item.
type CreateItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"gte=0"`
	Unit     string  `json:"unit" binding:"required"`
	Vendor   string  `json:"vendor"`
}

// CreateItem is the handler for POST /api/items.
func (h *Handlers) CreateItem(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Store.CreateItem(input.Name, input.Quantity, input.Unit, input.Vendor, userID)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItemInput defines the JSON for updating an item. All fields are
// optional; absent fields are left unchanged.
type UpdateItemInput struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Vendor   *string  `json:"vendor"`
}

// UpdateItem is the handler for PUT /api/items/:id.
func (h *Handlers) UpdateItem(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var input UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Store.UpdateItem(id, store.UpdateItemFields{
		Name:     input.Name,
		Quantity: input.Quantity,
		Unit:     input.Unit,
		Vendor:   input.Vendor,
	}, userID)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem is the handler for DELETE /api/items/:id.
func (h *Handlers) DeleteItem(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	if err := h.Store.DeleteItem(id, userID); err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// GetItemHistory is the handler for GET /api/items/:id/history.
func (h *Handlers) GetItemHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	changes, err := h.Store.ItemHistory(id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	if changes == nil {
		changes = []models.InventoryChange{}
	}

	c.JSON(http.StatusOK, changes)
}

// writeStoreError maps store errors onto the HTTP taxonomy: validation
// failures are 400, missing items 404, everything else 500.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case store.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
