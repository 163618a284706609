package models

import (
	"database/sql"
	"time"
)

// Item is the model for the 'items' table.
// Quantity is a float because invoices routinely carry fractional amounts
// (e.g. 2.5 kg). It must never go negative; the store guards this.
type Item struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Quantity    float64        `json:"quantity" db:"quantity"`
	Unit        string         `json:"unit" db:"unit"`
	Vendor      sql.NullString `json:"vendor,omitempty" db:"vendor"`
	LastUpdated time.Time      `json:"last_updated" db:"last_updated"`
	CreatedBy   int64          `json:"created_by" db:"created_by"`
	UpdatedBy   int64          `json:"updated_by" db:"updated_by"`
}

// InventoryChange is one row of the append-only 'inventory_changes' log.
// A row is written exactly once per committed item mutation and is never
// updated or deleted afterwards.
type InventoryChange struct {
	ID               int64     `json:"id" db:"id"`
	ItemID           int64     `json:"item_id" db:"item_id"`
	PreviousQuantity float64   `json:"previous_quantity" db:"previous_quantity"`
	NewQuantity      float64   `json:"new_quantity" db:"new_quantity"`
	ChangeType       string    `json:"change_type" db:"change_type"` // 'add', 'update', 'delete'
	Timestamp        time.Time `json:"timestamp" db:"timestamp"`
	UserID           int64     `json:"user_id" db:"user_id"`
}

// Change types written to the log.
const (
	ChangeTypeAdd    = "add"
	ChangeTypeUpdate = "update"
	ChangeTypeDelete = "delete"
)
