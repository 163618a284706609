// Package store is the canonical source of truth for inventory items.
// Every successful create/update/delete writes exactly one row to the
// append-only change log inside the same transaction, then fires exactly
// one broadcast, so no client ever sees an event for a mutation that did
// not commit.
package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/invtrack/inventory-golang/internal/models"
)

// Broadcaster pushes committed mutations to connected clients. The
// realtime hub implements it; tests inject a recorder.
type Broadcaster interface {
	ItemAdded(item models.Item)
	ItemUpdated(item models.Item)
	ItemDeleted(itemID int64)
}

// Store wraps the database and the push channel.
type Store struct {
	DB     *sql.DB
	Events Broadcaster
}

func New(db *sql.DB, events Broadcaster) *Store {
	return &Store{DB: db, Events: events}
}

// UpdateItemFields carries the optional fields of an item update. Nil
// means "leave unchanged".
type UpdateItemFields struct {
	Name     *string
	Quantity *float64
	Unit     *string
	Vendor   *string
}

// ListItems returns the full inventory snapshot, ordered by name.
func (s *Store) ListItems() ([]models.Item, error) {
	query := `
		SELECT id, name, quantity, unit, vendor, last_updated, created_by, updated_by
		FROM items
		ORDER BY name ASC
	`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var createdBy, updatedBy sql.NullInt64
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Quantity, &item.Unit, &item.Vendor,
			&item.LastUpdated, &createdBy, &updatedBy,
		); err != nil {
			return nil, err
		}
		item.CreatedBy = createdBy.Int64
		item.UpdatedBy = updatedBy.Int64
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItem fetches one item by id.
func (s *Store) GetItem(id int64) (*models.Item, error) {
	query := `
		SELECT id, name, quantity, unit, vendor, last_updated, created_by, updated_by
		FROM items
		WHERE id = ?
	`
	var item models.Item
	var createdBy, updatedBy sql.NullInt64
	err := s.DB.QueryRow(query, id).Scan(
		&item.ID, &item.Name, &item.Quantity, &item.Unit, &item.Vendor,
		&item.LastUpdated, &createdBy, &updatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	item.CreatedBy = createdBy.Int64
	item.UpdatedBy = updatedBy.Int64
	return &item, nil
}

// CreateItem inserts a new item plus its 'add' change record, then
// broadcasts item_added.
func (s *Store) CreateItem(name string, quantity float64, unit string, vendor string, userID int64) (*models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must not be negative"}
	}
	if strings.TrimSpace(unit) == "" {
		unit = "pcs"
	}

	now := time.Now()
	item := models.Item{
		Name:        name,
		Quantity:    quantity,
		Unit:        unit,
		Vendor:      sql.NullString{String: vendor, Valid: vendor != ""},
		LastUpdated: now,
		CreatedBy:   userID,
		UpdatedBy:   userID,
	}

	// 1. --- Item row + change record in one transaction ---
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO items (name, quantity, unit, vendor, last_updated, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Quantity, item.Unit, item.Vendor, item.LastUpdated, userID, userID,
	)
	if err != nil {
		return nil, err
	}
	item.ID, _ = res.LastInsertId()

	if err := insertChange(tx, item.ID, 0, item.Quantity, models.ChangeTypeAdd, now, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// 2. --- Broadcast only after the commit ---
	s.Events.ItemAdded(item)
	return &item, nil
}

// UpdateItem applies the provided fields to an existing item, records the
// 'update' change, then broadcasts item_updated.
func (s *Store) UpdateItem(id int64, fields UpdateItemFields, userID int64) (*models.Item, error) {
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if fields.Quantity != nil && *fields.Quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must not be negative"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. --- Lock the current row so the change log sees a consistent
	// previous quantity ---
	var item models.Item
	var createdBy, updatedBy sql.NullInt64
	err = tx.QueryRow(`
		SELECT id, name, quantity, unit, vendor, last_updated, created_by, updated_by
		FROM items WHERE id = ? FOR UPDATE`, id,
	).Scan(
		&item.ID, &item.Name, &item.Quantity, &item.Unit, &item.Vendor,
		&item.LastUpdated, &createdBy, &updatedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	item.CreatedBy = createdBy.Int64

	previousQuantity := item.Quantity

	// 2. --- Apply the changed fields ---
	if fields.Name != nil {
		item.Name = strings.TrimSpace(*fields.Name)
	}
	if fields.Quantity != nil {
		item.Quantity = *fields.Quantity
	}
	if fields.Unit != nil {
		item.Unit = *fields.Unit
	}
	if fields.Vendor != nil {
		item.Vendor = sql.NullString{String: *fields.Vendor, Valid: *fields.Vendor != ""}
	}
	item.LastUpdated = time.Now()
	item.UpdatedBy = userID

	_, err = tx.Exec(`
		UPDATE items
		SET name = ?, quantity = ?, unit = ?, vendor = ?, last_updated = ?, updated_by = ?
		WHERE id = ?`,
		item.Name, item.Quantity, item.Unit, item.Vendor, item.LastUpdated, userID, id,
	)
	if err != nil {
		return nil, err
	}

	if err := insertChange(tx, id, previousQuantity, item.Quantity, models.ChangeTypeUpdate, item.LastUpdated, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.Events.ItemUpdated(item)
	return &item, nil
}

// UpdateItemQuantity is the narrow update the reconciliation batch uses.
func (s *Store) UpdateItemQuantity(id int64, quantity float64, userID int64) (*models.Item, error) {
	return s.UpdateItem(id, UpdateItemFields{Quantity: &quantity}, userID)
}

// DeleteItem records the 'delete' change, removes the item, then
// broadcasts item_deleted.
func (s *Store) DeleteItem(id int64, userID int64) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var previousQuantity float64
	err = tx.QueryRow(`SELECT quantity FROM items WHERE id = ? FOR UPDATE`, id).Scan(&previousQuantity)
	if err == sql.ErrNoRows {
		return ErrItemNotFound
	}
	if err != nil {
		return err
	}

	// The change record is written before the row disappears.
	if err := insertChange(tx, id, previousQuantity, 0, models.ChangeTypeDelete, time.Now(), userID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM items WHERE id = ?`, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.Events.ItemDeleted(id)
	return nil
}

// ItemHistory returns the change log for one item, newest first.
func (s *Store) ItemHistory(itemID int64) ([]models.InventoryChange, error) {
	if _, err := s.GetItem(itemID); err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(`
		SELECT id, item_id, previous_quantity, new_quantity, change_type, timestamp, user_id
		FROM inventory_changes
		WHERE item_id = ?
		ORDER BY timestamp DESC, id DESC`, itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []models.InventoryChange
	for rows.Next() {
		var change models.InventoryChange
		var userID sql.NullInt64
		if err := rows.Scan(
			&change.ID, &change.ItemID, &change.PreviousQuantity, &change.NewQuantity,
			&change.ChangeType, &change.Timestamp, &userID,
		); err != nil {
			return nil, err
		}
		change.UserID = userID.Int64
		changes = append(changes, change)
	}
	return changes, rows.Err()
}

func insertChange(tx *sql.Tx, itemID int64, previous, next float64, changeType string, at time.Time, userID int64) error {
	_, err := tx.Exec(`
		INSERT INTO inventory_changes (item_id, previous_quantity, new_quantity, change_type, timestamp, user_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		itemID, previous, next, changeType, at, userID,
	)
	return err
}
