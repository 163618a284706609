package handlers

import (
	"database/sql"

	"github.com/invtrack/inventory-golang/internal/ocr"
	"github.com/invtrack/inventory-golang/internal/realtime"
	"github.com/invtrack/inventory-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB     *sql.DB            // used directly for user/auth queries
	Store  *store.Store       // canonical inventory store (items + change log)
	Vision *ocr.VisionService // Gemini-backed invoice OCR
	Hub    *realtime.Hub      // websocket push channel
}
