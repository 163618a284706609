package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/invtrack/inventory-golang/internal/ocr"
	"github.com/invtrack/inventory-golang/internal/reconcile"
)

// Image types the OCR pipeline accepts, keyed by file extension. The value
// is the format tag handed to the vision service.
var allowedImageTypes = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
}

// uploadDir returns where invoice images are stored on disk.
func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// UploadInvoice is the handler for POST /api/ocr/upload.
//
// Flow: save the image, run OCR, parse candidates, match them against the
// current inventory and seed a reconciliation session. Nothing is mutated
// here. The response is purely a proposal for the user to review.
func (h *Handlers) UploadInvoice(c *gin.Context) {
	// 1. --- Get the file from the request ---
	file, err := c.FormFile("invoice_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	format, ok := allowedImageTypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	// 2. --- Read the image into memory ---
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	imageData, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	// 3. --- Save it under a safe unique filename ---
	dir := uploadDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.MkdirAll(dir, 0755)
	}
	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(dir, newFilename), imageData, 0644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	imagePath := "/uploads/" + newFilename

	// 4. --- Extract text ---
	// A failed OCR call fails the whole request: no candidates exist yet,
	// so there is no partial session to preserve.
	extractedText, err := h.Vision.ExtractText(c.Request.Context(), imageData, format)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to extract text from the image"})
		return
	}
	if extractedText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to extract text from the image"})
		return
	}

	// 5. --- Parse candidates ---
	// Zero candidates is a valid outcome, not an error: the client shows a
	// "no items detected" state alongside the raw text.
	candidates := ocr.ParseInvoiceItems(extractedText)
	if len(candidates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"warning":        "No potential inventory items detected",
			"image_path":     imagePath,
			"extracted_text": extractedText,
		})
		return
	}

	// 6. --- Match against the current inventory snapshot ---
	items, err := h.Store.ListItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	matches := ocr.MatchItems(candidates, items)

	// 7. --- Seed the reconciliation session ---
	session := reconcile.NewSession(candidates, matches)

	c.JSON(http.StatusOK, gin.H{
		"image_path":      imagePath,
		"extracted_text":  extractedText,
		"potential_items": candidates,
		"matches":         matches,
		"entries":         session.Entries(),
	})
}

// ProcessItemInput is one reviewed entry sent back by the client. "id" is
// the inventory item an 'update' entry is linked to.
type ProcessItemInput struct {
	TempID     string  `json:"temp_id"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Vendor     string  `json:"vendor"`
	Action     string  `json:"action" binding:"required"`
	ID         *int64  `json:"id"`
	MatchScore float64 `json:"match_score"`
}

type ProcessItemsInput struct {
	Items []ProcessItemInput `json:"items" binding:"required"`
}

// ProcessDetectedItems is the handler for POST /api/ocr/process.
//
// Each entry is applied independently, so one bad entry never rolls back
// its neighbours. The aggregate counts are always returned so the client
// can retry just the failed subset.
func (h *Handlers) ProcessDetectedItems(c *gin.Context) {
	userIDRaw, _ := c.Get("userID")
	userID := userIDRaw.(int64)

	var input ProcessItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format"})
		return
	}

	entries := make([]reconcile.Entry, 0, len(input.Items))
	for _, in := range input.Items {
		entries = append(entries, reconcile.Entry{
			TempID:       in.TempID,
			Name:         in.Name,
			Quantity:     in.Quantity,
			Unit:         in.Unit,
			Vendor:       in.Vendor,
			Action:       reconcile.Action(in.Action),
			LinkedItemID: in.ID,
			MatchScore:   in.MatchScore,
		})
	}

	session := reconcile.NewSessionFromEntries(entries)
	result, err := session.Submit(h.Store, userID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "OCR processing complete",
		"items_added":     result.ItemsAdded,
		"items_updated":   result.ItemsUpdated,
		"items_ignored":   result.ItemsIgnored,
		"succeeded_count": result.SucceededCount,
		"failed_count":    result.FailedCount,
		"errors":          result.PerEntryErrors,
	})
}
