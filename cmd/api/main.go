package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/invtrack/inventory-golang/internal/database"
	"github.com/invtrack/inventory-golang/internal/handlers"
	"github.com/invtrack/inventory-golang/internal/ocr"
	"github.com/invtrack/inventory-golang/internal/realtime"
	"github.com/invtrack/inventory-golang/internal/routes"
	"github.com/invtrack/inventory-golang/internal/store"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	// 2. --- OCR Vision Service ---
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Fatal("CRITICAL ERROR: GEMINI_API_KEY environment variable is not set.")
	}
	vision, err := ocr.NewVisionService(geminiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Fatalf("Failed to initialize vision service: %v", err)
	}
	defer vision.Close()

	// 3. --- Push Channel ---
	// The hub's event loop runs for the lifetime of the process; every
	// committed store mutation is fanned out through it.
	hub := realtime.NewHub()
	go hub.Run()

	// 4. --- Inventory Store ---
	inventory := store.New(db, hub)

	// --- Application Setup ---
	// Inject ALL dependencies into the Handlers struct.
	app := &handlers.Handlers{
		DB:     db,
		Store:  inventory,
		Vision: vision,
		Hub:    hub,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting inventory tracker API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
