package routes

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/invtrack/inventory-golang/internal/handlers"
	"github.com/invtrack/inventory-golang/internal/middleware"
)

// CORSMiddleware tells the browser which frontend origin may talk to us.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		// Reply to the browser's preflight OPTIONS request with 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	// Uploaded invoice images are served back to the review screen.
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	router.Static("/uploads", uploadDir)

	api := router.Group("/api")
	{
		// --- Auth Routes (Public) ---
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		// --- Push Channel ---
		// Authenticated inside the handler via a token query parameter,
		// since the upgrade request cannot carry a bearer header.
		api.GET("/ws", h.ServeWS)

		// --- Protected Routes (Login Required) ---
		authed := api.Group("/")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.GET("/auth/user", h.GetCurrentUser)

			// Inventory
			authed.GET("/items", h.GetItems)
			authed.POST("/items", h.CreateItem)
			authed.GET("/items/:id", h.GetItem)
			authed.PUT("/items/:id", h.UpdateItem)
			authed.DELETE("/items/:id", h.DeleteItem)
			authed.GET("/items/:id/history", h.GetItemHistory)

			// OCR invoice ingestion
			authed.POST("/ocr/upload", h.UploadInvoice)
			authed.POST("/ocr/process", h.ProcessDetectedItems)
		}

		// --- Admin-Only Routes ---
		admin := api.Group("/users")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.AdminMiddleware(h.DB))
		{
			admin.GET("", h.GetUsers)
			admin.PUT("/:id", h.UpdateUser)
			admin.DELETE("/:id", h.DeleteUser)
		}
	}

	return router
}
