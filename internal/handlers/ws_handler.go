package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invtrack/inventory-golang/internal/auth"
	"github.com/invtrack/inventory-golang/internal/realtime"
)

// ServeWS is the handler for GET /api/ws.
//
// Browsers cannot attach an Authorization header to the websocket upgrade
// request, so the token travels as a query parameter instead and is
// validated with the same JWT path as every REST call.
func (h *Handlers) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}
	if _, err := auth.ValidateToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	realtime.ServeWS(h.Hub, c.Writer, c.Request)
}
