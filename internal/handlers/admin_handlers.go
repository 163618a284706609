package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/invtrack/inventory-golang/internal/models"
)

// --- User Management (Admin Only) ---
// The whole group sits behind AdminMiddleware, so these handlers don't
// re-check the caller's role.

// GetUsers is the handler for GET /api/users.
func (h *Handlers) GetUsers(c *gin.Context) {
	rows, err := h.DB.Query(`SELECT id, username, email, role, created_at FROM users ORDER BY id ASC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan user"})
			return
		}
		users = append(users, user)
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUserInput carries the optional fields an admin may change.
type UpdateUserInput struct {
	Role     *string `json:"role"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateUser is the handler for PUT /api/users/:id.
func (h *Handlers) UpdateUser(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Role != nil && *input.Role != "admin" && *input.Role != "user" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be 'admin' or 'user'"})
		return
	}

	// Apply each provided field separately; simpler than building a
	// dynamic SET clause for three columns.
	if input.Role != nil {
		if _, err := h.DB.Exec(`UPDATE users SET role = ? WHERE id = ?`, *input.Role, targetID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
			return
		}
	}
	if input.Email != nil {
		if _, err := h.DB.Exec(`UPDATE users SET email = ? WHERE id = ?`, *input.Email, targetID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update email"})
			return
		}
	}
	if input.Password != nil {
		var password models.Password
		if err := password.Set(*input.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if _, err := h.DB.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, password.Hash, targetID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
	}

	// Return the updated user.
	var user models.User
	err = h.DB.QueryRow(
		`SELECT id, username, email, role, created_at FROM users WHERE id = ?`, targetID,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Role, &user.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser is the handler for DELETE /api/users/:id.
func (h *Handlers) DeleteUser(c *gin.Context) {
	adminIDRaw, _ := c.Get("userID")
	adminID := adminIDRaw.(int64)

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	// Prevent self-deletion.
	if targetID == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete yourself"})
		return
	}

	result, err := h.DB.Exec(`DELETE FROM users WHERE id = ?`, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
