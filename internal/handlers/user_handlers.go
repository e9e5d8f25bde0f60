package handlers

import (
	"database/sql"
	"net/http"

	"github.com/brainstorm-app/brainstorm-golang/internal/middleware"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- User Management Handlers (Admin) ---
//

// ListUsers is the handler for GET /api/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	query := `
		SELECT id, name, email, role, status, created_date
		FROM users
		ORDER BY created_date DESC, id DESC`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.CreatedDate); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan user row"})
			return
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating user rows"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// SetUserStatusInput is the JSON body for PATCH /api/users/:id/status.
type SetUserStatusInput struct {
	Status string `json:"status" binding:"required,oneof=Active Inactive"`
}

// SetUserStatus is the handler for PATCH /api/users/:id/status.
// Deactivating the last active admin would lock everyone out of user
// management, so that transition is refused.
func (h *Handlers) SetUserStatus(c *gin.Context) {
	targetID := c.Param("id")

	var input SetUserStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 2. --- Lock & Load the Target User ---
	var targetRole, targetStatus string
	err = tx.QueryRow("SELECT role, status FROM users WHERE id = ? FOR UPDATE", targetID).
		Scan(&targetRole, &targetStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	// 3. --- Guard the Last Active Admin ---
	if targetRole == models.RoleAdmin && targetStatus == models.UserActive && input.Status == models.UserInactive {
		var activeAdmins int
		err = tx.QueryRow("SELECT COUNT(*) FROM users WHERE role = ? AND status = ? FOR UPDATE",
			models.RoleAdmin, models.UserActive).Scan(&activeAdmins)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count active admins"})
			return
		}
		if activeAdmins <= 1 {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot deactivate the last active admin"})
			return
		}
	}

	// 4. --- Apply & Commit ---
	if _, err := tx.Exec("UPDATE users SET status = ? WHERE id = ?", input.Status, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
}

// GetMyProfile is the handler for GET /api/users/me.
// Everything here comes from the database, not the token, so a role or
// name change shows up without re-login.
func (h *Handlers) GetMyProfile(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)

	var u models.User
	err := h.DB.QueryRow("SELECT id, name, email, role, status, created_date FROM users WHERE id = ?", userID).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.CreatedDate)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, u)
}
