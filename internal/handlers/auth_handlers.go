package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/brainstorm-app/brainstorm-golang/internal/auth"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

//
// --- Auth Handlers ---
//

// RegisterInput is the JSON body for POST /api/Auth/register.
// We accept employee and manager self-registration; admin accounts are
// seeded directly in the database.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=employee manager"`
}

// Register is the handler for POST /api/Auth/register.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleEmployee
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// 3. --- Save to Database ---
	query := `
		INSERT INTO users (name, email, password_hash, role, status, created_date)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := h.DB.Exec(query, input.Name, input.Email, password.Hash, role, models.UserActive, time.Now())
	if err != nil {
		// Duplicate email hits the unique key on users.email.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// 4. --- Send Success Response ---
	// The client reads this as plain text.
	c.String(http.StatusCreated, "User registered successfully")
}

// LoginInput is the JSON body for POST /api/Auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /api/Auth/login.
// On success it returns the raw JWT as the response body; the client
// decodes the payload to build its session user.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Look Up the User ---
	var user models.User
	query := `
		SELECT id, name, email, password_hash, role, status
		FROM users
		WHERE email = ?`

	err := h.DB.QueryRow(query, input.Email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Same message as a bad password so we don't leak which
			// emails exist.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	// 3. --- Check Account Status ---
	if user.Status != models.UserActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "This account has been deactivated"})
		return
	}

	// 4. --- Verify the Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify password"})
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// 5. --- Issue the Token ---
	token, err := auth.GenerateToken(user.ID, user.Role, user.Name, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.String(http.StatusOK, token)
}
