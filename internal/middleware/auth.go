package middleware

import (
	"net/http"
	"strings"

	"github.com/brainstorm-app/brainstorm-golang/internal/auth"
	"github.com/brainstorm-app/brainstorm-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
	CtxUserName = "userName"
)

// AuthMiddleware validates the bearer token and stashes the caller's
// identity in the context. The role comes from the token claims; the
// login endpoint is the only place roles are read from the database, so
// protected requests never pay for an extra user lookup.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 2. --- Validate Token ---
		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 3. --- Success ---
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserName, claims.Name)
		c.Next()
	}
}

//
// --- Role-Based Middleware ---
//
// These run *after* AuthMiddleware and enforce role permissions from the
// claims it stored.
//

// ManagerMiddleware admits managers only. Review authority belongs to
// managers; admins do not get a bypass on the review routes.
func ManagerMiddleware() gin.HandlerFunc {
	return requireRole(models.RoleManager)
}

// AdminMiddleware admits admins only (user and category management).
func AdminMiddleware() gin.HandlerFunc {
	return requireRole(models.RoleAdmin)
}

// ManagerOrAdminMiddleware admits either role (reports, AI assistant).
func ManagerOrAdminMiddleware() gin.HandlerFunc {
	return requireRole(models.RoleManager, models.RoleAdmin)
}

func requireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, exists := c.Get(CtxUserRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}
		role := roleRaw.(string)

		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
		c.Abort()
	}
}
